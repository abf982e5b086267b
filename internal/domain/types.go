package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// Network represents the deployment network
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkSepolia Network = "sepolia"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
)

// IsValidNetwork checks if a network is one of the supported deployments
func IsValidNetwork(n Network) bool {
	return n == NetworkMainnet || n == NetworkSepolia
}

// Chain returns the CAIP-2 chain for the network
func (n Network) Chain() Chain {
	if n == NetworkSepolia {
		return ChainEthereumSepolia
	}
	return ChainEthereumMainnet
}

// OpenSeaChain returns the chain slug OpenSea uses for the network
func (n Network) OpenSeaChain() string {
	if n == NetworkSepolia {
		return "sepolia"
	}
	return "ethereum"
}

// ChainStandard represents blockchain token standards
type ChainStandard string

const (
	StandardERC721  ChainStandard = "erc721"
	StandardERC1155 ChainStandard = "erc1155"
)

// TransferAction is the feed classification of a transfer relative to the aggregator
type TransferAction string

const (
	ActionDeposited TransferAction = "deposited"
	ActionWithdrew  TransferAction = "withdrew"
	ActionMinted    TransferAction = "minted"
)

// TransferEvent is the canonical record written to the transfer store.
// Addresses are lowercase; TokenID 0 marks rows that carry no token.
type TransferEvent struct {
	ID              string  `json:"id"`
	TokenID         int64   `json:"tokenId"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	TokenAddress    *string `json:"tokenAddress,omitempty"`
	BlockNumber     int64   `json:"blockNumber"`
	BlockTimestamp  int64   `json:"blockTimestamp"`
	TransactionHash string  `json:"transactionHash"`
}

// IsMint reports whether the transfer originates from the zero address
func (e *TransferEvent) IsMint() bool {
	return IsZeroAddress(e.From)
}

// TransferID builds the store key for a transfer: {txHash}_{suffix}
func TransferID(txHash string, suffix string) string {
	return fmt.Sprintf("%s_%s", txHash, suffix)
}

// ClassifyTransfer classifies a transfer and returns the address acting on it:
// the mint recipient, the depositor or the withdrawer.
func ClassifyTransfer(from, to, aggregator string) (TransferAction, string) {
	switch {
	case IsZeroAddress(from):
		return ActionMinted, to
	case strings.EqualFold(to, aggregator):
		return ActionDeposited, from
	default:
		return ActionWithdrew, to
	}
}

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidAddress checks for 0x followed by exactly 40 hex characters
func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address) && common.IsHexAddress(address)
}

// NormalizeAddress lowercases an address, the form stored in the transfer table
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// NormalizeAddresses normalizes a list of addresses in place
func NormalizeAddresses(addresses []string) []string {
	for i, address := range addresses {
		addresses[i] = NormalizeAddress(address)
	}
	return addresses
}

// IsZeroAddress checks if the address is the zero address
func IsZeroAddress(address string) bool {
	return strings.EqualFold(address, ETHEREUM_ZERO_ADDRESS)
}

// ParseQuantity parses a 0x-prefixed hex or a decimal integer.
// Leading zeros are accepted for hex ("0x0f").
func ParseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidQuantity
	}

	n, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return n, nil
}

// ParseInt64Quantity parses a quantity that must fit into an int64
func ParseInt64Quantity(s string) (int64, error) {
	n, err := ParseQuantity(s)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("%w: %q overflows int64", ErrInvalidQuantity, s)
	}
	return n.Int64(), nil
}
