package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidNetwork(t *testing.T) {
	assert.True(t, IsValidNetwork(NetworkMainnet))
	assert.True(t, IsValidNetwork(NetworkSepolia))
	assert.False(t, IsValidNetwork(Network("")))
	assert.False(t, IsValidNetwork(Network("goerli")))
}

func TestNetwork_Chain(t *testing.T) {
	assert.Equal(t, ChainEthereumMainnet, NetworkMainnet.Chain())
	assert.Equal(t, ChainEthereumSepolia, NetworkSepolia.Chain())
	assert.Equal(t, "ethereum", NetworkMainnet.OpenSeaChain())
	assert.Equal(t, "sepolia", NetworkSepolia.OpenSeaChain())
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected bool
	}{
		{
			name:     "lowercase address",
			address:  "0x6140f00e4ff3936702e68744f2b5978885464cbb",
			expected: true,
		},
		{
			name:     "checksummed address",
			address:  "0x396343362be2A4dA1cE0C1C210945346fb82Aa49",
			expected: true,
		},
		{
			name:     "not an address",
			address:  "not-an-address",
			expected: false,
		},
		{
			name:     "too short",
			address:  "0x6140f00e4ff3936702e68744f2b5978885464c",
			expected: false,
		},
		{
			name:     "too long",
			address:  "0x6140f00e4ff3936702e68744f2b5978885464cbbaa",
			expected: false,
		},
		{
			name:     "missing prefix",
			address:  "6140f00e4ff3936702e68744f2b5978885464cbb",
			expected: false,
		},
		{
			name:     "non hex characters",
			address:  "0x6140f00e4ff3936702e68744f2b5978885464cbz",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidAddress(tt.address))
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0x396343362be2a4da1ce0c1c210945346fb82aa49", NormalizeAddress(" 0x396343362be2A4dA1cE0C1C210945346fb82Aa49 "))

	addrs := NormalizeAddresses([]string{"0xABC", "0xdef"})
	assert.Equal(t, []string{"0xabc", "0xdef"}, addrs)
}

func TestClassifyTransfer(t *testing.T) {
	aggregator := "0x6140f00e4ff3936702e68744f2b5978885464cbb"
	user := "0x1111111111111111111111111111111111111111"

	tests := []struct {
		name           string
		from           string
		to             string
		expectedAction TransferAction
		expectedActor  string
	}{
		{
			name:           "mint to user",
			from:           ETHEREUM_ZERO_ADDRESS,
			to:             user,
			expectedAction: ActionMinted,
			expectedActor:  user,
		},
		{
			name:           "mint to aggregator is still a mint",
			from:           ETHEREUM_ZERO_ADDRESS,
			to:             aggregator,
			expectedAction: ActionMinted,
			expectedActor:  aggregator,
		},
		{
			name:           "deposit",
			from:           user,
			to:             aggregator,
			expectedAction: ActionDeposited,
			expectedActor:  user,
		},
		{
			name:           "deposit with mixed case aggregator",
			from:           user,
			to:             "0x6140F00E4FF3936702E68744F2B5978885464CBB",
			expectedAction: ActionDeposited,
			expectedActor:  user,
		},
		{
			name:           "withdrawal",
			from:           aggregator,
			to:             user,
			expectedAction: ActionWithdrew,
			expectedActor:  user,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, actor := ClassifyTransfer(tt.from, tt.to, aggregator)
			assert.Equal(t, tt.expectedAction, action)
			assert.Equal(t, tt.expectedActor, actor)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int64
		expectErr bool
	}{
		{name: "hex block number", input: "0x8db177", expected: 9282423},
		{name: "hex token id", input: "0xf", expected: 15},
		{name: "hex with leading zeros", input: "0x000f", expected: 15},
		{name: "uppercase hex prefix", input: "0X10", expected: 16},
		{name: "decimal", input: "1234", expected: 1234},
		{name: "zero", input: "0x0", expected: 0},
		{name: "empty", input: "", expectErr: true},
		{name: "garbage", input: "0xzz", expectErr: true},
		{name: "overflow int64", input: "0x10000000000000000", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt64Quantity(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTransferEvent_IsMint(t *testing.T) {
	mint := TransferEvent{From: ETHEREUM_ZERO_ADDRESS}
	transfer := TransferEvent{From: "0x1111111111111111111111111111111111111111"}
	assert.True(t, mint.IsMint())
	assert.False(t, transfer.IsMint())
}

func TestTransferID(t *testing.T) {
	assert.Equal(t, "0xabc_15", TransferID("0xabc", "15"))
}
