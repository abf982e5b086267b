package domain

import "errors"

var (
	// ErrInvalidAddress is returned when an address is not 0x followed by 40 hex characters
	ErrInvalidAddress = errors.New("invalid address format")

	// ErrInvalidQuantity is returned when a hex or decimal quantity cannot be parsed
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnsupportedNetwork is returned for networks other than mainnet and sepolia
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrCheckNotFound is returned when no collection holds the requested token
	ErrCheckNotFound = errors.New("check not found")
)
