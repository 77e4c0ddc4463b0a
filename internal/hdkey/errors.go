package hdkey

import "errors"

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrInvalidStrength = errors.New("invalid entropy strength")
	ErrInvalidPath     = errors.New("invalid derivation path")
	ErrInvalidSeed     = errors.New("invalid seed")

	// ErrDegenerateChild signals the BIP-32 edge case where the derived
	// scalar falls outside the curve group (IL >= N or child key == 0).
	// The caller retries with the next index; probability ~2^-127.
	ErrDegenerateChild = errors.New("degenerate child key")
)
