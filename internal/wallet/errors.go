package wallet

import "errors"

var (
	// ErrUninitialized means a derivation was attempted on a wallet that
	// was never constructed. This is a sequencing bug in the caller:
	// crash at startup rather than mint addresses from a throwaway seed.
	ErrUninitialized = errors.New("wallet not initialized")

	ErrDerivation = errors.New("key derivation failed")
)
