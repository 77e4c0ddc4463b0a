package hdkey

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// Allowed entropy strengths in bits per BIP-39. 128 bits yields 12 words,
// 256 bits yields 24.
var validStrengths = map[int]bool{128: true, 160: true, 192: true, 224: true, 256: true}

// GenerateMnemonic creates a new BIP-39 mnemonic from crypto/rand entropy.
func GenerateMnemonic(strengthBits int) (string, error) {
	if !validStrengths[strengthBits] {
		return "", fmt.Errorf("strength must be 128-256 in steps of 32, got %d: %w", strengthBits, ErrInvalidStrength)
	}

	entropy, err := bip39.NewEntropy(strengthBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("entropy to mnemonic: %w", err)
	}

	slog.Debug("mnemonic generated",
		"strengthBits", strengthBits,
		"wordCount", len(strings.Fields(mnemonic)),
	)
	return mnemonic, nil
}

// ValidateMnemonic checks word count, wordlist membership, and the embedded
// entropy checksum of a BIP-39 mnemonic.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("validate mnemonic: %w", ErrInvalidMnemonic)
	}
	return nil
}

// MnemonicToSeed stretches a validated mnemonic and passphrase into a
// 64-byte seed (PBKDF2-HMAC-SHA512, 2048 rounds). Deliberately slow;
// call once at startup, never per request.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("mnemonic to seed: %w", ErrInvalidMnemonic)
	}

	slog.Debug("seed derived from mnemonic", "seedLen", len(seed))
	return seed, nil
}
