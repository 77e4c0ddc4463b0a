package hdkey

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

// Standard BIP-39 all-zero-entropy test mnemonic.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateMnemonic(t *testing.T) {
	tests := []struct {
		strength  int
		wantWords int
		wantErr   bool
	}{
		{128, 12, false},
		{160, 15, false},
		{192, 18, false},
		{224, 21, false},
		{256, 24, false},
		{0, 0, true},
		{129, 0, true},
		{512, 0, true},
		{-128, 0, true},
	}

	for _, tt := range tests {
		mnemonic, err := GenerateMnemonic(tt.strength)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStrength) {
				t.Errorf("GenerateMnemonic(%d) error = %v, want ErrInvalidStrength", tt.strength, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("GenerateMnemonic(%d) error = %v", tt.strength, err)
		}

		if got := len(strings.Fields(mnemonic)); got != tt.wantWords {
			t.Errorf("GenerateMnemonic(%d) word count = %d, want %d", tt.strength, got, tt.wantWords)
		}

		// Checksum round-trip: every generated mnemonic must validate.
		if err := ValidateMnemonic(mnemonic); err != nil {
			t.Errorf("ValidateMnemonic(GenerateMnemonic(%d)) error = %v", tt.strength, err)
		}
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		wantErr  bool
	}{
		{"valid 12-word", testMnemonic, false},
		{"empty", "", true},
		{"wrong word count", "abandon abandon abandon", true},
		{"word not in list", strings.Replace(testMnemonic, "about", "aboutt", 1), true},
		// Same words, checksum word wrong.
		{"checksum mismatch", strings.Replace(testMnemonic, "about", "abandon", 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMnemonic(tt.mnemonic)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMnemonic() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMnemonic) {
				t.Errorf("ValidateMnemonic() error = %v, want ErrInvalidMnemonic", err)
			}
		})
	}
}

func TestMnemonicToSeedVectors(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		wantSeed   string
	}{
		{
			name:       "empty passphrase",
			passphrase: "",
			wantSeed:   "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		},
		{
			// Published BIP-39 reference vector.
			name:       "TREZOR passphrase",
			passphrase: "TREZOR",
			wantSeed:   "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, err := MnemonicToSeed(testMnemonic, tt.passphrase)
			if err != nil {
				t.Fatalf("MnemonicToSeed() error = %v", err)
			}
			if len(seed) != 64 {
				t.Fatalf("MnemonicToSeed() seed length = %d, want 64", len(seed))
			}
			if got := hex.EncodeToString(seed); got != tt.wantSeed {
				t.Errorf("MnemonicToSeed() = %s, want %s", got, tt.wantSeed)
			}
		})
	}
}

func TestMnemonicToSeedRejectsInvalid(t *testing.T) {
	if _, err := MnemonicToSeed("not a real mnemonic phrase", ""); !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("MnemonicToSeed(invalid) error = %v, want ErrInvalidMnemonic", err)
	}
}
