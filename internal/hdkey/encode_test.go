package hdkey

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/mr-tron/base58"
)

// Litecoin mainnet version bytes used across the encode tests.
const (
	ltcP2PKHVersion = 0x30
	ltcWIFVersion   = 0xB0
)

func deriveLeaf(t *testing.T, path string) *ExtendedKey {
	t.Helper()
	seed, err := MnemonicToSeed(testMnemonic, "")
	if err != nil {
		t.Fatal(err)
	}
	master, err := NewMaster(seed)
	if err != nil {
		t.Fatal(err)
	}
	key, err := DerivePath(master, path)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func TestAddressKnownVector(t *testing.T) {
	key := deriveLeaf(t, "m/84'/2'/0'/0/0")

	want := "LYyKS4hm5QcmAWntuZSA6Kp5TKg9fCeLQn"
	if got := key.Address(ltcP2PKHVersion); got != want {
		t.Errorf("Address(0x30) = %s, want %s", got, want)
	}
}

func TestWIFKnownVector(t *testing.T) {
	key := deriveLeaf(t, "m/84'/2'/0'/0/0")

	want := "T5ZCYhLqXu6EJKk2nhjvwsaLH357CisixhLGWpKXEiqWTUtzte6o"
	if got := key.WIF(ltcWIFVersion, true); got != want {
		t.Errorf("WIF(0xB0, compressed) = %s, want %s", got, want)
	}

	wantUncompressed := "6ugvNEDejLxZU2yshiQKZpi5pb12QVyMP8n9VxaefTFAPqFTxWd"
	if got := key.WIF(ltcWIFVersion, false); got != wantUncompressed {
		t.Errorf("WIF(0xB0, uncompressed) = %s, want %s", got, wantUncompressed)
	}
}

// A produced address must decode under base58check to the configured
// version byte followed by hash160 of the public key.
func TestAddressDecodesToVersionAndHash(t *testing.T) {
	key := deriveLeaf(t, "m/84'/2'/0'/0/3")

	payload, err := DecodeBase58Check(key.Address(ltcP2PKHVersion))
	if err != nil {
		t.Fatalf("DecodeBase58Check() error = %v", err)
	}

	if len(payload) != 21 {
		t.Fatalf("address payload length = %d, want 21", len(payload))
	}
	if payload[0] != ltcP2PKHVersion {
		t.Errorf("address version byte = %#x, want %#x", payload[0], ltcP2PKHVersion)
	}
	if !bytes.Equal(payload[1:], btcutil.Hash160(key.PubKeyBytes())) {
		t.Error("address payload does not match hash160 of the public key")
	}
}

func TestVersionByteSelectsNetwork(t *testing.T) {
	key := deriveLeaf(t, "m/84'/2'/0'/0/0")

	// Same key, testnet P2PKH version.
	want := "muGKTuUuomoxgpaMSzREeDxe76uaTDbmde"
	if got := key.Address(0x6F); got != want {
		t.Errorf("Address(0x6F) = %s, want %s", got, want)
	}
}

func TestWIFRoundTrip(t *testing.T) {
	key := deriveLeaf(t, "m/84'/2'/0'/0/9")

	payload, err := DecodeBase58Check(key.WIF(ltcWIFVersion, true))
	if err != nil {
		t.Fatalf("DecodeBase58Check(WIF) error = %v", err)
	}

	if payload[0] != ltcWIFVersion {
		t.Errorf("WIF version byte = %#x, want %#x", payload[0], ltcWIFVersion)
	}
	if !bytes.Equal(payload[1:33], key.KeyBytes()) {
		t.Error("WIF payload does not contain the private key scalar")
	}
	if payload[33] != 0x01 {
		t.Errorf("WIF compression flag = %#x, want 0x01", payload[33])
	}
}

func TestBase58CheckRejectsCorruption(t *testing.T) {
	s := Base58Check([]byte{0x30, 0xDE, 0xAD, 0xBE, 0xEF})

	if _, err := DecodeBase58Check(s); err != nil {
		t.Fatalf("DecodeBase58Check(valid) error = %v", err)
	}

	// Flip one character; the 4-byte double-SHA256 checksum must catch it.
	corrupted := []byte(s)
	if corrupted[1] == '2' {
		corrupted[1] = '3'
	} else {
		corrupted[1] = '2'
	}
	if _, err := DecodeBase58Check(string(corrupted)); err == nil {
		t.Error("DecodeBase58Check(corrupted) expected error")
	}

	if _, err := DecodeBase58Check("11"); err == nil {
		t.Error("DecodeBase58Check(too short) expected error")
	}
	if _, err := DecodeBase58Check("0OIl"); err == nil {
		t.Error("DecodeBase58Check(non-base58) expected error")
	}
}

func TestBase58CheckChecksumConstruction(t *testing.T) {
	payload := []byte{0x30, 0x01, 0x02, 0x03}

	raw, err := base58.Decode(Base58Check(payload))
	if err != nil {
		t.Fatal(err)
	}

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(raw[len(raw)-4:], second[:4]) {
		t.Error("trailing 4 bytes are not the double-SHA256 checksum of the payload")
	}
	if !bytes.Equal(raw[:len(raw)-4], payload) {
		t.Error("base58check altered the payload")
	}
}
