package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Standard BIP-39 all-zero-entropy test mnemonic.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()
	w, err := New(testMnemonic, "", LitecoinMainNetParams)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return w
}

func TestNewRejectsInvalidMnemonic(t *testing.T) {
	if _, err := New("definitely not a mnemonic", "", LitecoinMainNetParams); err == nil {
		t.Error("New(invalid mnemonic) expected error")
	}
}

func TestAddressForUserKnownVector(t *testing.T) {
	w := newTestWallet(t)

	got, err := w.AddressForUser(0)
	if err != nil {
		t.Fatalf("AddressForUser(0) error = %v", err)
	}

	// m/84'/2'/0'/0/0 for the reference mnemonic on Litecoin mainnet.
	want := "LYyKS4hm5QcmAWntuZSA6Kp5TKg9fCeLQn"
	if got != want {
		t.Errorf("AddressForUser(0) = %s, want %s", got, want)
	}
}

func TestAddressForUserDeterministic(t *testing.T) {
	w := newTestWallet(t)

	a, err := w.AddressForUser(42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.AddressForUser(42)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("AddressForUser(42) not deterministic: %s != %s", a, b)
	}
}

// Documents the modulo reduction: user IDs congruent mod 10^6 share an
// address. This is the deployed behavior, not a bug to fix silently.
func TestAddressForUserModuloCollision(t *testing.T) {
	w := newTestWallet(t)

	a, err := w.AddressForUser(5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := w.AddressForUser(1_000_005)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Errorf("AddressForUser(5) = %s, AddressForUser(1000005) = %s; want identical", a, b)
	}
	if a != "LV87BaTxhZfSk4MAuDJDEmZw6ohKLwtpbb" {
		t.Errorf("AddressForUser(5) = %s, want LV87BaTxhZfSk4MAuDJDEmZw6ohKLwtpbb", a)
	}
}

func TestAddressForUserDistinctBelowModulus(t *testing.T) {
	w := newTestWallet(t)

	seen := make(map[string]int64)
	for _, id := range []int64{0, 1, 2, 3, 4, 999_999} {
		addr, err := w.AddressForUser(id)
		if err != nil {
			t.Fatalf("AddressForUser(%d) error = %v", id, err)
		}
		if prev, ok := seen[addr]; ok {
			t.Fatalf("AddressForUser(%d) collides with user %d: %s", id, prev, addr)
		}
		seen[addr] = id
	}
}

func TestAddressPrefixByNetwork(t *testing.T) {
	w := newTestWallet(t)

	addr, err := w.AddressForUser(1)
	if err != nil {
		t.Fatal(err)
	}
	if addr[0] != 'L' {
		t.Errorf("mainnet address %s does not start with L", addr)
	}

	tw, err := New(testMnemonic, "", LitecoinTestNetParams)
	if err != nil {
		t.Fatal(err)
	}
	taddr, err := tw.AddressForUser(1)
	if err != nil {
		t.Fatal(err)
	}
	if taddr == addr {
		t.Error("testnet and mainnet addresses must differ for the same user")
	}
	if taddr[0] != 'm' && taddr[0] != 'n' {
		t.Errorf("testnet address %s does not start with m or n", taddr)
	}
}

func TestWIFForUserKnownVector(t *testing.T) {
	w := newTestWallet(t)

	got, err := w.WIFForUser(0)
	if err != nil {
		t.Fatalf("WIFForUser(0) error = %v", err)
	}
	want := "T5ZCYhLqXu6EJKk2nhjvwsaLH357CisixhLGWpKXEiqWTUtzte6o"
	if got != want {
		t.Errorf("WIFForUser(0) = %s, want %s", got, want)
	}
}

func TestAccountXPubKnownVector(t *testing.T) {
	w := newTestWallet(t)

	got, err := w.AccountXPub(w.AccountPath())
	if err != nil {
		t.Fatalf("AccountXPub() error = %v", err)
	}
	want := "xpub6CjGURuDpczf6uNrCCwfhVizn5J3hsWcvZ2m6GAdmAjZnoWJPrx6TFPjGSftc2o5fvox6ubQjSXmjjaHZjwYMH7SGFpHHb9Jg24zBf66mbE"
	if got != want {
		t.Errorf("AccountXPub(m/84'/2'/0') = %s, want %s", got, want)
	}
}

func TestAccountXPubRejectsMalformedPath(t *testing.T) {
	w := newTestWallet(t)

	if _, err := w.AccountXPub("84'/2'/0'"); err == nil {
		t.Error("AccountXPub(no root marker) expected error")
	}
}

func TestUninitializedWallet(t *testing.T) {
	var w *Wallet

	if _, err := w.AddressForUser(1); !errors.Is(err, ErrUninitialized) {
		t.Errorf("nil wallet AddressForUser error = %v, want ErrUninitialized", err)
	}
	if _, err := w.AccountXPub("m/84'/2'/0'"); !errors.Is(err, ErrUninitialized) {
		t.Errorf("nil wallet AccountXPub error = %v, want ErrUninitialized", err)
	}
}

func TestUserIndex(t *testing.T) {
	tests := []struct {
		userID int64
		want   uint32
	}{
		{0, 0},
		{5, 5},
		{999_999, 999_999},
		{1_000_000, 0},
		{1_000_005, 5},
		{-3, 999_997}, // negative IDs still land in range
	}

	for _, tt := range tests {
		if got := UserIndex(tt.userID); got != tt.want {
			t.Errorf("UserIndex(%d) = %d, want %d", tt.userID, got, tt.want)
		}
	}
}

func TestParamsForNetwork(t *testing.T) {
	p, err := ParamsForNetwork("mainnet")
	if err != nil || p.P2PKHVersion != 0x30 || p.WIFVersion != 0xB0 || p.CoinType != 2 {
		t.Errorf("ParamsForNetwork(mainnet) = %+v, err %v", p, err)
	}

	p, err = ParamsForNetwork("testnet")
	if err != nil || p.P2PKHVersion != 0x6F || p.CoinType != 1 {
		t.Errorf("ParamsForNetwork(testnet) = %+v, err %v", p, err)
	}

	if _, err := ParamsForNetwork("regtest"); err == nil {
		t.Error("ParamsForNetwork(regtest) expected error")
	}
}

func TestReadMnemonicFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "valid.txt")
		if err := os.WriteFile(path, []byte("  "+testMnemonic+"\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		mnemonic, err := ReadMnemonicFromFile(path)
		if err != nil {
			t.Fatalf("ReadMnemonicFromFile() error = %v", err)
		}
		if mnemonic != testMnemonic {
			t.Errorf("ReadMnemonicFromFile() = %q, want %q", mnemonic, testMnemonic)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadMnemonicFromFile(path); err == nil {
			t.Error("expected error for empty file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadMnemonicFromFile(filepath.Join(dir, "nope.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
