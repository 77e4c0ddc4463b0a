package wallet

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/oxbel/ltcpay/internal/hdkey"
)

// MaxUserIndex bounds the leaf index space. User IDs are reduced modulo
// this value, so any two IDs congruent mod 10^6 share an address. That
// reuse is a deliberate property of the deployment (tested, not a bug);
// widen the index space only together with a ledger migration.
const MaxUserIndex = 1_000_000

// degenerateRetryLimit caps how many successive indices are tried when a
// CKD step lands outside the curve group. One retry has probability
// ~2^-127 of being needed at all.
const degenerateRetryLimit = 4

// BIP84Purpose is the purpose segment of the account path. The leaf
// addresses are encoded as legacy base58 P2PKH regardless; the original
// deployment issued L-addresses from the 84' subtree and every already
// issued address depends on that exact combination.
const BIP84Purpose = 84

// Wallet derives per-user deposit addresses from a single master secret.
// Construct once at startup; all fields are read-only afterwards, so any
// number of goroutines may derive concurrently without locking.
type Wallet struct {
	master *hdkey.ExtendedKey
	params Params
}

// New validates the mnemonic, stretches it into a seed, and derives the
// master key. The mnemonic and seed are not retained; only the master
// node lives for the process lifetime.
func New(mnemonic, passphrase string, params Params) (*Wallet, error) {
	if err := hdkey.ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	seed, err := hdkey.MnemonicToSeed(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}

	master, err := hdkey.NewMaster(seed)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	slog.Info("wallet initialized",
		"network", params.Name,
		"coinType", params.CoinType,
	)

	return &Wallet{master: master, params: params}, nil
}

// ReadMnemonicFromFile reads a mnemonic from a file, trims whitespace,
// and validates it.
func ReadMnemonicFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read mnemonic file %q: %w", path, err)
	}

	mnemonic := strings.TrimSpace(string(data))
	if mnemonic == "" {
		return "", fmt.Errorf("mnemonic file %q is empty: %w", path, hdkey.ErrInvalidMnemonic)
	}

	if err := hdkey.ValidateMnemonic(mnemonic); err != nil {
		return "", fmt.Errorf("mnemonic file %q: %w", path, err)
	}

	return mnemonic, nil
}

// AccountPath returns the hardened account prefix m/84'/coin'/0'.
func (w *Wallet) AccountPath() string {
	return fmt.Sprintf("m/%d'/%d'/0'", BIP84Purpose, w.params.CoinType)
}

// UserIndex reduces a user ID into the leaf index space.
func UserIndex(userID int64) uint32 {
	idx := userID % MaxUserIndex
	if idx < 0 {
		idx += MaxUserIndex
	}
	return uint32(idx)
}

// AddressForUser derives the deposit address at
// m/84'/coin'/0'/0/(userID mod 10^6). Deterministic for the life of the
// master secret: the same user always receives the same address.
func (w *Wallet) AddressForUser(userID int64) (string, error) {
	key, err := w.leafKey(UserIndex(userID))
	if err != nil {
		return "", fmt.Errorf("address for user %d: %w", userID, err)
	}

	addr := key.Address(w.params.P2PKHVersion)
	slog.Debug("derived user address",
		"userID", userID,
		"index", key.ChildNum(),
		"address", addr,
	)
	return addr, nil
}

// WIFForUser exports the leaf private key in wallet import format, for
// operator-side sweeping of a single deposit address.
func (w *Wallet) WIFForUser(userID int64) (string, error) {
	key, err := w.leafKey(UserIndex(userID))
	if err != nil {
		return "", fmt.Errorf("WIF for user %d: %w", userID, err)
	}
	return key.WIF(w.params.WIFVersion, true), nil
}

// AccountXPub serializes the extended public key at the given path
// prefix (e.g. "m/84'/2'/0'") for watch-only wallets. Non-hardened
// leaves under that prefix can then be derived without any private key
// material.
func (w *Wallet) AccountXPub(pathPrefix string) (string, error) {
	if w == nil || w.master == nil {
		return "", ErrUninitialized
	}

	key, err := hdkey.DerivePath(w.master, pathPrefix)
	if err != nil {
		return "", err
	}
	return key.Neuter(w.params.XPubVersion), nil
}

// leafKey derives m/84'/coin'/0'/0/index. A degenerate CKD result at the
// leaf moves to the next index, per the BIP-32 contract; anywhere else in
// the path it is surfaced as a derivation failure.
func (w *Wallet) leafKey(index uint32) (*hdkey.ExtendedKey, error) {
	if w == nil || w.master == nil {
		return nil, ErrUninitialized
	}

	change, err := hdkey.DerivePath(w.master, w.AccountPath()+"/0")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivation, err)
	}

	for attempt := 0; attempt < degenerateRetryLimit; attempt++ {
		key, err := change.Child(index + uint32(attempt))
		if err == nil {
			return key, nil
		}
		slog.Warn("degenerate child derivation, retrying next index",
			"index", index+uint32(attempt),
			"error", err,
		)
	}

	return nil, fmt.Errorf("%w: no usable child near index %d", ErrDerivation, index)
}
