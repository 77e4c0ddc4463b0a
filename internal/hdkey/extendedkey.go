package hdkey

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
)

// HardenedKeyStart is the first hardened child index (2^31).
const HardenedKeyStart uint32 = 0x80000000

// masterHMACKey is the fixed HMAC key BIP-32 specifies for master key
// derivation; shared by every BIP-32 chain, Litecoin included.
var masterHMACKey = []byte("Bitcoin seed")

// ExtendedKey is one node of the BIP-32 derivation tree: a private key
// scalar plus the chain code that makes child derivation deterministic.
// Depth, parent fingerprint, and child number are carried only so the
// node can be serialized as an extended public key. Values are immutable
// after construction; Child returns a new node.
type ExtendedKey struct {
	key       []byte // 32-byte scalar
	chainCode []byte // 32 bytes
	depth     uint8
	parentFP  []byte // 4 bytes, zero for the master key
	childNum  uint32
}

// NewMaster derives the root of the tree from a seed: HMAC-SHA512 keyed
// with "Bitcoin seed", left half is the key scalar, right half the chain
// code. Seed length must be 16-64 bytes (BIP-39 seeds are 64).
func NewMaster(seed []byte) (*ExtendedKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, fmt.Errorf("seed length %d outside [16, 64]: %w", len(seed), ErrInvalidSeed)
	}

	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)

	key, chainCode := sum[:32], sum[32:]
	if err := checkScalar(key); err != nil {
		// Unusable seed; the caller cannot retry differently, so this
		// surfaces as an invalid-seed error rather than a degenerate child.
		return nil, fmt.Errorf("master key from seed: %w", ErrInvalidSeed)
	}

	return &ExtendedKey{
		key:       key,
		chainCode: chainCode,
		parentFP:  make([]byte, 4),
	}, nil
}

// Child derives the child node at index per BIP-32 CKDpriv.
// Hardened children (index >= HardenedKeyStart) commit to the parent
// private key; normal children commit only to the parent public key.
// Returns ErrDegenerateChild if IL >= N or the child scalar is zero.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	// 0x00 || priv || ser32(i) for hardened, serP(pub) || ser32(i) otherwise.
	data := make([]byte, 0, 37)
	if index >= HardenedKeyStart {
		data = append(data, 0x00)
		data = append(data, k.key...)
	} else {
		data = append(data, k.PubKeyBytes()...)
	}
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, k.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	il, childChain := sum[:32], sum[32:]

	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Cmp(curveOrder) >= 0 {
		return nil, fmt.Errorf("IL out of range at index %d: %w", index, ErrDegenerateChild)
	}

	childInt := new(big.Int).Add(ilInt, new(big.Int).SetBytes(k.key))
	childInt.Mod(childInt, curveOrder)
	if childInt.Sign() == 0 {
		return nil, fmt.Errorf("zero child key at index %d: %w", index, ErrDegenerateChild)
	}

	return &ExtendedKey{
		key:       childInt.FillBytes(make([]byte, 32)),
		chainCode: childChain,
		depth:     k.depth + 1,
		parentFP:  k.Fingerprint(),
		childNum:  index,
	}, nil
}

// KeyBytes returns a copy of the 32-byte private key scalar.
func (k *ExtendedKey) KeyBytes() []byte {
	out := make([]byte, 32)
	copy(out, k.key)
	return out
}

// ChainCode returns a copy of the 32-byte chain code.
func (k *ExtendedKey) ChainCode() []byte {
	out := make([]byte, 32)
	copy(out, k.chainCode)
	return out
}

// Depth returns the number of derivation steps from the master key.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildNum returns the index this node was derived at (0 for the master).
func (k *ExtendedKey) ChildNum() uint32 { return k.childNum }

// PubKeyBytes returns the compressed 33-byte public key: scalar
// multiplication of the secp256k1 base point, y parity in the prefix.
func (k *ExtendedKey) PubKeyBytes() []byte {
	_, pub := btcec.PrivKeyFromBytes(k.key)
	return pub.SerializeCompressed()
}

// Fingerprint returns the first 4 bytes of hash160 of the compressed
// public key, used as the parent fingerprint in serialized children.
func (k *ExtendedKey) Fingerprint() []byte {
	return btcutil.Hash160(k.PubKeyBytes())[:4]
}

var curveOrder = btcec.S256().N

// checkScalar verifies a 32-byte value is a usable private key scalar:
// nonzero and below the group order.
func checkScalar(b []byte) error {
	v := new(big.Int).SetBytes(b)
	if v.Sign() == 0 || v.Cmp(curveOrder) >= 0 {
		return ErrDegenerateChild
	}
	return nil
}
