package hdkey

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/mr-tron/base58"
)

// Base58Check appends the first 4 bytes of double-SHA256 of the payload
// and base58-encodes the result.
func Base58Check(payload []byte) string {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return base58.Encode(append(payload, second[:4]...))
}

// DecodeBase58Check decodes a base58check string, verifies the trailing
// checksum, and returns the payload (version byte included).
func DecodeBase58Check(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode base58: %w", err)
	}
	if len(raw) < 5 {
		return nil, fmt.Errorf("base58check payload too short (%d bytes)", len(raw))
	}

	payload, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(second[:4], checksum) {
		return nil, fmt.Errorf("base58check checksum mismatch")
	}

	return payload, nil
}

// Address encodes the node's public key as a P2PKH address:
// base58check(version || hash160(compressedPub)). One-way and
// deterministic; the version byte selects the network.
func (k *ExtendedKey) Address(version byte) string {
	payload := make([]byte, 0, 21)
	payload = append(payload, version)
	payload = append(payload, btcutil.Hash160(k.PubKeyBytes())...)
	return Base58Check(payload)
}

// WIF encodes the private key scalar in wallet import format:
// base58check(version || key || 0x01 if the public key is compressed).
func (k *ExtendedKey) WIF(version byte, compressed bool) string {
	payload := make([]byte, 0, 34)
	payload = append(payload, version)
	payload = append(payload, k.key...)
	if compressed {
		payload = append(payload, 0x01)
	}
	return Base58Check(payload)
}

// Neuter serializes the node as a BIP-32 extended public key: the fixed
// 78-byte layout (version, depth, parent fingerprint, child number,
// chain code, compressed public key) under base58check. The result can
// seed watch-only derivation of the node's non-hardened subtree.
func (k *ExtendedKey) Neuter(version [4]byte) string {
	buf := make([]byte, 0, 78)
	buf = append(buf, version[:]...)
	buf = append(buf, k.depth)
	buf = append(buf, k.parentFP...)
	buf = binary.BigEndian.AppendUint32(buf, k.childNum)
	buf = append(buf, k.chainCode...)
	buf = append(buf, k.PubKeyBytes()...)
	return Base58Check(buf)
}
