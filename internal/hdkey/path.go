package hdkey

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath parses a textual derivation path such as "m/84'/2'/0'/0/5".
// The path must start with the root marker "m"; each segment is a decimal
// index below 2^31, with a trailing apostrophe marking hardened derivation.
// Returned indices have HardenedKeyStart already folded in.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("path %q must start with \"m\": %w", path, ErrInvalidPath)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") {
			hardened = true
			part = part[:len(part)-1]
		}

		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil || n >= uint64(HardenedKeyStart) {
			return nil, fmt.Errorf("segment %q out of range in path %q: %w", part, path, ErrInvalidPath)
		}

		index := uint32(n)
		if hardened {
			index += HardenedKeyStart
		}
		indices = append(indices, index)
	}

	return indices, nil
}

// DerivePath walks the path from the master key, one CKD step per
// segment. Iterative fold, so path length never grows the stack.
func DerivePath(master *ExtendedKey, path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	key := master
	for _, index := range indices {
		key, err = key.Child(index)
		if err != nil {
			return nil, fmt.Errorf("derive path %q: %w", path, err)
		}
	}

	return key, nil
}
