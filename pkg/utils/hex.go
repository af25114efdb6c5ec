package utils

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Has0xPrefix reports whether s starts with 0x or 0X.
func Has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ToHex encodes b as a 0x-prefixed lower-case hex string.
func ToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// HexToBytes decodes a hex string with or without 0x prefix. Odd lengths are left padded.
func HexToBytes(s string) ([]byte, error) {
	if Has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}

// IsHexAddress reports whether s is a 20 byte hex address, with or without 0x prefix.
func IsHexAddress(s string) bool {
	if Has0xPrefix(s) {
		s = s[2:]
	}
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ToChecksumAddress returns the mixed-case checksum encoding of addr (EIP-55).
func ToChecksumAddress(addr string) (string, error) {
	if !IsHexAddress(addr) {
		return "", fmt.Errorf("invalid address %q", addr)
	}
	if Has0xPrefix(addr) {
		addr = addr[2:]
	}
	lower := strings.ToLower(addr)
	digest := hex.EncodeToString(Sha3([]byte(lower)))

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out), nil
}

// IsChecksumAddress reports whether addr carries a valid EIP-55 checksum.
func IsChecksumAddress(addr string) bool {
	sum, err := ToChecksumAddress(addr)
	if err != nil {
		return false
	}
	if !Has0xPrefix(addr) {
		addr = "0x" + addr
	}
	return sum == addr
}
