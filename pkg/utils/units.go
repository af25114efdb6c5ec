package utils

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// unitDecimals maps an ether denomination to its power of ten in wei.
var unitDecimals = map[string]int{
	"wei":    0,
	"kwei":   3,
	"mwei":   6,
	"gwei":   9,
	"szabo":  12,
	"finney": 15,
	"ether":  18,
	"kether": 21,
	"mether": 24,
	"gether": 27,
	"tether": 30,
}

// EncodeBig encodes a non-negative integer as a JSON-RPC quantity ("0x0", "0x1a", ...).
func EncodeBig(v sdkmath.Int) string {
	if v.IsNil() || v.IsZero() {
		return "0x0"
	}
	return "0x" + v.BigInt().Text(16)
}

// DecodeBig parses a JSON-RPC quantity.
func DecodeBig(s string) (sdkmath.Int, error) {
	if !Has0xPrefix(s) {
		return sdkmath.Int{}, fmt.Errorf("quantity %q has no 0x prefix", s)
	}
	digits := s[2:]
	if digits == "" {
		return sdkmath.Int{}, fmt.Errorf("empty quantity")
	}
	if len(digits) > 64 {
		return sdkmath.Int{}, fmt.Errorf("quantity %q exceeds 256 bits", s)
	}
	b, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid quantity %q", s)
	}
	return sdkmath.NewIntFromBigInt(b), nil
}

// DecodeUint64 parses a JSON-RPC quantity that must fit in 64 bits.
func DecodeUint64(s string) (uint64, error) {
	v, err := DecodeBig(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("quantity %q overflows uint64", s)
	}
	return v.Uint64(), nil
}

// ToWei converts a decimal amount in unit (e.g. "1.5", "ether") to wei.
func ToWei(amount string, unit string) (sdkmath.Int, error) {
	decimals, ok := unitDecimals[strings.ToLower(unit)]
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("unknown unit %q", unit)
	}

	amount = strings.TrimSpace(amount)
	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return sdkmath.Int{}, fmt.Errorf("%q has more than %d decimals for %s", amount, decimals, unit)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))

	v, ok := sdkmath.NewIntFromString(digits)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid amount %q", amount)
	}
	return v, nil
}

// FromWei converts wei to a decimal string in unit, without trailing zeros.
func FromWei(wei sdkmath.Int, unit string) (string, error) {
	decimals, ok := unitDecimals[strings.ToLower(unit)]
	if !ok {
		return "", fmt.Errorf("unknown unit %q", unit)
	}
	if wei.IsNil() {
		return "0", nil
	}

	neg := wei.IsNegative()
	digits := wei.Abs().String()
	if decimals == 0 {
		return wei.String(), nil
	}
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out, nil
}
