package utils

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

var ErrInvalidCardNumber = errors.New("invalid card number")

// HashCardNumber returns a keyed BLAKE2b-256 fingerprint of a card number.
// Equal numbers hash equal under the same key, so the fingerprint can be used for lookups
// without storing the PAN.
func HashCardNumber(number string, key []byte) (string, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return "", fmt.Errorf("failed to init card hash: %w", err)
	}
	h.Write([]byte(number))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ValidateCardNumber checks length, digits and the Luhn checksum.
func ValidateCardNumber(number string) error {
	if len(number) < 12 || len(number) > 19 {
		return fmt.Errorf("%w: must be 12 to 19 digits", ErrInvalidCardNumber)
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: must contain digits only", ErrInvalidCardNumber)
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	if sum%10 != 0 {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidCardNumber)
	}
	return nil
}

// LastFour returns the trailing four digits shown on statements and receipts.
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
