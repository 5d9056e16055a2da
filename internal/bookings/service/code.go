package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	confirmationCodeLength   = 10
	confirmationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewConfirmationCode draws confirmationCodeLength characters uniformly from
// [A-Z0-9] using crypto/rand.
func NewConfirmationCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(confirmationCodeAlphabet)))
	code := make([]byte, confirmationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %w", err)
		}
		code[i] = confirmationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
