package token

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Alphabet is the set of characters a token is drawn from.
// Characters that are easy to misread (0, O, 1, l, I) are left out.
const Alphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generate returns a crypto-secure random string of length n drawn from Alphabet
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("token length must be greater than zero")
	}

	max := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}

		b[i] = Alphabet[idx.Int64()]
	}

	return string(b), nil
}
