// internal/service/auth/random.go
package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const tempPasswordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomNumericCode returns a zero-padded numeric one-time code of n digits.
func randomNumericCode(n int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < n; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", n, v), nil
}

// randomTempPassword returns a random temporary credential of n characters
// from an unambiguous charset.
func randomTempPassword(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = tempPasswordCharset[v.Int64()]
	}
	return string(out), nil
}
