package security

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

var (
	ErrNegativeLength = errors.New("length must be non-negative")
	ErrEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws length characters uniformly from alphabet using
// crypto/rand. Each character is sampled independently via big.Int modulo the
// alphabet size, so no alphabet position is favored.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", ErrNegativeLength
	case len(alphabet) == 0:
		return "", ErrEmptyAlphabet
	case length == 0:
		return "", nil
	}

	var builder strings.Builder
	builder.Grow(length)

	limit := big.NewInt(int64(len(alphabet)))
	for remaining := length; remaining > 0; remaining-- {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[position.Int64()])
	}

	return builder.String(), nil
}
