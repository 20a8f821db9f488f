package utils

import (
	"crypto/rand"
	"math/big"
)

const slugChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandSlug returns a short random identifier used as a question's public
// URL slug, so internal row ids never appear in links.
func RandSlug(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugChars))))
		if err != nil {
			b[i] = slugChars[0]
			continue
		}
		b[i] = slugChars[idx.Int64()]
	}
	return string(b)
}

// GenerateRandomCode returns an n-digit numeric code for account activation
// and password resets.
func GenerateRandomCode(n int) string {
	const digits = "0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			b[i] = '0'
			continue
		}
		b[i] = digits[idx.Int64()]
	}
	return string(b)
}
