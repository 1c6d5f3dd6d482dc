package utils

import (
	"math/rand"
)

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString builds a credential-grade random string. It draws from
// the package-level rand source, which is lock-protected, so concurrent
// request handlers can call it directly.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = passwordCharset[rand.Intn(len(passwordCharset))]
	}
	return string(b)
}
