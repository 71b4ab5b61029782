package service

import (
	"crypto/rand"
	"math/big"
)

const (
	otpDigits = "0123456789"
	otpLength = 4
)

// GeneratePickupOTP returns a random 4-digit numeric pickup code. Codes are
// scoped per-ride, so no uniqueness check against other rides is needed.
func GeneratePickupOTP() string {
	code := make([]byte, otpLength)
	charsetLen := big.NewInt(int64(len(otpDigits)))
	for i := range code {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken.
			panic(err)
		}
		code[i] = otpDigits[n.Int64()]
	}
	return string(code)
}
