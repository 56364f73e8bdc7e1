package common

import (
	"math/rand"
	"strconv"
)

// Verification codes are 4-digit numbers drawn uniformly from 1000-9999.
// They are short-lived and low-value, so no cryptographic source is used.
const (
	verificationCodeMin = 1000
	verificationCodeMax = 9999
)

// GenerateVerificationCode returns a 4-digit numeric string used to confirm
// control of an email address.
func GenerateVerificationCode() string {
	n := verificationCodeMin + rand.Intn(verificationCodeMax-verificationCodeMin+1)
	return strconv.Itoa(n)
}
