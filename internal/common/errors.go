// Package common defines shared constants and sentinel errors used across
// the expense tracker layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("duplicate field")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Cross-collection consistency fault: an expense document and the owner's
	// reference list went out of sync and the compensation step failed too.
	ErrorPartialWrite = errors.New("partial write")

	// Authentication and verification errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorInvalidCode        = errors.New("invalid verification code")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
