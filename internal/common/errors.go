package common

import "errors"

var (
	// ErrInvalidToken is returned for tokens that fail parsing or signature checks.
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
