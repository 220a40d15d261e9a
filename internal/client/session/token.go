package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrIncompletePair is returned by Commit when one of the two tokens is missing.
var ErrIncompletePair = errors.New("token pair must carry both access and refresh token")

// TokenPair is the credential set issued by the remote authority on login
// and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	Role         string `json:"codigoRol,omitempty"`
}

// Complete reports whether both tokens are set.
func (p TokenPair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Store persists the current token pair across process restarts. Get reports
// ok=false when no complete pair is stored.
type Store interface {
	Get(ctx context.Context) (pair TokenPair, ok bool, err error)
	Set(ctx context.Context, pair TokenPair) error
	Clear(ctx context.Context) error
	Close() error
}

// expiresAt derives the access token expiry: the exp claim when the token is
// a JWT, otherwise now+ExpiresIn. The signature is not verified; the value is
// informational only.
func expiresAt(p TokenPair, now time.Time) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(p.AccessToken, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	if p.ExpiresIn > 0 {
		return now.Add(time.Duration(p.ExpiresIn) * time.Second)
	}
	return time.Time{}
}
