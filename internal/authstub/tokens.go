package authstub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/vtvclient/internal/common"
)

const issuer = "vtv-authstub"

type accessClaims struct {
	Role       string `json:"rol"`
	Generation int64  `json:"gen"`
	jwt.RegisteredClaims
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
	Role         string `json:"codigoRol,omitempty"`
}

type ctxKey struct{}

func withSubject(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxKey{}, email)
}

// subjectFrom returns the email the request was authenticated as.
func subjectFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(string)
	return v
}

// issue mints a new access token and a fresh single-use refresh token.
func (s *Server) issue(email string) (tokenResponse, error) {
	now := s.now()
	role := s.users[email].role

	claims := accessClaims{
		Role:       role,
		Generation: s.generation.Load(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("generate refresh token: %w", err)
	}
	s.refresh[refresh] = refreshEntry{email: email, expiresAt: now.Add(s.cfg.RefreshTTL)}

	return tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    common.BearerScheme,
		ExpiresIn:    int64(s.cfg.AccessTTL / time.Second),
		Role:         role,
	}, nil
}

// verify checks signature, expiry and generation of an access token and
// returns its subject.
func (s *Server) verify(raw string) (string, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if claims.Generation != s.generation.Load() {
		return "", common.ErrTokenExpired
	}
	return claims.Subject, nil
}

// consumeRefresh removes token and returns its owner. Callers hold s.mu.
func (s *Server) consumeRefresh(token string) (string, error) {
	e, ok := s.refresh[token]
	if !ok {
		return "", common.ErrInvalidToken
	}
	delete(s.refresh, token)
	if s.now().After(e.expiresAt) {
		return "", common.ErrRefreshTokenExpired
	}
	return e.email, nil
}
