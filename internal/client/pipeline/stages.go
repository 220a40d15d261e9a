package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/vtvclient/internal/common"
)

// AccessTokenSource yields the access token to attach, "" when anonymous.
type AccessTokenSource interface {
	AccessToken() string
}

// RequestID tags requests with a fresh X-Request-ID unless they carry one.
// Placed first, a replay reuses the id of the call it repeats.
type RequestID struct{}

func (RequestID) Process(ctx context.Context, req *Request, next Handler) (*Response, error) {
	if req.Header.Get(common.RequestIDHeaderName) != "" {
		return next.Dispatch(ctx, req)
	}
	c := req.Clone()
	c.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return next.Dispatch(ctx, c)
}

// CredentialAttacher adds the current bearer token to credentialed requests.
// Auth-exempt requests and anonymous sessions are forwarded unchanged; the
// resulting 401 is left to the FailureInterceptor.
type CredentialAttacher struct {
	tokens AccessTokenSource
}

func NewCredentialAttacher(tokens AccessTokenSource) *CredentialAttacher {
	return &CredentialAttacher{tokens: tokens}
}

func (a *CredentialAttacher) Process(ctx context.Context, req *Request, next Handler) (*Response, error) {
	if req.AuthExempt() {
		return next.Dispatch(ctx, req)
	}
	token := a.tokens.AccessToken()
	if token == "" {
		return next.Dispatch(ctx, req)
	}
	return next.Dispatch(ctx, req.withBearer(token))
}
