package pipeline

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vtvclient/internal/client/apierr"
	"github.com/dmitrijs2005/vtvclient/internal/client/session"
	"github.com/dmitrijs2005/vtvclient/internal/common"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
)

var errNoResponse = errors.New("transport returned no response")

// TokenSource is the read side of the session consulted on recovery.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
}

// Authenticator performs the recovery actions on an unauthorized answer.
// EndSession clears the session only while it still holds refreshToken.
type Authenticator interface {
	Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error)
	EndSession(ctx context.Context, refreshToken string) bool
}

// FailureInterceptor turns failed exchanges into *apierr.Error values and
// recovers from 401 answers on credentialed requests:
//
//   - no refresh token: log out, return the original error;
//   - the session already holds a newer access token: replay with it;
//   - otherwise refresh; on success replay once with the new token, on
//     failure log out and return the refresh error.
//
// Logging out never discards a pair committed after the failing token was
// read, and a caller whose ctx ends while waiting for the refresh leaves the
// session alone. A replay is never retried. Every failure is logged once, when classified.
type FailureInterceptor struct {
	tokens TokenSource
	auth   Authenticator
	logger logging.Logger
}

// NewFailureInterceptor builds the stage. With a nil auth it only classifies,
// which is what the auth client's own pipeline needs.
func NewFailureInterceptor(tokens TokenSource, auth Authenticator, logger logging.Logger) *FailureInterceptor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &FailureInterceptor{
		tokens: tokens,
		auth:   auth,
		logger: logger.With("component", "pipeline"),
	}
}

func (f *FailureInterceptor) Process(ctx context.Context, req *Request, next Handler) (*Response, error) {
	resp, err := next.Dispatch(ctx, req)
	failure := f.classify(ctx, req, resp, err)
	if failure == nil {
		return resp, nil
	}

	if failure.Kind != apierr.KindUnauthorized || req.AuthExempt() || f.auth == nil || f.tokens == nil {
		return nil, failure
	}
	return f.recover(ctx, req, next, failure)
}

func (f *FailureInterceptor) recover(ctx context.Context, req *Request, next Handler, original *apierr.Error) (*Response, error) {
	// read the refresh token before the access token: a commit landing in
	// between then shows up as a newer access token below
	refreshToken := f.tokens.RefreshToken()
	if refreshToken == "" {
		f.logger.Warn(ctx, "unauthorized without refresh token, ending session",
			"method", req.Method, "url", req.URL)
		f.auth.EndSession(ctx, refreshToken)
		return nil, original
	}

	if current := f.tokens.AccessToken(); current != "" && current != req.BearerToken() {
		f.logger.Debug(ctx, "session refreshed by another call, replaying",
			"method", req.Method, "url", req.URL)
		return f.replay(ctx, req, next, current)
	}

	pair, err := f.auth.Refresh(ctx, refreshToken)
	if err != nil {
		if ctx.Err() != nil {
			f.logger.Debug(ctx, "caller gave up during refresh",
				"method", req.Method, "url", req.URL, "err", ctx.Err())
			return nil, err
		}
		if f.auth.EndSession(ctx, refreshToken) {
			f.logger.Warn(ctx, "token refresh failed, session ended",
				"method", req.Method, "url", req.URL, "err", err)
		} else {
			f.logger.Warn(ctx, "token refresh failed, newer session kept",
				"method", req.Method, "url", req.URL, "err", err)
		}
		return nil, err
	}

	f.logger.Debug(ctx, "token refreshed, replaying", "method", req.Method, "url", req.URL)
	return f.replay(ctx, req, next, pair.AccessToken)
}

func (f *FailureInterceptor) replay(ctx context.Context, req *Request, next Handler, token string) (*Response, error) {
	retry := req.withBearer(token)
	resp, err := next.Dispatch(ctx, retry)
	if failure := f.classify(ctx, retry, resp, err); failure != nil {
		return nil, failure
	}
	return resp, nil
}

// classify returns nil for a successful exchange.
func (f *FailureInterceptor) classify(ctx context.Context, req *Request, resp *Response, err error) *apierr.Error {
	if err != nil {
		// already classified further down the chain, and logged there
		if e, ok := apierr.As(err); ok {
			return e
		}
	}

	var e *apierr.Error
	switch {
	case err != nil:
		e = apierr.Classify(0, nil, err)
	case resp == nil:
		e = apierr.Classify(0, nil, errNoResponse)
	case resp.OK():
		return nil
	default:
		e = apierr.Classify(resp.Status, resp.Body, nil)
	}
	e.Method, e.URL = req.Method, req.URL

	args := []any{
		"method", req.Method,
		"url", req.URL,
		"status", e.Status,
		"kind", string(e.Kind),
		"code", e.Code,
		"request_id", req.Header.Get(common.RequestIDHeaderName),
	}
	if e.TraceID != "" {
		args = append(args, "trace_id", e.TraceID)
	}
	if e.Cause != nil {
		args = append(args, "err", e.Cause)
	}

	if apierr.IsRecoverable(e) {
		f.logger.Error(ctx, "request failed", args...)
	} else {
		f.logger.Warn(ctx, "request failed", args...)
	}
	return e
}
