// Package auth talks to the remote token authority: login, refresh and the
// local-only logout. Successful answers are committed to the session.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/vtvclient/internal/client/apierr"
	"github.com/dmitrijs2005/vtvclient/internal/client/pipeline"
	"github.com/dmitrijs2005/vtvclient/internal/client/session"
	"github.com/dmitrijs2005/vtvclient/internal/common"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
	"github.com/dmitrijs2005/vtvclient/internal/netx"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshTimeout bounds a shared refresh once it no longer follows any
// caller's context.
const refreshTimeout = 30 * time.Second

type Client struct {
	loginURL   string
	refreshURL string

	handler pipeline.Handler
	session *session.Session
	logger  logging.Logger

	refreshes singleflight.Group
}

// New returns a client for the authority at baseURL (API root including the
// version segment). handler must classify failures into *apierr.Error; the
// usual choice is a pipeline of RequestID and a FailureInterceptor without
// an Authenticator in front of the HTTP transport.
func New(baseURL string, handler pipeline.Handler, sess *session.Session, logger logging.Logger) (*Client, error) {
	loginURL, err := netx.JoinURL(baseURL, common.LoginPath)
	if err != nil {
		return nil, err
	}
	refreshURL, err := netx.JoinURL(baseURL, common.RefreshPath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		loginURL:   loginURL,
		refreshURL: refreshURL,
		handler:    handler,
		session:    sess,
		logger:     logger.With("component", "auth"),
	}, nil
}

// Login exchanges credentials for a token pair and commits it. A 400 or 401
// answer is reported as apierr.KindInvalidCredentials. The session is left
// untouched on any failure.
func (c *Client) Login(ctx context.Context, email, password string) (session.TokenPair, error) {
	pair, err := c.exchange(ctx, c.loginURL, LoginRequest{Email: email, Password: password})
	if err != nil {
		if e, ok := apierr.As(err); ok && (e.Status == http.StatusBadRequest || e.Status == http.StatusUnauthorized) {
			return session.TokenPair{}, e.WithKind(apierr.KindInvalidCredentials)
		}
		return session.TokenPair{}, err
	}

	if err := c.session.Commit(ctx, pair); err != nil {
		return session.TokenPair{}, err
	}
	c.logger.Info(ctx, "logged in", "email", email)
	return pair, nil
}

// Refresh exchanges refreshToken for a new pair and commits it. Concurrent
// calls with the same refresh token share one request, and a token the
// session has already rotated away resolves to the current pair. A 400, 401 or 403
// answer is reported as apierr.KindRefreshRejected. Refresh never clears the
// session; deciding to log out is the caller's business.
//
// The shared request is detached from ctx and bounded by refreshTimeout, so a
// caller giving up only stops its own wait: it gets a NetworkUnreachable error
// wrapping ctx.Err() while the refresh completes for everyone else.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	if refreshToken == "" {
		return session.TokenPair{}, apierr.Classify(http.StatusUnauthorized, nil, nil).WithKind(apierr.KindRefreshRejected)
	}

	ch := c.refreshes.DoChan(refreshToken, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return c.refresh(fctx, refreshToken)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug(ctx, "joined in-flight refresh")
		}
		if res.Err != nil {
			return session.TokenPair{}, res.Err
		}
		return res.Val.(session.TokenPair), nil
	case <-ctx.Done():
		c.logger.Debug(ctx, "stopped waiting for refresh", "err", ctx.Err())
		e := apierr.Classify(0, nil, ctx.Err())
		e.Method, e.URL = http.MethodPost, c.refreshURL
		return session.TokenPair{}, e
	}
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	// a flight for this token already completed and rotated it
	if cur, ok := c.session.Pair(); ok && cur.RefreshToken != refreshToken {
		c.logger.Debug(ctx, "refresh token already rotated, using current pair")
		return cur, nil
	}
	pair, err := c.exchange(ctx, c.refreshURL, RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		if e, ok := apierr.As(err); ok && rejected(e.Status) {
			return session.TokenPair{}, e.WithKind(apierr.KindRefreshRejected)
		}
		return session.TokenPair{}, err
	}
	if err := c.session.Commit(ctx, pair); err != nil {
		return session.TokenPair{}, err
	}
	c.logger.Info(ctx, "session refreshed")
	return pair, nil
}

// Logout clears the session locally. The authority is not contacted.
func (c *Client) Logout(ctx context.Context) {
	wasAuthenticated := c.session.IsAuthenticated()
	c.session.Reset(ctx)
	if wasAuthenticated {
		c.logger.Info(ctx, "logged out")
	}
}

// EndSession logs out after a failed recovery, but only while the session
// still holds refreshToken. A pair committed in the meantime, by a login or
// another refresh, is kept.
func (c *Client) EndSession(ctx context.Context, refreshToken string) bool {
	if !c.session.ResetIf(ctx, refreshToken) {
		return false
	}
	c.logger.Info(ctx, "session ended")
	return true
}

func (c *Client) exchange(ctx context.Context, url string, in any) (session.TokenPair, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return session.TokenPair{}, fmt.Errorf("encode request: %w", err)
	}

	req := pipeline.NewRequest(http.MethodPost, url, body)
	req.Header.Set(common.ContentTypeHeaderName, common.ContentTypeJSON)

	resp, err := c.handler.Dispatch(ctx, req)
	if err != nil {
		return session.TokenPair{}, err
	}

	var pair session.TokenPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil || !pair.Complete() {
		e := apierr.Classify(resp.Status, nil, err)
		e.Kind = apierr.KindUnknown
		e.Message = "invalid token response from server"
		e.Method, e.URL = req.Method, req.URL
		c.logger.Error(ctx, "malformed token response", "url", url, "status", resp.Status, "err", err)
		return session.TokenPair{}, e
	}
	return pair, nil
}

func rejected(status int) bool {
	return status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden
}
