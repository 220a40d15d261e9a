package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/vtvclient/internal/client/auth"
	"github.com/dmitrijs2005/vtvclient/internal/client/config"
	"github.com/dmitrijs2005/vtvclient/internal/client/credstore"
	"github.com/dmitrijs2005/vtvclient/internal/client/pipeline"
	"github.com/dmitrijs2005/vtvclient/internal/client/session"
	"github.com/dmitrijs2005/vtvclient/internal/common"
	"github.com/dmitrijs2005/vtvclient/internal/filex"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
	"github.com/dmitrijs2005/vtvclient/internal/netx"
)

// Client is the authenticated API client used by the rest of the application.
type Client struct {
	apiURL    string
	healthURL string

	store    session.Store
	session  *session.Session
	auth     *auth.Client
	pipeline *pipeline.Pipeline
	logger   logging.Logger
}

// New opens the credential store selected by cfg, restores the persisted
// session and assembles the request pipeline.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.StoreDriver == credstore.DriverSQLite {
		if err := filex.EnsureDirFor(cfg.StorePath); err != nil {
			return nil, err
		}
	}

	store, err := credstore.New(ctx, credstore.Config{
		Driver: cfg.StoreDriver,
		Path:   cfg.StorePath,
		Redis: credstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	c, err := NewWithStore(ctx, cfg, store, nil, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return c, nil
}

// NewWithStore builds a client on an already opened store. A nil httpClient
// gets one with cfg.RequestTimeout.
func NewWithStore(ctx context.Context, cfg *config.Config, store session.Store, httpClient *http.Client, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	apiURL, err := netx.JoinURL(cfg.APIBaseURL, cfg.APIVersion)
	if err != nil {
		return nil, err
	}
	healthURL, err := netx.JoinURL(cfg.APIBaseURL, common.HealthPath)
	if err != nil {
		return nil, err
	}

	sess := session.New(store, logger)
	sess.Load(ctx)

	transport := pipeline.NewHTTPTransport(httpClient, cfg.RequestTimeout)

	// the auth endpoints are exempt, so their pipeline only tags and classifies
	authPipeline := pipeline.New(transport,
		pipeline.RequestID{},
		pipeline.NewFailureInterceptor(nil, nil, logger),
	)
	authClient, err := auth.New(apiURL, authPipeline, sess, logger)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(transport,
		pipeline.RequestID{},
		pipeline.NewCredentialAttacher(sess),
		pipeline.NewFailureInterceptor(sess, authClient, logger),
	)

	return &Client{
		apiURL:    apiURL,
		healthURL: healthURL,
		store:     store,
		session:   sess,
		auth:      authClient,
		pipeline:  p,
		logger:    logger.With("component", "client"),
	}, nil
}

// Login authenticates with email and password and starts a session.
func (c *Client) Login(ctx context.Context, email, password string) (session.TokenPair, error) {
	return c.auth.Login(ctx, email, password)
}

// Logout ends the session locally.
func (c *Client) Logout(ctx context.Context) {
	c.auth.Logout(ctx)
}

func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

func (c *Client) AccessToken() string {
	return c.session.AccessToken()
}

func (c *Client) State() session.State {
	return c.session.State()
}

// Session exposes the underlying session for read-only inspection.
func (c *Client) Session() *session.Session {
	return c.session
}

// Watch subscribes to session state changes; see session.Session.Watch.
func (c *Client) Watch() (<-chan session.State, func()) {
	return c.session.Watch()
}

// Dispatch sends req through the pipeline. Failures are *apierr.Error.
func (c *Client) Dispatch(ctx context.Context, req *pipeline.Request) (*pipeline.Response, error) {
	return c.pipeline.Dispatch(ctx, req)
}

// URL resolves path against the versioned API root.
func (c *Client) URL(path string) (string, error) {
	return netx.JoinURL(c.apiURL, path)
}

// Do is the JSON helper used by the domain services: it encodes in (when
// non-nil) as the request body, sends it to path under the versioned API
// root and decodes a non-empty response body into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	url, err := c.URL(path)
	if err != nil {
		return err
	}

	var body []byte
	if in != nil {
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	req := pipeline.NewRequest(method, url, body)
	req.Header.Set("Accept", common.ContentTypeJSON)
	if body != nil {
		req.Header.Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
	}

	resp, err := c.pipeline.Dispatch(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Health probes the unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.pipeline.Dispatch(ctx, pipeline.NewRequest(http.MethodGet, c.healthURL, nil))
	return err
}

// Close releases the credential store. The session stays persisted.
func (c *Client) Close() error {
	return c.store.Close()
}
