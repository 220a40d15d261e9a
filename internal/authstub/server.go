// Package authstub is a small in-memory stand-in for the VTV token authority.
// It serves login, refresh and health endpoints plus one protected resource,
// enough for local development and end-to-end tests of the client.
//
// Access tokens are HS256 JWTs. Refresh tokens are random, single-use and
// rotated on every refresh. RevokeAccessTokens invalidates every access token
// issued so far, which lets tests force the client through a refresh.
package authstub

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/vtvclient/internal/common"
	"github.com/dmitrijs2005/vtvclient/internal/cryptox"
	"github.com/dmitrijs2005/vtvclient/internal/logging"
)

// Default account, matching the seed data of the real backend.
const (
	DefaultEmail    = "admin@test.com"
	DefaultPassword = "admin123"
	DefaultRole     = "ADMIN"
)

type Config struct {
	// Prefix is the API root path, "/api" by default. Versioned routes live
	// under Prefix/Version; health is served at Prefix/health and /health.
	Prefix  string
	Version string

	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Users maps email to plain password; empty means the default account.
	Users map[string]string
	// BcryptCost 0 means bcrypt's default.
	BcryptCost int

	Logger logging.Logger
}

type user struct {
	hash []byte
	role string
}

type refreshEntry struct {
	email     string
	expiresAt time.Time
}

// Vehicle is the sample protected resource.
type Vehicle struct {
	Dominio string `json:"dominio"`
	Marca   string `json:"marca"`
	Modelo  string `json:"modelo"`
	Anio    int    `json:"anio"`
}

type Server struct {
	cfg    Config
	logger logging.Logger

	clockMu sync.RWMutex
	clock   func() time.Time

	mu       sync.Mutex
	users    map[string]user
	refresh  map[string]refreshEntry
	vehicles map[string]Vehicle

	// generation is embedded in access tokens; bumping it revokes them all.
	generation   atomic.Int64
	loginCalls   atomic.Int64
	refreshCalls atomic.Int64
}

// New builds a server with hashed copies of cfg.Users and a few seeded vehicles.
func New(cfg Config) (*Server, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "/api"
	}
	if cfg.Version == "" {
		cfg.Version = "v1"
	}
	if len(cfg.Secret) == 0 {
		cfg.Secret = common.GenerateRandByteArray(32)
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	if len(cfg.Users) == 0 {
		cfg.Users = map[string]string{DefaultEmail: DefaultPassword}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger.With("component", "authstub"),
		clock:   time.Now,
		users:   make(map[string]user, len(cfg.Users)),
		refresh: make(map[string]refreshEntry),
		vehicles: map[string]Vehicle{
			"AB123CD": {Dominio: "AB123CD", Marca: "Fiat", Modelo: "Cronos", Anio: 2021},
			"AC456EF": {Dominio: "AC456EF", Marca: "Toyota", Modelo: "Hilux", Anio: 2019},
		},
	}
	for email, password := range cfg.Users {
		if email == "" || password == "" {
			return nil, errors.New("authstub: users need an email and a password")
		}
		hash, err := cryptox.HashPassword([]byte(password), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("authstub: user %s: %w", email, err)
		}
		role := "INSPECTOR"
		if email == DefaultEmail {
			role = DefaultRole
		}
		s.users[email] = user{hash: hash, role: role}
	}
	return s, nil
}

// Handler returns the router serving all endpoints.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc(common.HealthPath, s.health).Methods(http.MethodGet)
	r.HandleFunc(s.cfg.Prefix+common.HealthPath, s.health).Methods(http.MethodGet)

	api := r.PathPrefix(s.cfg.Prefix + "/" + s.cfg.Version).Subrouter()
	api.HandleFunc(common.LoginPath, s.login).Methods(http.MethodPost)
	api.HandleFunc(common.RefreshPath, s.refreshTokens).Methods(http.MethodPost)

	protected := api.PathPrefix("/vehiculos").Subrouter()
	protected.Use(s.requireAuth)
	protected.HandleFunc("/{dominio}", s.getVehicle).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}

// RevokeAccessTokens invalidates every access token issued so far. Refresh
// tokens stay valid.
func (s *Server) RevokeAccessTokens() {
	s.generation.Add(1)
}

// RevokeRefreshTokens forgets every outstanding refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = make(map[string]refreshEntry)
}

// SetClock replaces the time source used for issuing and verifying tokens.
func (s *Server) SetClock(now func() time.Time) {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	s.clock = now
}

func (s *Server) now() time.Time {
	s.clockMu.RLock()
	defer s.clockMu.RUnlock()
	return s.clock()
}

func (s *Server) LoginCalls() int64   { return s.loginCalls.Load() }
func (s *Server) RefreshCalls() int64 { return s.refreshCalls.Load() }
