// Package common contains shared constants and small helpers used across the
// client, the pipeline and the stub authority.
package common

// Header names carried on outbound API requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	ContentTypeHeaderName   = "Content-Type"
)

// BearerScheme prefixes the access token in the Authorization header.
const BearerScheme = "Bearer"

const ContentTypeJSON = "application/json"

// Endpoint path fragments. A request whose path contains one of the exempt
// fragments is sent without credentials and never triggers a refresh.
const (
	LoginPath   = "/auth/login"
	RefreshPath = "/auth/refresh"
	HealthPath  = "/health"
)

// AuthExemptPaths lists the path fragments reachable without a session.
var AuthExemptPaths = []string{LoginPath, RefreshPath, HealthPath}
