package authstub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	cfg.BcryptCost = bcrypt.MinCost
	s, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func getWithToken(t *testing.T, url, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, base string) map[string]any {
	t.Helper()
	resp, out := post(t, base+"/api/v1/auth/login", map[string]string{"email": DefaultEmail, "password": DefaultPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return out
}

func TestLogin(t *testing.T) {
	s, ts := newServer(t, Config{})

	out := login(t, ts.URL)
	assert.NotEmpty(t, out["accessToken"])
	assert.NotEmpty(t, out["refreshToken"])
	assert.Equal(t, "Bearer", out["tokenType"])
	assert.Equal(t, float64(900), out["expiresIn"])
	assert.Equal(t, DefaultRole, out["codigoRol"])

	resp, body := post(t, ts.URL+"/api/v1/auth/login", map[string]string{"email": DefaultEmail, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	assert.NotEmpty(t, body["traceId"])

	resp, body = post(t, ts.URL+"/api/v1/auth/login", map[string]string{"email": DefaultEmail})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	assert.Equal(t, int64(3), s.LoginCalls())
}

func TestRefresh_RotatesAndIsSingleUse(t *testing.T) {
	s, ts := newServer(t, Config{})
	first := login(t, ts.URL)

	resp, second := post(t, ts.URL+"/api/v1/auth/refresh", map[string]string{"refreshToken": first["refreshToken"].(string)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, first["refreshToken"], second["refreshToken"])

	resp, body := post(t, ts.URL+"/api/v1/auth/refresh", map[string]string{"refreshToken": first["refreshToken"].(string)})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", body["code"])

	resp, _ = post(t, ts.URL+"/api/v1/auth/refresh", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, int64(3), s.RefreshCalls())
}

func TestRefresh_Expired(t *testing.T) {
	s, ts := newServer(t, Config{RefreshTTL: time.Minute})
	out := login(t, ts.URL)

	s.SetClock(func() time.Time { return time.Now().Add(2 * time.Minute) })
	resp, body := post(t, ts.URL+"/api/v1/auth/refresh", map[string]string{"refreshToken": out["refreshToken"].(string)})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "REFRESH_TOKEN_EXPIRED", body["code"])
}

func TestProtectedResource(t *testing.T) {
	s, ts := newServer(t, Config{})
	token := login(t, ts.URL)["accessToken"].(string)
	url := ts.URL + "/api/v1/vehiculos/ab123cd"

	resp, body := getWithToken(t, url, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AB123CD", body["dominio"])
	assert.Equal(t, "Fiat", body["marca"])

	resp, body = getWithToken(t, url, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])

	resp, body = getWithToken(t, url, "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])

	resp, body = getWithToken(t, ts.URL+"/api/v1/vehiculos/ZZ999ZZ", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "VEHICLE_NOT_FOUND", body["code"])

	s.RevokeAccessTokens()
	resp, body = getWithToken(t, url, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestAccessTokenExpiry(t *testing.T) {
	s, ts := newServer(t, Config{AccessTTL: time.Minute})
	token := login(t, ts.URL)["accessToken"].(string)

	s.SetClock(func() time.Time { return time.Now().Add(5 * time.Minute) })
	resp, body := getWithToken(t, ts.URL+"/api/v1/vehiculos/AB123CD", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", body["code"])
}

func TestHealthAndNotFound(t *testing.T) {
	_, ts := newServer(t, Config{})

	for _, path := range []string{"/health", "/api/health"} {
		resp, body := getWithToken(t, ts.URL+path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "ok", body["status"], path)
	}

	resp, body := getWithToken(t, ts.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestNew_RejectsEmptyPassword(t *testing.T) {
	_, err := New(Config{Users: map[string]string{"a@b.c": ""}})
	require.Error(t, err)
}
