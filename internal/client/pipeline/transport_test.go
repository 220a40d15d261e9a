package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_SendsRequestAndReturnsAnyStatus(t *testing.T) {
	var gotMethod, gotHeader string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Test")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"dup"}`))
	}))
	defer ts.Close()

	req := NewRequest(http.MethodPost, ts.URL+"/v1/turnos", []byte(`{"a":1}`))
	req.Header.Set("X-Test", "yes")

	resp, err := NewHTTPTransport(nil, time.Second).Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "yes", gotHeader)
	assert.Equal(t, `{"a":1}`, string(gotBody))
	assert.Equal(t, http.StatusConflict, resp.Status)
	assert.Equal(t, `{"message":"dup"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.False(t, resp.OK())
}

func TestHTTPTransport_UnreachableIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := NewHTTPTransport(nil, time.Second).Dispatch(context.Background(), NewRequest(http.MethodGet, url, nil))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, url, te.URL)
}

func TestHTTPTransport_ContextCanceled(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer ts.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPTransport(nil, 5*time.Second).Dispatch(ctx, NewRequest(http.MethodGet, ts.URL, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHTTPTransport_BadURL(t *testing.T) {
	_, err := NewHTTPTransport(nil, time.Second).Dispatch(context.Background(), NewRequest("GET", "://nope", nil))
	var te *TransportError
	require.ErrorAs(t, err, &te)
}
