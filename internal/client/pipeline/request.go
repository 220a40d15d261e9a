package pipeline

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/vtvclient/internal/common"
	"github.com/dmitrijs2005/vtvclient/internal/netx"
)

// Request is one outbound API call. It is owned by the caller until Dispatch
// returns; stages that need to change it work on a Clone.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// NewRequest returns a request with an empty header set.
func NewRequest(method, url string, body []byte) *Request {
	return &Request{Method: method, URL: url, Header: make(http.Header), Body: body}
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	c := &Request{Method: r.Method, URL: r.URL, Header: r.Header.Clone()}
	if c.Header == nil {
		c.Header = make(http.Header)
	}
	if r.Body != nil {
		c.Body = bytes.Clone(r.Body)
	}
	return c
}

// AuthExempt reports whether r targets an endpoint that must be reachable
// without a session (login, refresh, health).
func (r *Request) AuthExempt() bool {
	return netx.PathContainsAny(r.URL, common.AuthExemptPaths)
}

// BearerToken returns the token carried in the Authorization header, or ""
// when the header is absent or uses another scheme.
func (r *Request) BearerToken() string {
	v := r.Header.Get(common.AuthorizationHeaderName)
	scheme, token, ok := strings.Cut(v, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// withBearer returns a clone of r carrying token as its bearer credential.
func (r *Request) withBearer(token string) *Request {
	c := r.Clone()
	c.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	return c
}

// Response is a completed HTTP exchange, whatever its status.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports whether the status is below 400.
func (r *Response) OK() bool {
	return r.Status > 0 && r.Status < 400
}
