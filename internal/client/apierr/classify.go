package apierr

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const genericMessage = "something went wrong, please try again"

var statusMessages = map[int]string{
	0:   "cannot reach server, check your connection",
	400: "the submitted data is not valid",
	401: "not authorized, please sign in again",
	403: "you do not have permission to perform this action",
	404: "the requested resource was not found",
	409: "a record with this data already exists",
	422: "the provided data is not valid",
	500: "server error, try again later",
	502: "the server is temporarily unavailable",
	503: "service unavailable, try again later",
	504: "the server took too long to respond, try again",
}

var kindMessages = map[Kind]string{
	KindInvalidCredentials: "invalid email or password",
	KindRefreshRejected:    "your session has expired, please sign in again",
}

// DefaultMessage returns the built-in message for an HTTP status.
func DefaultMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return statusMessages[500]
	}
	return fmt.Sprintf("unknown error (%d), please try again", status)
}

// KindOf maps an HTTP status (0 for transport failures) to an error kind.
func KindOf(status int) Kind {
	switch {
	case status == 0:
		return KindNetworkUnreachable
	case status == 400, status == 422:
		return KindValidationFailed
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 409:
		return KindConflict
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// Classify builds the classified error for a failed response. body is the raw
// response body (may be nil); cause is the transport error, if any. A JSON
// object body contributes message, code and traceId when present.
func Classify(status int, body []byte, cause error) *Error {
	e := &Error{
		Kind:    KindOf(status),
		Status:  status,
		Message: DefaultMessage(status),
		Code:    fmt.Sprintf("HTTP_%d", status),
		Cause:   cause,
	}

	if len(body) == 0 || !gjson.ValidBytes(body) {
		return e
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return e
	}
	if m := doc.Get("message"); m.Type == gjson.String && m.String() != "" {
		e.Message = m.String()
		e.ServerMessage = true
	}
	if c := doc.Get("code"); c.Exists() && c.String() != "" {
		e.Code = c.String()
	}
	if tr := doc.Get("traceId"); tr.Exists() {
		e.TraceID = tr.String()
	}
	return e
}
