// Package pipeline dispatches outbound API requests through an explicit,
// ordered list of stages ending in a transport.
//
// Each Stage receives the request and the next Handler in the chain. It may
// forward (possibly a modified clone), short-circuit, or call next more than
// once. The standard chain built by the client is
//
//	RequestID -> CredentialAttacher -> FailureInterceptor -> HTTPTransport
//
// Dispatch returns a *Response for 1xx-3xx answers. Every other outcome,
// including transport errors, is reported as a *apierr.Error by the
// FailureInterceptor.
package pipeline

import "context"

// Handler sends a request and returns its response.
type Handler interface {
	Dispatch(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

func (f HandlerFunc) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Stage transforms a request on its way to next, or the result on its way back.
type Stage interface {
	Process(ctx context.Context, req *Request, next Handler) (*Response, error)
}

// StageFunc adapts a function to Stage.
type StageFunc func(ctx context.Context, req *Request, next Handler) (*Response, error)

func (f StageFunc) Process(ctx context.Context, req *Request, next Handler) (*Response, error) {
	return f(ctx, req, next)
}

// Pipeline is an immutable chain of stages in front of a transport. It is
// safe for concurrent use when its stages are.
type Pipeline struct {
	head Handler
}

// New composes stages in order: stages[0] sees the request first and the
// transport last.
func New(transport Handler, stages ...Stage) *Pipeline {
	h := transport
	for i := len(stages) - 1; i >= 0; i-- {
		h = link{stage: stages[i], next: h}
	}
	return &Pipeline{head: h}
}

func (p *Pipeline) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	return p.head.Dispatch(ctx, req)
}

type link struct {
	stage Stage
	next  Handler
}

func (l link) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	return l.stage.Process(ctx, req, l.next)
}
