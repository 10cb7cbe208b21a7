package mocks

import (
	"context"
	"sync"

	"suave/infras/otel"
)

type otelImpl struct{}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

// NewOtel returns a tracer whose scopes discard everything.
func NewOtel() otel.Otel {
	return &otelImpl{}
}

// Recorder is an otel.Otel that keeps the span names it opened and the errors
// traced on them.
type Recorder struct {
	mu     sync.Mutex
	Spans  []string
	Errors []error
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Spans = append(r.Spans, spanName)

	return ctx, &recordingScope{recorder: r}
}

func (r *Recorder) traced(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Errors = append(r.Errors, err)
}

func NewRecorder() *Recorder {
	return &Recorder{}
}
