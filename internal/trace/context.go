package trace

import "context"

// ctxScope is what a context carries for tracing: the tracer and the span
// new spans hang off.
type ctxScope struct {
	tracer Tracer
	parent uint64
}

type scopeKey struct{}

func scopeOf(ctx context.Context) ctxScope {
	if ctx != nil {
		if sc, ok := ctx.Value(scopeKey{}).(ctxScope); ok {
			return sc
		}
	}
	return ctxScope{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return scopeOf(ctx).tracer
}

// ParentFromContext returns the span ID recorded by WithParent, or 0.
func ParentFromContext(ctx context.Context) uint64 {
	return scopeOf(ctx).parent
}

// WithTracer attaches t to ctx; a nil t means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	sc := scopeOf(ctx)
	sc.tracer = t
	return context.WithValue(ctx, scopeKey{}, sc)
}

// WithParent makes span the parent of spans started under the returned
// context. A nil span leaves ctx unchanged.
func WithParent(ctx context.Context, span *Span) context.Context {
	if span == nil {
		return ctx
	}
	sc := scopeOf(ctx)
	sc.parent = span.ID()
	return context.WithValue(ctx, scopeKey{}, sc)
}
