package stm

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
)

// startAttemptSpan starts a span for one Atomically attempt if a tracer was
// configured via WithTracer, otherwise it is a no-op — grounded on
// tikv/client-go's prewrite path, which threads an OpenTracing SpanContext
// through each attempt of a transaction.
func startAttemptSpan(ctx context.Context, attempt int) opentracing.Span {
	tracer := currentTracer()
	if tracer == nil {
		return nil
	}
	span, _ := opentracing.StartSpanFromContextWithTracer(ctx, tracer, "stm.atomically.attempt")
	span.SetTag("attempt", attempt)
	return span
}

func finishSpan(span opentracing.Span, outcome string) {
	if span == nil {
		return
	}
	span.SetTag("outcome", outcome)
	span.Finish()
}
