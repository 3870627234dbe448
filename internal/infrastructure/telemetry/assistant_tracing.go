package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

// TraceRemote wraps remote so that every call runs in its own client span,
// a child of the chat send span. A nil remote stays nil.
func TraceRemote(remote assistant.Remote) assistant.Remote {
	if remote == nil {
		return nil
	}
	return assistant.RemoteFunc(func(ctx context.Context, turn assistant.Turn) (string, error) {
		ctx, span := StartSpan(ctx, "assistant.remote.reply",
			WithSpanKind(trace.SpanKindClient),
			WithAttribute(SpanAttrProductID, turn.Product.ProductID),
		)
		defer span.End()

		text, err := remote.Reply(ctx, turn)
		RecordError(span, err)
		return text, err
	})
}

// AssistantSpans annotates the span in the dispatch context with where the
// reply came from. It implements assistant.Observer.
type AssistantSpans struct{}

// NewAssistantSpans returns the span annotating observer
func NewAssistantSpans() AssistantSpans {
	return AssistantSpans{}
}

// RemoteReplied implements assistant.Observer
func (AssistantSpans) RemoteReplied(ctx context.Context, _ time.Duration) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(SpanAttrReplySource, "remote"))
}

// FallbackUsed implements assistant.Observer
func (AssistantSpans) FallbackUsed(ctx context.Context, reason assistant.FallbackReason, elapsed time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String(SpanAttrReplySource, "fallback"),
		attribute.String(SpanAttrFallbackReason, string(reason)),
	)
	span.AddEvent("assistant.fallback", trace.WithAttributes(
		attribute.String("reason", string(reason)),
		attribute.Float64("elapsed_seconds", elapsed.Seconds()),
	))
}

var _ assistant.Observer = AssistantSpans{}
