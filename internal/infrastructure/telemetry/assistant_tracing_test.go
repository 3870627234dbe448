package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

var tracedTurn = assistant.Turn{
	Message: "hola",
	Product: assistant.ProductContext{ProductID: "MLA-1", ProductTitle: "Samsung Galaxy A55"},
}

func TestTraceRemote_Nil(t *testing.T) {
	assert.Nil(t, TraceRemote(nil))
}

func TestTraceRemote(t *testing.T) {
	t.Run("reply", func(t *testing.T) {
		sr := setupTestTracer(t)
		var inner trace.SpanContext
		remote := TraceRemote(assistant.RemoteFunc(func(ctx context.Context, turn assistant.Turn) (string, error) {
			inner = trace.SpanContextFromContext(ctx)
			return "Sí, hay stock.", nil
		}))

		text, err := remote.Reply(context.Background(), tracedTurn)
		require.NoError(t, err)
		assert.Equal(t, "Sí, hay stock.", text)

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "assistant.remote.reply", spans[0].Name())
		assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
		assert.Equal(t, "MLA-1", spanAttr(spans[0], SpanAttrProductID))
		assert.Equal(t, spans[0].SpanContext().SpanID(), inner.SpanID())
		assert.NotEqual(t, codes.Error, spans[0].Status().Code)
	})

	t.Run("error", func(t *testing.T) {
		sr := setupTestTracer(t)
		remote := TraceRemote(assistant.RemoteFunc(func(ctx context.Context, turn assistant.Turn) (string, error) {
			return "", assistant.ErrRemoteUnavailable
		}))

		_, err := remote.Reply(context.Background(), tracedTurn)
		assert.True(t, errors.Is(err, assistant.ErrRemoteUnavailable))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		require.Len(t, spans[0].Events(), 1)
		assert.Equal(t, "exception", spans[0].Events()[0].Name)
	})
}

func TestAssistantSpans(t *testing.T) {
	t.Run("fallback", func(t *testing.T) {
		sr := setupTestTracer(t)
		ctx, span := StartSpan(context.Background(), "chat_session.send")
		NewAssistantSpans().FallbackUsed(ctx, assistant.FallbackTimeout, 2*time.Second)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "fallback", spanAttr(spans[0], SpanAttrReplySource))
		assert.Equal(t, "timeout", spanAttr(spans[0], SpanAttrFallbackReason))
		require.Len(t, spans[0].Events(), 1)
		assert.Equal(t, "assistant.fallback", spans[0].Events()[0].Name)
	})

	t.Run("remote reply", func(t *testing.T) {
		sr := setupTestTracer(t)
		ctx, span := StartSpan(context.Background(), "chat_session.send")
		NewAssistantSpans().RemoteReplied(ctx, time.Second)
		span.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "remote", spanAttr(spans[0], SpanAttrReplySource))
		assert.Empty(t, spanAttr(spans[0], SpanAttrFallbackReason))
	})

	t.Run("no span in context", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewAssistantSpans().FallbackUsed(context.Background(), assistant.FallbackDisabled, 0)
		})
	})
}
