package assistant

import (
	"context"
	"errors"
	"time"
)

// Errors reported by Remote implementations. Sessions never surface them to
// end users; they only select the fallback reason.
var (
	ErrRemoteUnavailable = errors.New("assistant: remote unavailable")
	ErrRemoteMalformed   = errors.New("assistant: remote returned no usable response")
)

// ProductContext identifies the product a session is about
type ProductContext struct {
	ProductID    string `json:"productId"`
	ProductTitle string `json:"productTitle"`
}

// Turn is one outbound request to the remote assistant
type Turn struct {
	Message   string
	Product   ProductContext
	Timestamp time.Time
}

// Remote is the external conversational service. Reply returns the text to
// show the user; an error or a blank reply selects the local fallback.
type Remote interface {
	Reply(ctx context.Context, turn Turn) (string, error)
}

// RemoteFunc adapts a function to the Remote interface
type RemoteFunc func(ctx context.Context, turn Turn) (string, error)

// Reply implements Remote
func (f RemoteFunc) Reply(ctx context.Context, turn Turn) (string, error) {
	return f(ctx, turn)
}

// FallbackReason explains why the local classifier answered a turn
type FallbackReason string

const (
	FallbackUnavailable FallbackReason = "unavailable"
	FallbackMalformed   FallbackReason = "malformed"
	FallbackTimeout     FallbackReason = "timeout"
	FallbackDisabled    FallbackReason = "disabled"
)

// Observer receives notifications about remote dispatch outcomes
type Observer interface {
	RemoteReplied(ctx context.Context, elapsed time.Duration)
	FallbackUsed(ctx context.Context, reason FallbackReason, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) RemoteReplied(context.Context, time.Duration)                {}
func (nopObserver) FallbackUsed(context.Context, FallbackReason, time.Duration) {}

// Observers fans notifications out to every non-nil observer in order
func Observers(observers ...Observer) Observer {
	list := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) RemoteReplied(ctx context.Context, elapsed time.Duration) {
	for _, o := range m {
		o.RemoteReplied(ctx, elapsed)
	}
}

func (m multiObserver) FallbackUsed(ctx context.Context, reason FallbackReason, elapsed time.Duration) {
	for _, o := range m {
		o.FallbackUsed(ctx, reason, elapsed)
	}
}

// classifyFailure maps a remote error to a fallback reason
func classifyFailure(err error) FallbackReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FallbackTimeout
	case errors.Is(err, ErrRemoteMalformed):
		return FallbackMalformed
	default:
		return FallbackUnavailable
	}
}
