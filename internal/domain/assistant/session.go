package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the dispatch state of a session
type Status string

const (
	StatusReady            Status = "ready"
	StatusAwaitingResponse Status = "awaiting_response"
)

// GreetingMessage seeds every new session
const GreetingMessage = "¡Hola! Soy el asistente virtual de este producto. ¿En qué te puedo ayudar?"

// DefaultRemoteTimeout bounds a single remote call
const DefaultRemoteTimeout = 10 * time.Second

// Send outcomes that leave the session unchanged
var (
	ErrEmptyMessage     = errors.New("assistant: message is empty")
	ErrAwaitingResponse = errors.New("assistant: session is awaiting a response")
)

// Session is one conversation about a single product. It owns an append-only
// message history and accepts at most one outstanding remote call; a send
// made while a reply is pending is rejected rather than queued. Every accepted
// send appends exactly one user message followed by exactly one assistant
// message, after which the session is ready again.
type Session struct {
	id         string
	product    ProductContext
	remote     Remote
	classifier *Classifier
	observer   Observer
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	mu         sync.Mutex
	status     Status
	messages   []Message
	lastActive time.Time
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithTimeout bounds each remote call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers a dispatch observer
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionID sets the session identifier
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession creates a ready session seeded with the greeting.
// A nil remote makes every reply come from the classifier.
func NewSession(product ProductContext, remote Remote, classifier *Classifier, opts ...SessionOption) *Session {
	s := &Session{
		product:    product,
		remote:     remote,
		classifier: classifier,
		observer:   nopObserver{},
		logger:     zap.NewNop(),
		timeout:    DefaultRemoteTimeout,
		now:        time.Now,
		status:     StatusReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = NewClassifier(nil)
	}
	if s.id == "" {
		s.id = newMessageID()
	}
	s.logger = s.logger.With(zap.String("session_id", s.id), zap.String("product_id", product.ProductID))

	s.lastActive = s.now()
	s.messages = []Message{s.newMessage(GreetingMessage, AuthorAssistant)}
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Product returns the product the session is about
func (s *Session) Product() ProductContext {
	return s.product
}

// Status returns the current dispatch state
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Messages returns a copy of the history in insertion order
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// LastActive returns when the session last accepted a send or appended a reply
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Send submits user text and blocks until the assistant reply is appended.
// Blank text returns ErrEmptyMessage and a send while a reply is pending
// returns ErrAwaitingResponse; neither changes the session. Remote failures
// are never returned: they are answered by the classifier.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.status == StatusAwaitingResponse {
		s.mu.Unlock()
		return Message{}, ErrAwaitingResponse
	}
	userMsg := s.newMessage(text, AuthorUser)
	s.messages = append(s.messages, userMsg)
	s.status = StatusAwaitingResponse
	s.lastActive = userMsg.CreatedAt
	s.mu.Unlock()

	replyText := s.dispatch(ctx, Turn{
		Message:   text,
		Product:   s.product,
		Timestamp: userMsg.CreatedAt,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	reply := s.newMessage(replyText, AuthorAssistant)
	s.messages = append(s.messages, reply)
	s.status = StatusReady
	s.lastActive = reply.CreatedAt
	return reply, nil
}

// dispatch asks the remote for a reply and falls back to the classifier on
// any failure, timeout, panic or blank reply.
func (s *Session) dispatch(ctx context.Context, turn Turn) string {
	if s.remote == nil {
		s.observer.FallbackUsed(ctx, FallbackDisabled, 0)
		return s.classifier.Classify(turn.Message)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.now()
	text, err := s.callRemote(callCtx, turn)
	elapsed := s.now().Sub(start)

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrRemoteMalformed
	}
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		reason := classifyFailure(err)
		s.logger.Warn("Remote assistant failed, using fallback reply",
			zap.String("reason", string(reason)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		s.observer.FallbackUsed(ctx, reason, elapsed)
		return s.classifier.Classify(turn.Message)
	}

	s.observer.RemoteReplied(ctx, elapsed)
	return text
}

func (s *Session) callRemote(ctx context.Context, turn Turn) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRemoteUnavailable, r)
		}
	}()
	return s.remote.Reply(ctx, turn)
}

func (s *Session) newMessage(text string, author Author) Message {
	return Message{
		ID:        newMessageID(),
		Text:      text,
		Author:    author,
		CreatedAt: s.now(),
	}
}
