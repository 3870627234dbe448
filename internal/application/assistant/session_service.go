package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/shared"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/logger"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/infrastructure/telemetry"
)

// Session registry errors
var (
	ErrSessionNotFound = shared.NewDomainError(shared.CodeNotFound, "Chat session not found")
	ErrSessionBusy     = shared.NewDomainError(shared.CodeConflict, "Session is awaiting a response")
	ErrTooManySessions = shared.NewDomainError(shared.CodeLimit, "Too many active chat sessions")
)

// Config tunes the session registry
type Config struct {
	// RemoteTimeout bounds each remote call; zero disables the bound
	RemoteTimeout time.Duration
	// IdleTTL evicts sessions untouched for longer; zero keeps them forever
	IdleTTL time.Duration
	// MaxSessions caps live sessions; zero means unlimited
	MaxSessions int
}

// DefaultConfig returns the registry defaults
func DefaultConfig() Config {
	return Config{
		RemoteTimeout: assistant.DefaultRemoteTimeout,
		IdleTTL:       30 * time.Minute,
		MaxSessions:   10000,
	}
}

// SessionService owns every live chat session. Each session is created for
// one product, addressed by its id and torn down explicitly or by the idle
// janitor. Sessions share nothing but the remote and the classifier.
type SessionService struct {
	products   catalog.ProductRepository
	remote     assistant.Remote
	classifier *assistant.Classifier
	observer   assistant.Observer
	logger     *zap.Logger
	cfg        Config
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*assistant.Session
	// sends in progress per session id; the janitor never evicts these
	inUse map[string]int

	stopChan  chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// Option configures a SessionService
type Option func(*SessionService)

// WithObserver reports remote outcomes of every session to o
func WithObserver(o assistant.Observer) Option {
	return func(s *SessionService) {
		s.observer = o
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *SessionService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source of the service and its sessions
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionService creates a session registry. A nil remote answers every
// turn from the classifier.
func NewSessionService(
	products catalog.ProductRepository,
	remote assistant.Remote,
	classifier *assistant.Classifier,
	cfg Config,
	opts ...Option,
) *SessionService {
	s := &SessionService{
		products:   products,
		remote:     remote,
		classifier: classifier,
		logger:     zap.NewNop(),
		cfg:        cfg,
		now:        time.Now,
		sessions:   make(map[string]*assistant.Session),
		inUse:      make(map[string]int),
		stopChan:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = assistant.NewClassifier(nil)
	}
	return s
}

// Create opens a session about productID, seeded with the greeting
func (s *SessionService) Create(ctx context.Context, productID string) (*SessionResponse, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, catalog.ErrProductIDRequired
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		logger.L(ctx).Warn("Chat session limit reached", zap.Int("max_sessions", s.cfg.MaxSessions))
		return nil, ErrTooManySessions
	}
	opts := []assistant.SessionOption{
		assistant.WithTimeout(s.cfg.RemoteTimeout),
		assistant.WithLogger(s.logger),
		assistant.WithClock(s.now),
	}
	if s.observer != nil {
		opts = append(opts, assistant.WithObserver(s.observer))
	}
	session := assistant.NewSession(
		assistant.ProductContext{ProductID: product.ID, ProductTitle: product.Title},
		s.remote,
		s.classifier,
		opts...,
	)
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	logger.L(ctx).Info("Chat session created",
		zap.String("session_id", session.ID()),
		zap.String("product_id", product.ID),
	)
	resp := ToSessionResponse(session)
	return &resp, nil
}

// Get returns a snapshot of the session
func (s *SessionService) Get(ctx context.Context, id string) (*SessionResponse, error) {
	session, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// Send submits a user message and waits for the assistant reply. A blank
// message leaves the session unchanged and yields no reply. The remote call
// outlives a cancelled ctx so that the session always receives its reply.
func (s *SessionService) Send(ctx context.Context, id, text string) (*SendMessageResponse, error) {
	session, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer s.release(id)

	ctx, span := telemetry.StartServiceSpan(context.WithoutCancel(ctx), "chat_session", "send",
		telemetry.WithAttribute(telemetry.SpanAttrSessionID, id),
		telemetry.WithAttribute(telemetry.SpanAttrProductID, session.Product().ProductID),
	)
	defer span.End()

	reply, err := session.Send(ctx, text)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		return &SendMessageResponse{Session: ToSessionResponse(session)}, nil
	case errors.Is(err, assistant.ErrAwaitingResponse):
		return nil, ErrSessionBusy
	case err != nil:
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &SendMessageResponse{Reply: &reply, Session: ToSessionResponse(session)}, nil
}

// Delete tears the session down
func (s *SessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	logger.L(ctx).Info("Chat session closed", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes ready sessions inactive for longer than the idle TTL and
// returns how many were removed. Sessions awaiting a reply or with a send in
// progress are kept.
func (s *SessionService) EvictIdle() int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, session := range s.sessions {
		if s.inUse[id] > 0 {
			continue
		}
		if session.Status() == assistant.StatusReady && session.LastActive().Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("Evicted idle chat sessions", zap.Int("count", evicted))
	}
	return evicted
}

// StartJanitor runs EvictIdle every interval until Close is called
func (s *SessionService) StartJanitor(interval time.Duration) {
	if interval <= 0 || s.cfg.IdleTTL <= 0 {
		return
	}
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.janitorLoop(interval)
	})
}

// Close stops the janitor. Safe to call multiple times.
func (s *SessionService) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *SessionService) janitorLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.EvictIdle()
		}
	}
}

// acquire looks the session up and marks it in use until release
func (s *SessionService) acquire(id string) (*assistant.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.inUse[id]++
	return session, nil
}

func (s *SessionService) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inUse[id]--
	if s.inUse[id] <= 0 {
		delete(s.inUse, id)
	}
}

func (s *SessionService) lookup(id string) (*assistant.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
