// Package session is the per-learner context object: it owns the discovered
// handle, the bridge over it, the local adapter, the completion tracker and
// one assessment engine per quiz.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courseware/internal/assessment"
	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
	"github.com/mind-engage/mindengage-courseware/internal/discovery"
	"github.com/mind-engage/mindengage-courseware/internal/journal"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
	"github.com/mind-engage/mindengage-courseware/internal/tracking"
)

type config struct {
	log      *zap.Logger
	now      func() time.Time
	journal  journal.Recorder
	maxDepth int
}

type Option func(*config)

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

func WithJournal(r journal.Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.journal = r
		}
	}
}

// WithMaxDepth bounds discovery; non-positive values use discovery.DefaultMaxDepth.
func WithMaxDepth(n int) Option { return func(c *config) { c.maxDepth = n } }

type Session struct {
	id     string
	found  discovery.Result
	bridge *datamodel.Bridge
	local  *storage.Local
	track  *tracking.Tracker
	cfg    config

	learnerID string

	mu      sync.Mutex
	engines map[string]*assessment.Engine
	closed  bool
}

// Open runs discovery once over acc and initializes the bridge. Stored
// standalone progress is picked up as media is registered. It never fails: a missing handle yields a standalone
// session. local may be nil when nothing should persist.
func Open(ctx context.Context, acc discovery.Accessor, local *storage.Local, opts ...Option) *Session {
	cfg := config{
		log:     zap.NewNop(),
		now:     time.Now,
		journal: journal.Nop{},
	}
	for _, o := range opts {
		o(&cfg)
	}

	s := &Session{
		id:      uuid.NewString(),
		local:   local,
		engines: map[string]*assessment.Engine{},
	}
	cfg.log = cfg.log.With(zap.String("session_id", s.id))
	s.cfg = cfg

	s.found = discovery.Run(acc, cfg.maxDepth)
	if s.found.Found {
		s.bridge = datamodel.New(s.found.Handle, s.found.Version, datamodel.WithLogger(cfg.log))
		cfg.log.Info("tracking service found",
			zap.String("version", string(s.found.Version)), zap.Int("depth", s.found.Depth))
	} else {
		s.bridge = datamodel.Detached(datamodel.WithLogger(cfg.log))
		cfg.log.Info("no tracking service, running standalone", zap.String("reason", string(s.found.Reason)))
	}
	if !s.bridge.Initialize() {
		cfg.log.Warn("tracking service did not initialize")
	}
	if id, ok := s.bridge.GetField(datamodel.FieldLearnerID); ok {
		s.learnerID = id
	}

	s.track = tracking.New(s.bridge, local,
		tracking.WithClock(cfg.now),
		tracking.WithLogger(cfg.log),
		tracking.WithJournal(cfg.journal, s.id),
	)
	return s
}

func (s *Session) ID() string { return s.id }

// Discovery returns the cached discovery outcome.
func (s *Session) Discovery() discovery.Result { return s.found }

func (s *Session) Bridge() *datamodel.Bridge { return s.bridge }

// LearnerID is the host's learner id, empty when standalone or unset.
func (s *Session) LearnerID() string { return s.learnerID }

// Standalone reports whether no host handle was found.
func (s *Session) Standalone() bool { return !s.bridge.HasHandle() }

func (s *Session) Tracker() *tracking.Tracker { return s.track }

// LoadQuiz returns the engine for qz.ID, creating it on first use. A quiz
// loaded twice keeps its first engine and its submission state.
func (s *Session) LoadQuiz(qz assessment.Quiz) (*assessment.Engine, error) {
	if err := qz.Validate(); err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[qz.ID]; ok {
		return e, nil
	}
	e := assessment.NewEngine(qz, s.bridge, s.local,
		assessment.WithClock(s.cfg.now),
		assessment.WithLogger(s.cfg.log),
		assessment.WithJournal(s.cfg.journal, s.id),
	)
	s.engines[qz.ID] = e
	return e, nil
}

func (s *Session) Engine(quizID string) (*assessment.Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.engines[quizID]
	return e, ok
}

// Close terminates the host session. Later calls return the first outcome.
func (s *Session) Close() bool {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.bridge.Terminate()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
