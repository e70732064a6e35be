package assessment

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courseware/internal/datamodel"
	"github.com/mind-engage/mindengage-courseware/internal/journal"
	"github.com/mind-engage/mindengage-courseware/internal/storage"
)

var ErrAlreadySubmitted = errors.New("quiz already submitted")

type SubmissionState int

const (
	NotSubmitted SubmissionState = iota
	Submitted
)

func (s SubmissionState) String() string {
	if s == Submitted {
		return "submitted"
	}
	return "not_submitted"
}

// DeliveryStatus records whether the host accepted the result write.
type DeliveryStatus string

const (
	DeliveryNone    DeliveryStatus = ""
	DeliveryPending DeliveryStatus = "pending"
	DeliveryOK      DeliveryStatus = "ok"
	DeliveryFailed  DeliveryStatus = "failed"
)

type Clock func() time.Time

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.now = c
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithGrader(g *Grader) Option {
	return func(e *Engine) {
		if g != nil {
			e.grader = g
		}
	}
}

func WithJournal(r journal.Recorder, sessionID string) Option {
	return func(e *Engine) {
		if r != nil {
			e.journal = r
			e.sessionID = sessionID
		}
	}
}

// Engine scores one quiz instance and accepts at most one submission.
type Engine struct {
	quiz   Quiz
	bridge *datamodel.Bridge
	local  *storage.Local

	grader    *Grader
	now       Clock
	log       *zap.Logger
	journal   journal.Recorder
	sessionID string

	mu       sync.Mutex
	state    SubmissionState
	result   AttemptResult
	delivery DeliveryStatus
}

// NewEngine binds quiz to the session's bridge. local is written only while
// the bridge has no real handle and may be nil.
func NewEngine(quiz Quiz, bridge *datamodel.Bridge, local *storage.Local, opts ...Option) *Engine {
	if bridge == nil {
		bridge = datamodel.Detached()
	}
	e := &Engine{
		quiz:    quiz,
		bridge:  bridge,
		local:   local,
		grader:  NewGrader(),
		now:     time.Now,
		log:     zap.NewNop(),
		journal: journal.Nop{},
	}
	for _, o := range opts {
		o(e)
	}
	e.log = e.log.With(zap.String("component", "assessment"), zap.String("quiz_id", quiz.ID))
	return e
}

func (e *Engine) QuizID() string { return e.quiz.ID }

func (e *Engine) State() SubmissionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the accepted attempt, if any.
func (e *Engine) Result() (AttemptResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Submitted {
		return AttemptResult{}, false
	}
	return e.result.clone(), true
}

func (e *Engine) Delivery() DeliveryStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delivery
}

// Check reports completeness without submitting.
func (e *Engine) Check(answers Answers) Completeness {
	return CheckAnswersComplete(e.quiz, answers)
}

// Submit scores answers and reports the result exactly once.
//
// A second call returns the first result with ErrAlreadySubmitted and has no
// side effects. Incomplete answers return an *IncompleteError and leave the
// engine open for another try. Once scoring starts the engine is marked
// submitted whether or not the host accepted the write.
func (e *Engine) Submit(ctx context.Context, answers Answers) (AttemptResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Submitted {
		return e.result.clone(), ErrAlreadySubmitted
	}
	if c := CheckAnswersComplete(e.quiz, answers); !c.Complete {
		return AttemptResult{}, &IncompleteError{Missing: c.Missing}
	}

	evals := make([]Evaluation, 0, len(e.quiz.Questions))
	for _, q := range e.quiz.Questions {
		ev, err := e.grader.Evaluate(q, answers[q.ID])
		if err != nil {
			e.log.Warn("question not scorable", zap.String("question_id", q.ID), zap.Error(err))
		}
		evals = append(evals, ev)
	}
	res := Score(e.quiz, evals, e.now())

	e.delivery = DeliveryPending
	delivered := e.report(res)

	e.state = Submitted
	e.result = res
	if delivered {
		e.delivery = DeliveryOK
	} else {
		e.delivery = DeliveryFailed
	}

	if !e.bridge.HasHandle() && e.local != nil {
		e.local.SaveJSON(ctx, storage.CategoryQuiz, e.quiz.ID, res)
	}

	ev := journal.NewEvent(e.sessionID, journal.TypeQuizSubmitted, e.quiz.ID, map[string]any{
		"raw": res.Raw, "max": res.Max, "scaled": res.Scaled, "passed": res.Passed, "delivery": e.delivery,
	})
	if err := e.journal.Append(ctx, ev); err != nil {
		e.log.Warn("journal append failed", zap.Error(err))
	}

	e.log.Info("quiz submitted",
		zap.Float64("raw", res.Raw), zap.Float64("max", res.Max),
		zap.Float64("scaled", res.Scaled), zap.Bool("passed", res.Passed),
		zap.String("delivery", string(e.delivery)))
	return res.clone(), nil
}

// Previous returns a result persisted by an earlier standalone session.
func (e *Engine) Previous(ctx context.Context) (AttemptResult, bool) {
	if e.bridge.HasHandle() || e.local == nil {
		return AttemptResult{}, false
	}
	var res AttemptResult
	if !e.local.LoadJSON(ctx, storage.CategoryQuiz, e.quiz.ID, &res) {
		return AttemptResult{}, false
	}
	return res, true
}

// report writes the result fields and commits. Every write is attempted even
// after a failure.
func (e *Engine) report(res AttemptResult) bool {
	success := datamodel.StatusFailed
	if res.Passed {
		success = datamodel.StatusPassed
	}
	values := map[datamodel.Field]string{
		datamodel.FieldScoreRaw:         formatScore(res.Raw),
		datamodel.FieldScoreMax:         formatScore(res.Max),
		datamodel.FieldScoreScaled:      formatScore(res.Scaled),
		datamodel.FieldSuccessStatus:    success,
		datamodel.FieldCompletionStatus: datamodel.StatusCompleted,
	}
	ok := true
	for _, f := range datamodel.ResultFields {
		if !e.bridge.Supports(f) {
			continue
		}
		if !e.bridge.SetField(f, values[f]) {
			ok = false
		}
	}
	if !e.bridge.Commit() {
		ok = false
	}
	return ok
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
