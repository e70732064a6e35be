package assessment

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrIncomplete = errors.New("answers incomplete")

// IncompleteError lists unanswered questions. It matches ErrIncomplete.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("answers incomplete: %d unanswered (%s)", len(e.Missing), strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Is(target error) bool { return target == ErrIncomplete }

type Completeness struct {
	Complete bool
	Missing  []string // question ids, quiz order
}

// CheckAnswersComplete verifies every question has an answer in the shape its
// type needs: a selection, every blank filled, every premise paired.
func CheckAnswersComplete(qz Quiz, answers Answers) Completeness {
	var missing []string
	for _, q := range qz.Questions {
		a, ok := answers[q.ID]
		if !ok || !answered(q, a) {
			missing = append(missing, q.ID)
		}
	}
	return Completeness{Complete: len(missing) == 0, Missing: missing}
}

func answered(q Question, a Answer) bool {
	switch q.Type {
	case SingleChoice:
		return strings.TrimSpace(a.Choice) != ""
	case MultipleResponse:
		for _, c := range a.Choices {
			if strings.TrimSpace(c) != "" {
				return true
			}
		}
		return false
	case TrueFalse:
		return a.Value != nil
	case FillBlank:
		if len(a.Blanks) < len(q.Blanks) {
			return false
		}
		for i := range q.Blanks {
			if strings.TrimSpace(a.Blanks[i]) == "" {
				return false
			}
		}
		return true
	case Matching:
		for _, p := range q.Pairs {
			if strings.TrimSpace(a.Matches[p.Premise]) == "" {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Threshold is the passing score, falling back to DefaultPassingScore when
// unset or not a number.
func (qz Quiz) Threshold() float64 {
	if qz.PassingScore == nil || math.IsNaN(*qz.PassingScore) {
		return DefaultPassingScore
	}
	return *qz.PassingScore
}

// Score aggregates evaluations: raw is the weighted sum of points earned, max
// the question count, scaled raw/max clamped to [0,1].
func Score(qz Quiz, evals []Evaluation, at time.Time) AttemptResult {
	byID := make(map[string]Evaluation, len(evals))
	for _, ev := range evals {
		byID[ev.QuestionID] = ev
	}
	res := AttemptResult{QuizID: qz.ID, Max: float64(len(qz.Questions)), Timestamp: at}
	for _, q := range qz.Questions {
		ev, ok := byID[q.ID]
		if !ok {
			ev = Evaluation{QuestionID: q.ID, Type: q.Type}
		}
		res.Raw += ev.PointsEarned * q.weight()
		res.Questions = append(res.Questions, ev)
	}
	if res.Max > 0 {
		res.Scaled = clamp01(res.Raw / res.Max)
	}
	res.Passed = res.Scaled >= qz.Threshold()
	return res
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
