package assessment

import "fmt"

// Evaluator decides whether one answer is correct for its question type.
// Every question is worth one point; there is no partial credit.
type Evaluator interface {
	Correct(q Question, a Answer) bool
}

// Grader routes by question type to the matching Evaluator.
type Grader struct {
	evaluators map[QuestionType]Evaluator
}

type GraderOption func(*Grader)

// WithEvaluator installs e for t, replacing any built-in evaluator.
func WithEvaluator(t QuestionType, e Evaluator) GraderOption {
	return func(g *Grader) { g.evaluators[t] = e }
}

// NewGrader installs the built-in evaluators.
func NewGrader(opts ...GraderOption) *Grader {
	g := &Grader{
		evaluators: map[QuestionType]Evaluator{
			SingleChoice:     singleChoiceEvaluator{},
			MultipleResponse: multipleResponseEvaluator{},
			TrueFalse:        trueFalseEvaluator{},
			FillBlank:        fillBlankEvaluator{},
			Matching:         matchingEvaluator{},
		},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Evaluate scores a single question.
func (g *Grader) Evaluate(q Question, a Answer) (Evaluation, error) {
	ev := Evaluation{QuestionID: q.ID, Type: q.Type}
	e, ok := g.evaluators[q.Type]
	if !ok {
		return ev, fmt.Errorf("%w: %q", ErrUnknownQuestionType, q.Type)
	}
	if e.Correct(q, a) {
		ev.Correct = true
		ev.PointsEarned = 1
	}
	return ev, nil
}

// --- Evaluators ---

type singleChoiceEvaluator struct{}

func (singleChoiceEvaluator) Correct(q Question, a Answer) bool {
	return a.Choice != "" && a.Choice == q.CorrectID
}

// multipleResponseEvaluator requires the exact set; subsets earn nothing.
type multipleResponseEvaluator struct{}

func (multipleResponseEvaluator) Correct(q Question, a Answer) bool {
	return setEqual(toSet(q.CorrectIDs), toSet(a.Choices))
}

type trueFalseEvaluator struct{}

func (trueFalseEvaluator) Correct(q Question, a Answer) bool {
	return q.CorrectBool != nil && a.Value != nil && *a.Value == *q.CorrectBool
}

// fillBlankEvaluator requires every blank to match one of its accepted answers.
type fillBlankEvaluator struct{}

func (fillBlankEvaluator) Correct(q Question, a Answer) bool {
	if len(q.Blanks) == 0 || len(a.Blanks) < len(q.Blanks) {
		return false
	}
	for i, b := range q.Blanks {
		if !blankMatches(b, a.Blanks[i]) {
			return false
		}
	}
	return true
}

// matchingEvaluator requires every premise paired with its designated response.
type matchingEvaluator struct{}

func (matchingEvaluator) Correct(q Question, a Answer) bool {
	if len(q.Pairs) == 0 {
		return false
	}
	for _, p := range q.Pairs {
		if got, ok := a.Matches[p.Premise]; !ok || got != p.Response {
			return false
		}
	}
	return true
}

// helpers

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
