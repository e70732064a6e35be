// Package assessment scores quizzes and reports each attempt once.
package assessment

import "time"

type QuestionType string

const (
	SingleChoice     QuestionType = "single_choice"
	MultipleResponse QuestionType = "multiple_response"
	TrueFalse        QuestionType = "true_false"
	FillBlank        QuestionType = "fill_blank"
	Matching         QuestionType = "matching"
)

// DefaultPassingScore applies when a quiz sets no passing score.
const DefaultPassingScore = 0.8

type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Blank is one gap of a fill_blank question. Matching ignores case unless
// CaseSensitive is set and trims surrounding whitespace unless TrimWhitespace
// is explicitly false.
type Blank struct {
	ID             string   `json:"id,omitempty"`
	Accepted       []string `json:"accepted"`
	CaseSensitive  bool     `json:"case_sensitive,omitempty"`
	TrimWhitespace *bool    `json:"trim_whitespace,omitempty"`
}

func (b Blank) Trim() bool { return b.TrimWhitespace == nil || *b.TrimWhitespace }

type Pair struct {
	Premise  string `json:"premise"`
	Response string `json:"response"`
}

// Question carries the correct-answer payload for its Type only:
// CorrectID (single_choice), CorrectIDs (multiple_response), CorrectBool
// (true_false), Blanks (fill_blank) or Pairs (matching).
type Question struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt,omitempty"`
	Choices []Choice     `json:"choices,omitempty"`
	Weight  *float64     `json:"weight,omitempty"`

	CorrectID   string   `json:"correct_id,omitempty"`
	CorrectIDs  []string `json:"correct_ids,omitempty"`
	CorrectBool *bool    `json:"correct_bool,omitempty"`
	Blanks      []Blank  `json:"blanks,omitempty"`
	Pairs       []Pair   `json:"pairs,omitempty"`
}

// weight defaults to 1.
func (q Question) weight() float64 {
	if q.Weight == nil {
		return 1
	}
	return *q.Weight
}

type Quiz struct {
	ID           string     `json:"id"`
	Title        string     `json:"title,omitempty"`
	Questions    []Question `json:"questions"`
	PassingScore *float64   `json:"passing_score,omitempty"`
}

// Answer is what the learner entered for one question. Only the member that
// matches the question type is read: Choice, Choices, Value, Blanks (in blank
// order) or Matches (premise -> response).
type Answer struct {
	Choice  string            `json:"choice,omitempty"`
	Choices []string          `json:"choices,omitempty"`
	Value   *bool             `json:"value,omitempty"`
	Blanks  []string          `json:"blanks,omitempty"`
	Matches map[string]string `json:"matches,omitempty"`
}

// Answers maps question id to the collected answer.
type Answers map[string]Answer

type Evaluation struct {
	QuestionID   string       `json:"question_id"`
	Type         QuestionType `json:"type"`
	Correct      bool         `json:"correct"`
	PointsEarned float64      `json:"points_earned"`
}

// AttemptResult is created once per accepted submission and never changed.
type AttemptResult struct {
	QuizID    string       `json:"quiz_id"`
	Raw       float64      `json:"raw"`
	Max       float64      `json:"max"`
	Scaled    float64      `json:"scaled"`
	Passed    bool         `json:"passed"`
	Timestamp time.Time    `json:"timestamp"`
	Questions []Evaluation `json:"questions,omitempty"`
}

func (r AttemptResult) clone() AttemptResult {
	r.Questions = append([]Evaluation(nil), r.Questions...)
	return r
}
