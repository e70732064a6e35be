package assessment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuiz         = errors.New("invalid quiz")
	ErrUnknownQuestionType = errors.New("unknown question type")
)

// Validate checks structural rules JSON Schema cannot express: unique ids
// and a correct-answer payload that fits each question type.
func (qz Quiz) Validate() error {
	if qz.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuiz)
	}
	if len(qz.Questions) == 0 {
		return fmt.Errorf("%w: quiz %s has no questions", ErrInvalidQuiz, qz.ID)
	}
	seen := make(map[string]struct{}, len(qz.Questions))
	for i, q := range qz.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidQuiz, i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := q.validate(); err != nil {
			return fmt.Errorf("%w: question %q: %w", ErrInvalidQuiz, q.ID, err)
		}
	}
	return nil
}

func (q Question) validate() error {
	switch q.Type {
	case SingleChoice:
		if q.CorrectID == "" {
			return errors.New("correct_id required")
		}
	case MultipleResponse:
		if len(q.CorrectIDs) == 0 {
			return errors.New("correct_ids required")
		}
	case TrueFalse:
		if q.CorrectBool == nil {
			return errors.New("correct_bool required")
		}
	case FillBlank:
		if len(q.Blanks) == 0 {
			return errors.New("blanks required")
		}
		for i, b := range q.Blanks {
			if len(b.Accepted) == 0 {
				return fmt.Errorf("blank %d has no accepted answers", i)
			}
		}
	case Matching:
		if len(q.Pairs) == 0 {
			return errors.New("pairs required")
		}
		premises := make(map[string]struct{}, len(q.Pairs))
		for _, p := range q.Pairs {
			if p.Premise == "" || p.Response == "" {
				return errors.New("pair needs premise and response")
			}
			if _, dup := premises[p.Premise]; dup {
				return fmt.Errorf("premise %q paired twice", p.Premise)
			}
			premises[p.Premise] = struct{}{}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQuestionType, q.Type)
	}
	return nil
}
