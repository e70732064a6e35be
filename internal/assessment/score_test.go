package assessment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestionQuiz() Quiz {
	return Quiz{
		ID: "capitals",
		Questions: []Question{
			{ID: "q1", Type: SingleChoice, CorrectID: "paris"},
			{ID: "q2", Type: TrueFalse, CorrectBool: boolPtr(true)},
		},
	}
}

func TestCheckAnswersComplete(t *testing.T) {
	qz := Quiz{ID: "all", Questions: []Question{
		{ID: "sc", Type: SingleChoice, CorrectID: "a"},
		{ID: "mr", Type: MultipleResponse, CorrectIDs: []string{"a"}},
		{ID: "tf", Type: TrueFalse, CorrectBool: boolPtr(true)},
		{ID: "fb", Type: FillBlank, Blanks: []Blank{{Accepted: []string{"x"}}, {Accepted: []string{"y"}}}},
		{ID: "mt", Type: Matching, Pairs: []Pair{{Premise: "p1", Response: "r1"}, {Premise: "p2", Response: "r2"}}},
	}}
	full := Answers{
		"sc": {Choice: "b"},
		"mr": {Choices: []string{"b"}},
		"tf": {Value: boolPtr(false)},
		"fb": {Blanks: []string{"x", "z"}},
		"mt": {Matches: map[string]string{"p1": "r2", "p2": "r1"}},
	}

	c := CheckAnswersComplete(qz, full)
	assert.True(t, c.Complete, "wrong answers are still complete answers")
	assert.Empty(t, c.Missing)

	partial := Answers{
		"sc": {Choice: "  "},
		"mr": {},
		"fb": {Blanks: []string{"x", " "}},
		"mt": {Matches: map[string]string{"p1": "r1"}},
	}
	c = CheckAnswersComplete(qz, partial)
	assert.False(t, c.Complete)
	assert.Equal(t, []string{"sc", "mr", "tf", "fb", "mt"}, c.Missing)
}

func TestScore_Scenario(t *testing.T) {
	qz := twoQuestionQuiz()
	evals := []Evaluation{
		{QuestionID: "q1", Correct: true, PointsEarned: 1},
		{QuestionID: "q2", Correct: false},
	}

	res := Score(qz, evals, time.Unix(0, 0))
	assert.Equal(t, 1.0, res.Raw)
	assert.Equal(t, 2.0, res.Max)
	assert.Equal(t, 0.5, res.Scaled)
	assert.False(t, res.Passed, "default threshold is 0.8")

	qz.PassingScore = floatPtr(0.5)
	res = Score(qz, evals, time.Unix(0, 0))
	assert.True(t, res.Passed)
}

func TestScore_ClampsPathologicalWeights(t *testing.T) {
	qz := twoQuestionQuiz()
	qz.Questions[0].Weight = floatPtr(5)
	evals := []Evaluation{{QuestionID: "q1", PointsEarned: 1}, {QuestionID: "q2", PointsEarned: 1}}

	res := Score(qz, evals, time.Now())
	assert.Equal(t, 6.0, res.Raw)
	assert.Equal(t, 2.0, res.Max)
	assert.Equal(t, 1.0, res.Scaled)

	qz.Questions[0].Weight = floatPtr(-10)
	res = Score(qz, evals, time.Now())
	assert.Equal(t, 0.0, res.Scaled)
}

func TestScore_EmptyQuizAndMissingEvaluations(t *testing.T) {
	res := Score(Quiz{ID: "empty"}, nil, time.Now())
	assert.Zero(t, res.Scaled)
	assert.False(t, res.Passed)

	res = Score(twoQuestionQuiz(), nil, time.Now())
	require.Len(t, res.Questions, 2)
	assert.Zero(t, res.Raw)
}

func TestThreshold(t *testing.T) {
	qz := Quiz{}
	assert.Equal(t, DefaultPassingScore, qz.Threshold())

	qz.PassingScore = floatPtr(math.NaN())
	assert.Equal(t, DefaultPassingScore, qz.Threshold())

	qz.PassingScore = floatPtr(0)
	assert.Equal(t, 0.0, qz.Threshold())
}

func TestClamp01(t *testing.T) {
	for _, v := range []float64{-1, 0, 0.3, 1, 7, math.Inf(1), math.Inf(-1), math.NaN()} {
		got := clamp01(v)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestIncompleteError(t *testing.T) {
	err := error(&IncompleteError{Missing: []string{"q1", "q3"}})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "q1, q3")
}
