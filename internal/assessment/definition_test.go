package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizJSON = `{
  "id": "geo-1",
  "title": "Geography",
  "passing_score": 0.5,
  "questions": [
    {"id": "q1", "type": "single_choice", "prompt": "Capital of France?",
     "choices": [{"id": "paris", "label": "Paris"}, {"id": "lyon", "label": "Lyon"}],
     "correct_id": "paris"},
    {"id": "q2", "type": "multiple_response", "correct_ids": ["a", "b"]},
    {"id": "q3", "type": "true_false", "correct_bool": false, "weight": 2},
    {"id": "q4", "type": "fill_blank",
     "blanks": [{"accepted": ["Paris"], "trim_whitespace": false, "case_sensitive": true}]},
    {"id": "q5", "type": "matching", "pairs": [{"premise": "fr", "response": "paris"}]}
  ]
}`

const quizYAML = `
id: geo-1
passing_score: 0.5
questions:
  - id: q1
    type: single_choice
    correct_id: paris
  - id: q4
    type: fill_blank
    blanks:
      - accepted: [Paris, Lutetia]
`

func TestDecodeJSON(t *testing.T) {
	qz, err := DecodeJSON([]byte(quizJSON))
	require.NoError(t, err)

	assert.Equal(t, "geo-1", qz.ID)
	require.Len(t, qz.Questions, 5)
	assert.Equal(t, 0.5, qz.Threshold())
	assert.Equal(t, "paris", qz.Questions[0].CorrectID)
	require.NotNil(t, qz.Questions[2].CorrectBool)
	assert.False(t, *qz.Questions[2].CorrectBool)
	assert.Equal(t, 2.0, qz.Questions[2].weight())
	assert.False(t, qz.Questions[3].Blanks[0].Trim())
	assert.True(t, qz.Questions[3].Blanks[0].CaseSensitive)
}

func TestDecodeYAML(t *testing.T) {
	qz, err := DecodeYAML([]byte(quizYAML))
	require.NoError(t, err)
	require.Len(t, qz.Questions, 2)
	assert.True(t, qz.Questions[1].Blanks[0].Trim())
	assert.Equal(t, []string{"Paris", "Lutetia"}, qz.Questions[1].Blanks[0].Accepted)
}

func TestDecode_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":           `{`,
		"no questions":       `{"id":"x","questions":[]}`,
		"unknown type":       `{"id":"x","questions":[{"id":"q","type":"essay"}]}`,
		"missing correct":    `{"id":"x","questions":[{"id":"q","type":"single_choice"}]}`,
		"score out of range": `{"id":"x","passing_score":1.5,"questions":[{"id":"q","type":"true_false","correct_bool":true}]}`,
		"duplicate ids": `{"id":"x","questions":[
			{"id":"q","type":"true_false","correct_bool":true},
			{"id":"q","type":"true_false","correct_bool":false}]}`,
		"duplicate premise": `{"id":"x","questions":[{"id":"q","type":"matching","pairs":[
			{"premise":"a","response":"1"},{"premise":"a","response":"2"}]}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidQuiz)
		})
	}
}

func TestDecodeAnswers(t *testing.T) {
	a, err := DecodeAnswers([]byte(`{
		"q1": {"choice": "paris"},
		"q3": {"value": false},
		"q4": {"blanks": ["  Paris  "]},
		"q5": {"matches": {"fr": "paris"}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "paris", a["q1"].Choice)
	require.NotNil(t, a["q3"].Value)
	assert.False(t, *a["q3"].Value)
	assert.Equal(t, "paris", a["q5"].Matches["fr"])

	y, err := DecodeAnswersYAML([]byte("q1:\n  choice: paris\nq3:\n  value: true\n"))
	require.NoError(t, err)
	assert.True(t, *y["q3"].Value)

	_, err = DecodeAnswers([]byte(`[`))
	assert.Error(t, err)
}

func TestValidate_Direct(t *testing.T) {
	assert.ErrorIs(t, Quiz{}.Validate(), ErrInvalidQuiz)
	err := Quiz{ID: "x", Questions: []Question{{ID: "q", Type: "essay"}}}.Validate()
	assert.ErrorIs(t, err, ErrUnknownQuestionType)
	err = Quiz{ID: "x", Questions: []Question{{ID: "q", Type: FillBlank, Blanks: []Blank{{}}}}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidQuiz)
}
