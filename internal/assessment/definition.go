package assessment

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed quiz.schema.json
var quizSchemaJSON []byte

const quizSchemaURL = "schema://quiz.json"

var compiledQuizSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(quizSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse quiz schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(quizSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add quiz schema: %w", err)
	}
	return c.Compile(quizSchemaURL)
})

// DecodeJSON parses a quiz definition as embedded in a page.
func DecodeJSON(data []byte) (Quiz, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Quiz{}, fmt.Errorf("%w: invalid JSON: %w", ErrInvalidQuiz, err)
	}
	sch, err := compiledQuizSchema()
	if err != nil {
		return Quiz{}, err
	}
	if err := sch.Validate(parsed); err != nil {
		return Quiz{}, fmt.Errorf("%w: %w", ErrInvalidQuiz, err)
	}
	var qz Quiz
	if err := json.Unmarshal(data, &qz); err != nil {
		return Quiz{}, fmt.Errorf("%w: %w", ErrInvalidQuiz, err)
	}
	if err := qz.Validate(); err != nil {
		return Quiz{}, err
	}
	return qz, nil
}

// DecodeYAML accepts the same document written as YAML.
func DecodeYAML(data []byte) (Quiz, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Quiz{}, fmt.Errorf("%w: invalid YAML: %w", ErrInvalidQuiz, err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return Quiz{}, fmt.Errorf("%w: %w", ErrInvalidQuiz, err)
	}
	return DecodeJSON(asJSON)
}

// DecodeAnswers parses collected answers keyed by question id.
func DecodeAnswers(data []byte) (Answers, error) {
	var a Answers
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return a, nil
}

// DecodeAnswersYAML is DecodeAnswers for YAML fixtures.
func DecodeAnswersYAML(data []byte) (Answers, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return DecodeAnswers(asJSON)
}
