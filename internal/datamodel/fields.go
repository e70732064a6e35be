package datamodel

// Version identifies the data-model generation a handle speaks.
type Version string

const (
	Version2004 Version = "2004" // current generation, exposed as API_1484_11
	Version12   Version = "1.2"  // legacy generation, exposed as API
)

// Field is the closed set of data-model fields the runtime reads or writes.
// Names are resolved per Version so callers never spell raw element paths.
type Field int

const (
	FieldScoreRaw Field = iota + 1
	FieldScoreMax
	FieldScoreScaled
	FieldSuccessStatus
	FieldCompletionStatus
	FieldLearnerID
)

// ResultFields are written, in this order, on every accepted quiz submission.
var ResultFields = []Field{
	FieldScoreRaw,
	FieldScoreMax,
	FieldScoreScaled,
	FieldSuccessStatus,
	FieldCompletionStatus,
}

// Status vocabulary shared by success and completion fields.
const (
	StatusPassed     = "passed"
	StatusFailed     = "failed"
	StatusCompleted  = "completed"
	StatusIncomplete = "incomplete"
)

var names2004 = map[Field]string{
	FieldScoreRaw:         "cmi.score.raw",
	FieldScoreMax:         "cmi.score.max",
	FieldScoreScaled:      "cmi.score.scaled",
	FieldSuccessStatus:    "cmi.success_status",
	FieldCompletionStatus: "cmi.completion_status",
	FieldLearnerID:        "cmi.learner_id",
}

// The legacy model has no scaled score and folds success and completion into
// a single lesson_status element; success owns it.
var names12 = map[Field]string{
	FieldScoreRaw:      "cmi.core.score.raw",
	FieldScoreMax:      "cmi.core.score.max",
	FieldSuccessStatus: "cmi.core.lesson_status",
	FieldLearnerID:     "cmi.core.student_id",
}

// Name returns the element path for f under v, or "" when v has no such element.
func (f Field) Name(v Version) string {
	switch v {
	case Version12:
		return names12[f]
	default:
		return names2004[f]
	}
}

func (f Field) String() string {
	if n := names2004[f]; n != "" {
		return n
	}
	return "field(unknown)"
}
