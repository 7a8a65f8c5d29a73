package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrFetch           = errors.New("could not load evaluations")
	ErrNoPendingDrafts = errors.New("no pending evaluations to submit")
	ErrUnknownSubject  = errors.New("subject is not a known member")
)

// DefaultCriteria are the aspects every evaluation must rate.
var DefaultCriteria = []string{"proatividade", "comunicacao", "tecnico", "equipe", "entregas"}

const (
	DefaultMinScore = 1
	DefaultMaxScore = 5
)

// Ratings maps a criterion key to its score.
type Ratings map[string]int

// Score is the arithmetic mean of all ratings, 0 when there are none.
func (r Ratings) Score() float64 {
	if len(r) == 0 {
		return 0
	}
	sum := 0
	for _, v := range r {
		sum += v
	}
	return float64(sum) / float64(len(r))
}

// Rubric is the set of criteria and the closed score range that make a
// record submittable.
type Rubric struct {
	Criteria []string
	Min      int
	Max      int
}

// DefaultRubric returns the five-aspect 1–5 rubric.
func DefaultRubric() Rubric {
	criteria := make([]string, len(DefaultCriteria))
	copy(criteria, DefaultCriteria)
	return Rubric{Criteria: criteria, Min: DefaultMinScore, Max: DefaultMaxScore}
}

// FieldError names one missing or invalid field of a submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any storage call when a submission is
// incomplete. It lists every offending field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// InsertError wraps a storage write failure. The storage message is kept
// verbatim so it can be shown to the user, who keeps the unsaved input.
type InsertError struct {
	Cause error
}

func (e *InsertError) Error() string {
	return "insert evaluations: " + e.Cause.Error()
}

func (e *InsertError) Unwrap() error { return e.Cause }

// Draft is a not-yet-submitted evaluation of one subject.
type Draft struct {
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Ratings     Ratings   `json:"ratings"`
	Comment     string    `json:"comment"`
	Highlight   bool      `json:"highlight"`
	SavedAt     time.Time `json:"saved_at"`
}

// Equal reports whether o is the same saved draft, ratings included.
func (d Draft) Equal(o Draft) bool {
	if d.SubjectID != o.SubjectID || d.SubjectName != o.SubjectName || d.Comment != o.Comment ||
		d.Highlight != o.Highlight || !d.SavedAt.Equal(o.SavedAt) || len(d.Ratings) != len(o.Ratings) {
		return false
	}
	for c, v := range d.Ratings {
		if w, ok := o.Ratings[c]; !ok || w != v {
			return false
		}
	}
	return true
}

// Validate checks that the draft names a subject and that every rubric
// criterion is scored within range. Unknown criteria are rejected too.
func (r Rubric) Validate(submitterID string, d Draft) error {
	ve := &ValidationError{}
	if strings.TrimSpace(submitterID) == "" {
		ve.add("submitter_id", "is required")
	}
	if strings.TrimSpace(d.SubjectName) == "" {
		ve.add("subject_name", "is required")
	}

	known := make(map[string]struct{}, len(r.Criteria))
	for _, c := range r.Criteria {
		known[c] = struct{}{}
		score, ok := d.Ratings[c]
		switch {
		case !ok:
			ve.add("ratings."+c, "is required")
		case score < r.Min || score > r.Max:
			ve.add("ratings."+c, fmt.Sprintf("must be between %d and %d", r.Min, r.Max))
		}
	}

	extra := make([]string, 0)
	for c := range d.Ratings {
		if _, ok := known[c]; !ok {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		ve.add("ratings."+c, "is not a rubric criterion")
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// ValidateDraft checks what a draft must carry to be saved: a stable subject
// id, a subject name and in-range scores for known criteria. Coverage of
// every criterion is only required at submit time.
func (r Rubric) ValidateDraft(d Draft) error {
	ve := &ValidationError{}
	if strings.TrimSpace(d.SubjectID) == "" {
		ve.add("subject_id", "is required")
	}
	if strings.TrimSpace(d.SubjectName) == "" {
		ve.add("subject_name", "is required")
	}

	known := make(map[string]struct{}, len(r.Criteria))
	for _, c := range r.Criteria {
		known[c] = struct{}{}
	}
	keys := make([]string, 0, len(d.Ratings))
	for c := range d.Ratings {
		keys = append(keys, c)
	}
	sort.Strings(keys)
	for _, c := range keys {
		score := d.Ratings[c]
		if _, ok := known[c]; !ok {
			ve.add("ratings."+c, "is not a rubric criterion")
			continue
		}
		if score < r.Min || score > r.Max {
			ve.add("ratings."+c, fmt.Sprintf("must be between %d and %d", r.Min, r.Max))
		}
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Evaluation is one persisted rating submission. Records are append-only.
type Evaluation struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id,omitempty"`
	SubmitterID   string    `json:"submitter_id"`
	SubmitterName string    `json:"submitter_name"`
	SubjectID     string    `json:"subject_id,omitempty"`
	SubjectName   string    `json:"subject_name"`
	Period        time.Time `json:"period"`
	Ratings       Ratings   `json:"ratings"`
	Comment       string    `json:"comment"`
	Highlight     bool      `json:"highlight"`
	CreatedAt     time.Time `json:"created_at"`
}

// Score is the mean of the record's ratings.
func (e Evaluation) Score() float64 {
	return e.Ratings.Score()
}

// PeriodOf truncates t to its UTC calendar day.
func PeriodOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
