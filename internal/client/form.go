package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

// FormState is the lifecycle of one evaluation form.
type FormState int

const (
	FormIdle FormState = iota
	FormLoading
	FormSuccess
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormLoading:
		return "loading"
	case FormSuccess:
		return "success"
	case FormError:
		return "error"
	default:
		return "idle"
	}
}

var ErrSubmitInFlight = errors.New("a submission is already in flight")

// EvaluationSubmitter persists one evaluation.
type EvaluationSubmitter interface {
	Submit(ctx context.Context, d domain.Draft) (*EvaluationResult, error)
}

// Form holds the fields of one evaluation being filled in. Fields are
// cleared only after the server confirms the submission.
type Form struct {
	rubric domain.Rubric
	draft  domain.Draft
	state  FormState
	err    error
}

func NewForm(rubric domain.Rubric) *Form {
	return &Form{rubric: rubric, draft: emptyDraft()}
}

func (f *Form) State() FormState { return f.state }

// Err is the last submission error, nil unless State is FormError.
func (f *Form) Err() error { return f.err }

// Draft returns a copy of the current fields.
func (f *Form) Draft() domain.Draft {
	d := f.draft
	d.Ratings = make(domain.Ratings, len(f.draft.Ratings))
	for k, v := range f.draft.Ratings {
		d.Ratings[k] = v
	}
	return d
}

// Load replaces the fields, for example with a saved draft.
func (f *Form) Load(d domain.Draft) {
	f.draft = d
	f.draft.Ratings = make(domain.Ratings, len(d.Ratings))
	for k, v := range d.Ratings {
		f.draft.Ratings[k] = v
	}
	f.state = FormIdle
	f.err = nil
}

func (f *Form) SetSubject(id, name string) {
	f.draft.SubjectID = id
	f.draft.SubjectName = name
}

// Rate sets one criterion. Unknown criteria and out-of-range scores are
// rejected immediately.
func (f *Form) Rate(criterion string, score int) error {
	known := false
	for _, c := range f.rubric.Criteria {
		if c == criterion {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%q is not a rubric criterion", criterion)
	}
	if score < f.rubric.Min || score > f.rubric.Max {
		return fmt.Errorf("%s must be between %d and %d", criterion, f.rubric.Min, f.rubric.Max)
	}
	f.draft.Ratings[criterion] = score
	return nil
}

func (f *Form) SetComment(comment string) { f.draft.Comment = comment }

func (f *Form) SetHighlight(v bool) { f.draft.Highlight = v }

// Submit validates locally, then sends the fields. An incomplete form fails
// with *domain.ValidationError without any network call. On failure every
// field is kept for retry.
func (f *Form) Submit(ctx context.Context, submitterID string, api EvaluationSubmitter) (*EvaluationResult, error) {
	if f.state == FormLoading {
		return nil, ErrSubmitInFlight
	}
	if err := f.rubric.Validate(submitterID, f.draft); err != nil {
		f.state, f.err = FormError, err
		return nil, err
	}

	f.state, f.err = FormLoading, nil
	res, err := api.Submit(ctx, f.Draft())
	if err != nil {
		f.state, f.err = FormError, err
		return nil, err
	}

	f.state = FormSuccess
	f.draft = emptyDraft()
	return res, nil
}

func emptyDraft() domain.Draft {
	return domain.Draft{Ratings: domain.Ratings{}}
}
