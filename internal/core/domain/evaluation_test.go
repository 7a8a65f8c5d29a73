package domain

import (
	"errors"
	"testing"
	"time"
)

func fullRatings() Ratings {
	return Ratings{"proatividade": 5, "comunicacao": 4, "tecnico": 3, "equipe": 5, "entregas": 4}
}

func TestRubric_Validate_Complete(t *testing.T) {
	err := DefaultRubric().Validate("dir_ana", Draft{SubjectName: "João", Ratings: fullRatings()})
	if err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestRubric_Validate_MissingCriterion(t *testing.T) {
	r := fullRatings()
	delete(r, "tecnico")

	err := DefaultRubric().Validate("dir_ana", Draft{SubjectName: "João", Ratings: r})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0].Field != "ratings.tecnico" {
		t.Fatalf("unexpected fields: %+v", ve.Fields)
	}
}

func TestRubric_Validate_OutOfRange(t *testing.T) {
	r := fullRatings()
	r["equipe"] = 6
	r["entregas"] = 0

	err := DefaultRubric().Validate("dir_ana", Draft{SubjectName: "João", Ratings: r})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("expected 2 invalid fields, got %+v", ve.Fields)
	}
}

func TestRubric_Validate_MissingIdentityAndSubject(t *testing.T) {
	err := DefaultRubric().Validate("", Draft{Ratings: fullRatings()})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	got := map[string]bool{}
	for _, f := range ve.Fields {
		got[f.Field] = true
	}
	if !got["submitter_id"] || !got["subject_name"] {
		t.Fatalf("expected submitter_id and subject_name, got %+v", ve.Fields)
	}
}

func TestRubric_Validate_UnknownCriterion(t *testing.T) {
	r := fullRatings()
	r["pontualidade"] = 3

	err := DefaultRubric().Validate("dir_ana", Draft{SubjectName: "João", Ratings: r})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields[0].Field != "ratings.pontualidade" {
		t.Fatalf("expected unknown criterion to be rejected, got %v", err)
	}
}

func TestRatings_Score(t *testing.T) {
	if got := fullRatings().Score(); got != 4.2 {
		t.Fatalf("expected 4.2, got %v", got)
	}
	if got := (Ratings{}).Score(); got != 0 {
		t.Fatalf("expected 0 for empty ratings, got %v", got)
	}
}

func TestInsertError_KeepsMessage(t *testing.T) {
	cause := errors.New(`duplicate key value violates unique constraint "evaluations_pkey"`)
	err := &InsertError{Cause: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected InsertError to unwrap to its cause")
	}
	if err.Error() != "insert evaluations: "+cause.Error() {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestPeriodOf(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	in := time.Date(2026, 3, 9, 23, 30, 0, 0, loc) // 02:30 UTC on the 10th
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if got := PeriodOf(in); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
