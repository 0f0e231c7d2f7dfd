package domain

import (
	"errors"
	"testing"
)

func validDraft() ProfileDraft {
	return ProfileDraft{
		FullName: "  Ada Lovelace ",
		Email:    " Ada@Example.COM ",
		Mobile:   "0123456789",
		Address:  "12 St James's Square",
		Resume:   "https://example.com/ada.pdf",
		Skills:   []string{" analysis ", "", "engines"},
	}
}

func TestValidateDraftNormalizes(t *testing.T) {
	t.Parallel()

	got, err := ValidateDraft(validDraft())
	if err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Fatalf("expected lower-cased trimmed email, got %q", got.Email)
	}
	if got.FullName != "Ada Lovelace" {
		t.Fatalf("expected trimmed fullname, got %q", got.FullName)
	}
	if len(got.Skills) != 2 || got.Skills[0] != "analysis" {
		t.Fatalf("expected trimmed non-empty skills, got %v", got.Skills)
	}
	if got.AcademicDetails == nil || got.Experience == nil || got.Projects == nil || got.Social == nil {
		t.Fatalf("expected empty documents for omitted sections")
	}
}

func TestValidateDraftRejectsShortMobile(t *testing.T) {
	t.Parallel()

	d := validDraft()
	d.Mobile = "12345"
	_, err := ValidateDraft(d)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "mobile" {
		t.Fatalf("expected only mobile to fail, got %+v", verr.Fields)
	}
}

func TestValidateDraftRejectsEmailWithoutAt(t *testing.T) {
	t.Parallel()

	d := validDraft()
	d.Email = "ada.example.com"
	_, err := ValidateDraft(d)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "email" {
		t.Fatalf("expected email validation error, got %v", err)
	}
}

func TestValidateDraftReportsEveryMissingField(t *testing.T) {
	t.Parallel()

	_, err := ValidateDraft(ProfileDraft{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []string{"fullname", "email", "mobile", "address", "resume"}
	if len(verr.Fields) != len(want) {
		t.Fatalf("expected %d field errors, got %+v", len(want), verr.Fields)
	}
	for i, field := range want {
		if verr.Fields[i].Field != field || verr.Fields[i].Reason != "is required" {
			t.Fatalf("field %d: expected %s required, got %+v", i, field, verr.Fields[i])
		}
	}
}

func TestValidateDraftRejectsNonDigitMobile(t *testing.T) {
	t.Parallel()

	d := validDraft()
	d.Mobile = "01234abcde"
	if _, err := ValidateDraft(d); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
