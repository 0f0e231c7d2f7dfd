package domain

import (
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`.+@.+\..+`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Normalize trims text fields, lower-cases the email and replaces nil
// documents and skills with empty values.
func (d ProfileDraft) Normalize() ProfileDraft {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = NormalizeEmail(d.Email)
	d.Mobile = strings.TrimSpace(d.Mobile)
	d.Address = strings.TrimSpace(d.Address)
	d.Resume = strings.TrimSpace(d.Resume)
	if d.AcademicDetails == nil {
		d.AcademicDetails = Document{}
	}
	if d.Experience == nil {
		d.Experience = Document{}
	}
	if d.Projects == nil {
		d.Projects = Document{}
	}
	if d.Social == nil {
		d.Social = Document{}
	}
	skills := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	d.Skills = skills
	return d
}

// ValidateDraft normalizes the draft and checks every field constraint.
// All failing fields are reported together in a *ValidationError.
func ValidateDraft(d ProfileDraft) (ProfileDraft, error) {
	d = d.Normalize()
	verr := &ValidationError{}

	if d.FullName == "" {
		verr.add("fullname", "is required")
	}
	switch {
	case d.Email == "":
		verr.add("email", "is required")
	case !emailPattern.MatchString(d.Email):
		verr.add("email", "please enter a valid email address")
	}
	switch {
	case d.Mobile == "":
		verr.add("mobile", "is required")
	case !mobilePattern.MatchString(d.Mobile):
		verr.add("mobile", "please enter a valid 10-digit mobile number")
	}
	if d.Address == "" {
		verr.add("address", "is required")
	}
	if d.Resume == "" {
		verr.add("resume", "is required")
	}

	if len(verr.Fields) > 0 {
		return d, verr
	}
	return d, nil
}
