package domain

import "time"

// Document is a free-form structured value (academic details, experience,
// projects, social). Keys are strings; values are any JSON-compatible value.
// A nil Document is stored as an empty object.
type Document map[string]any

type Profile struct {
	ID              string
	FullName        string
	Email           string
	Mobile          string
	Address         string
	AcademicDetails Document
	Experience      Document
	Skills          []string
	Projects        Document
	Social          Document
	Resume          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileDraft is an unpersisted candidate profile. Email always comes from
// the identity resolver, never from the request body.
type ProfileDraft struct {
	FullName        string
	Email           string
	Mobile          string
	Address         string
	AcademicDetails Document
	Experience      Document
	Skills          []string
	Projects        Document
	Social          Document
	Resume          string
}

// Draft returns the mutable fields of an existing profile as a draft.
func (p Profile) Draft() ProfileDraft {
	return ProfileDraft{
		FullName:        p.FullName,
		Email:           p.Email,
		Mobile:          p.Mobile,
		Address:         p.Address,
		AcademicDetails: p.AcademicDetails,
		Experience:      p.Experience,
		Skills:          p.Skills,
		Projects:        p.Projects,
		Social:          p.Social,
		Resume:          p.Resume,
	}
}

// UserIdentity is what the Users service knows about a subject.
type UserIdentity struct {
	Subject string
	Email   string
}
