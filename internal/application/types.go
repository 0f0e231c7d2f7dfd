package application

import (
	"time"

	"github.com/viralforge/profiles-service/internal/domain"
)

type Config struct {
	ServiceName     string
	ProfileCacheTTL time.Duration
}

// ProfileInput is the create-profile request body. Email is accepted for
// compatibility with existing clients but is always replaced by the
// resolved identity.
type ProfileInput struct {
	FullName        string          `json:"fullname"`
	Email           string          `json:"email,omitempty"`
	Mobile          string          `json:"mobile"`
	Address         string          `json:"address"`
	AcademicDetails domain.Document `json:"academicDetails"`
	Experience      domain.Document `json:"experience"`
	Skills          []string        `json:"skills"`
	Projects        domain.Document `json:"projects"`
	Social          domain.Document `json:"social"`
	Resume          string          `json:"resume"`
}

func (in ProfileInput) draft(email string) domain.ProfileDraft {
	return domain.ProfileDraft{
		FullName:        in.FullName,
		Email:           email,
		Mobile:          in.Mobile,
		Address:         in.Address,
		AcademicDetails: in.AcademicDetails,
		Experience:      in.Experience,
		Skills:          in.Skills,
		Projects:        in.Projects,
		Social:          in.Social,
		Resume:          in.Resume,
	}
}

// UpdateProfileRequest carries a partial update; nil fields keep their
// stored value.
type UpdateProfileRequest struct {
	FullName        *string          `json:"fullname,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Mobile          *string          `json:"mobile,omitempty"`
	Address         *string          `json:"address,omitempty"`
	AcademicDetails *domain.Document `json:"academicDetails,omitempty"`
	Experience      *domain.Document `json:"experience,omitempty"`
	Skills          *[]string        `json:"skills,omitempty"`
	Projects        *domain.Document `json:"projects,omitempty"`
	Social          *domain.Document `json:"social,omitempty"`
	Resume          *string          `json:"resume,omitempty"`
}

func (req UpdateProfileRequest) apply(d domain.ProfileDraft) domain.ProfileDraft {
	if req.FullName != nil {
		d.FullName = *req.FullName
	}
	if req.Mobile != nil {
		d.Mobile = *req.Mobile
	}
	if req.Address != nil {
		d.Address = *req.Address
	}
	if req.AcademicDetails != nil {
		d.AcademicDetails = *req.AcademicDetails
	}
	if req.Experience != nil {
		d.Experience = *req.Experience
	}
	if req.Skills != nil {
		d.Skills = *req.Skills
	}
	if req.Projects != nil {
		d.Projects = *req.Projects
	}
	if req.Social != nil {
		d.Social = *req.Social
	}
	if req.Resume != nil {
		d.Resume = *req.Resume
	}
	return d
}

type ProfileResponse struct {
	ID              string          `json:"_id"`
	FullName        string          `json:"fullname"`
	Email           string          `json:"email"`
	Mobile          string          `json:"mobile"`
	Address         string          `json:"address"`
	AcademicDetails domain.Document `json:"academicDetails"`
	Experience      domain.Document `json:"experience"`
	Skills          []string        `json:"skills"`
	Projects        domain.Document `json:"projects"`
	Social          domain.Document `json:"social"`
	Resume          string          `json:"resume"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type ProfileResult struct {
	Message string          `json:"message"`
	Profile ProfileResponse `json:"profile"`
}

func toProfileResponse(p domain.Profile) ProfileResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		ID:              p.ID,
		FullName:        p.FullName,
		Email:           p.Email,
		Mobile:          p.Mobile,
		Address:         p.Address,
		AcademicDetails: orEmpty(p.AcademicDetails),
		Experience:      orEmpty(p.Experience),
		Skills:          skills,
		Projects:        orEmpty(p.Projects),
		Social:          orEmpty(p.Social),
		Resume:          p.Resume,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r ProfileResponse) toDomain() domain.Profile {
	return domain.Profile{
		ID:              r.ID,
		FullName:        r.FullName,
		Email:           r.Email,
		Mobile:          r.Mobile,
		Address:         r.Address,
		AcademicDetails: r.AcademicDetails,
		Experience:      r.Experience,
		Skills:          r.Skills,
		Projects:        r.Projects,
		Social:          r.Social,
		Resume:          r.Resume,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func orEmpty(d domain.Document) domain.Document {
	if d == nil {
		return domain.Document{}
	}
	return d
}
