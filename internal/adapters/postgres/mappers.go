package postgres

import (
	"github.com/viralforge/profiles-service/internal/domain"
)

func toProfileModel(d domain.ProfileDraft) profileModel {
	return profileModel{
		FullName:        d.FullName,
		Email:           d.Email,
		Mobile:          d.Mobile,
		Address:         d.Address,
		AcademicDetails: jsonDocument(d.AcademicDetails),
		Experience:      jsonDocument(d.Experience),
		Skills:          jsonStrings(d.Skills),
		Projects:        jsonDocument(d.Projects),
		Social:          jsonDocument(d.Social),
		Resume:          d.Resume,
	}
}

func toDomainProfile(m profileModel) domain.Profile {
	skills := []string(m.Skills)
	if skills == nil {
		skills = []string{}
	}
	return domain.Profile{
		ID:              m.ProfileID.String(),
		FullName:        m.FullName,
		Email:           m.Email,
		Mobile:          m.Mobile,
		Address:         m.Address,
		AcademicDetails: toDocument(m.AcademicDetails),
		Experience:      toDocument(m.Experience),
		Skills:          skills,
		Projects:        toDocument(m.Projects),
		Social:          toDocument(m.Social),
		Resume:          m.Resume,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func toDocument(d jsonDocument) domain.Document {
	if d == nil {
		return domain.Document{}
	}
	return domain.Document(d)
}
