package service

import (
	"strings"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/validation"

	"gorm.io/datatypes"
)

// ProfileFields is a create-or-update submission for a profile. Empty
// scalar fields leave the stored value alone. The social links are one
// group replaced on every submission.
type ProfileFields struct {
	Company        string `json:"company"`
	Website        string `json:"website" validate:"omitempty,url"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required" msg:"Status is required"`
	GithubUsername string `json:"githubusername"`
	// Skills is a comma-separated list.
	Skills    string `json:"skills" validate:"required" msg:"Skills is required"`
	Youtube   string `json:"youtube"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Linkedin  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// Apply writes the submitted fields onto p.
func (f ProfileFields) Apply(p *models.Profile) {
	setIfPresent(&p.Company, f.Company)
	setIfPresent(&p.Website, f.Website)
	setIfPresent(&p.Location, f.Location)
	setIfPresent(&p.Bio, f.Bio)
	setIfPresent(&p.Status, f.Status)
	setIfPresent(&p.GithubUsername, f.GithubUsername)

	if f.Skills != "" {
		p.Skills = splitSkills(f.Skills)
	}

	p.Social = models.SocialLinks{
		Youtube:   strings.TrimSpace(f.Youtube),
		Twitter:   strings.TrimSpace(f.Twitter),
		Facebook:  strings.TrimSpace(f.Facebook),
		Linkedin:  strings.TrimSpace(f.Linkedin),
		Instagram: strings.TrimSpace(f.Instagram),
	}
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// splitSkills keeps order and duplicates, dropping blank entries.
func splitSkills(s string) datatypes.JSONSlice[string] {
	skills := datatypes.JSONSlice[string]{}
	for _, skill := range strings.Split(s, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

// ExperienceInput is a submitted job entry.
type ExperienceInput struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Company     string `json:"company" validate:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is a submitted schooling entry.
type EducationInput struct {
	School       string `json:"school" validate:"required" msg:"School is required"`
	Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of study is required"`
	From         string `json:"from" validate:"required" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// period parses an entry's dates. A current entry has no end date.
func period(from, to string, current bool) (time.Time, *time.Time, error) {
	start, err := validation.ParseDate(from)
	if err != nil {
		return time.Time{}, nil, models.NewValidationError("From date is invalid")
	}
	if current || strings.TrimSpace(to) == "" {
		return start, nil, nil
	}

	end, err := validation.ParseDate(to)
	if err != nil {
		return time.Time{}, nil, models.NewValidationError("To date is invalid")
	}
	if end.Before(start) {
		return time.Time{}, nil, models.NewValidationError("To date must not be before from date")
	}
	return start, &end, nil
}

func (in ExperienceInput) entry(id string) (models.Experience, error) {
	from, to, err := period(in.From, in.To, in.Current)
	if err != nil {
		return models.Experience{}, err
	}
	return models.Experience{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}, nil
}

func (in EducationInput) entry(id string) (models.Education, error) {
	from, to, err := period(in.From, in.To, in.Current)
	if err != nil {
		return models.Education{}, err
	}
	return models.Education{
		ID:           id,
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}, nil
}
