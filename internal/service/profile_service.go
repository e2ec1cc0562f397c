package service

import (
	"context"
	"slices"

	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/repository"

	"github.com/google/uuid"
)

// ProfileService owns profile reads and every edit of a profile, including
// its experience and education lists.
type ProfileService struct {
	profiles    repository.ProfileRepository
	users       repository.UserRepository
	maxAttempts int
}

func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, maxAttempts int) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		users:       users,
		maxAttempts: maxAttempts,
	}
}

func (s *ProfileService) GetMine(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, withNotFound(err, "There is no profile for this user")
	}
	return profile, nil
}

func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, withNotFound(err, "Profile not found")
	}
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	return s.profiles.List(ctx)
}

// Upsert creates the user's profile on first submission and updates it in
// place afterwards.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, fields ProfileFields) (*models.Profile, error) {
	err := mutate(ctx, kindProfile, opUpsert, s.maxAttempts, func(ctx context.Context) error {
		profile, err := s.profiles.GetByUserID(ctx, userID)
		switch {
		case err == nil:
			fields.Apply(profile)
			return s.profiles.Update(ctx, profile)
		case models.HasCode(err, models.CodeNotFound):
			profile = &models.Profile{UserID: userID}
			fields.Apply(profile)
			return s.profiles.Create(ctx, profile)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return s.profiles.GetByUserID(ctx, userID)
}

// editProfile loads the user's profile, lets edit change it and writes it
// back, retrying on stale writes.
func (s *ProfileService) editProfile(ctx context.Context, userID uint, kind, op string, edit func(*models.Profile) error) (*models.Profile, error) {
	var out *models.Profile
	err := mutate(ctx, kind, op, s.maxAttempts, func(ctx context.Context) error {
		profile, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			return withNotFound(err, "There is no profile for this user")
		}
		if err := edit(profile); err != nil {
			return err
		}
		if err := s.profiles.Update(ctx, profile); err != nil {
			return err
		}
		out = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddExperience prepends a new experience entry and returns the profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (*models.Profile, error) {
	entry, err := in.entry(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return s.editProfile(ctx, userID, kindExperience, opAppend, func(p *models.Profile) error {
		p.Experience = prepend(p.Experience, entry)
		return nil
	})
}

// RemoveExperience deletes the experience entry with id expID.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID uint, expID string) (*models.Profile, error) {
	return s.editProfile(ctx, userID, kindExperience, opRemove, func(p *models.Profile) error {
		i := slices.IndexFunc(p.Experience, func(e models.Experience) bool { return e.ID == expID })
		if i < 0 {
			return models.NewNotFoundError("Experience not found")
		}
		p.Experience = removeAt(p.Experience, i)
		return nil
	})
}

// AddEducation prepends a new education entry and returns the profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in EducationInput) (*models.Profile, error) {
	entry, err := in.entry(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return s.editProfile(ctx, userID, kindEducation, opAppend, func(p *models.Profile) error {
		p.Education = prepend(p.Education, entry)
		return nil
	})
}

// RemoveEducation deletes the education entry with id eduID.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID uint, eduID string) (*models.Profile, error) {
	return s.editProfile(ctx, userID, kindEducation, opRemove, func(p *models.Profile) error {
		i := slices.IndexFunc(p.Education, func(e models.Education) bool { return e.ID == eduID })
		if i < 0 {
			return models.NewNotFoundError("Education not found")
		}
		p.Education = removeAt(p.Education, i)
		return nil
	})
}

// DeleteAccount removes the user's posts, profile and user record together.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	return mutate(ctx, kindAccount, opDelete, 1, func(ctx context.Context) error {
		return s.users.DeleteCascade(ctx, userID)
	})
}
