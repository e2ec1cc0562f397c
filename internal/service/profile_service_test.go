package service

import (
	"context"
	"testing"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProfileFields_Apply(t *testing.T) {
	t.Parallel()

	p := &models.Profile{
		Company: "Old Co",
		Bio:     "keep me",
		Skills:  datatypes.JSONSlice[string]{"cobol"},
		Social:  models.SocialLinks{Youtube: "https://youtube.com/old", Twitter: "https://twitter.com/old"},
	}
	ProfileFields{
		Company: "New Co",
		Status:  "Developer",
		Skills:  "html, css,, js ,html",
		Twitter: "https://twitter.com/new",
	}.Apply(p)

	assert.Equal(t, "New Co", p.Company)
	assert.Equal(t, "keep me", p.Bio)
	assert.Equal(t, "Developer", p.Status)
	assert.Equal(t, []string{"html", "css", "js", "html"}, []string(p.Skills))
	assert.Equal(t, models.SocialLinks{Twitter: "https://twitter.com/new"}, p.Social)
}

func TestSplitSkills(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"html", "css", "js"}, []string(splitSkills("html, css, js")))
	assert.Empty(t, splitSkills(" , ,"))
}

func TestProfileService_GetMessages(t *testing.T) {
	t.Parallel()
	svc := NewProfileService(noopProfileRepo(), noopUserRepo(), 3)

	_, err := svc.GetMine(context.Background(), 1)
	assertNotFound(t, err, "There is no profile for this user")

	_, err = svc.GetByUser(context.Background(), 1)
	assertNotFound(t, err, "Profile not found")
}

func TestProfileService_Upsert(t *testing.T) {
	t.Parallel()

	t.Run("creates on first submission", func(t *testing.T) {
		t.Parallel()
		var stored *models.Profile
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.Profile, error) {
			if stored == nil {
				return nil, models.NewNotFoundError("Profile not found")
			}
			return stored, nil
		}
		repo.createFn = func(_ context.Context, p *models.Profile) error {
			stored = p
			return nil
		}

		profile, err := NewProfileService(repo, noopUserRepo(), 3).Upsert(context.Background(), 4,
			ProfileFields{Status: "Student", Skills: "go"})
		require.NoError(t, err)
		assert.Equal(t, uint(4), profile.UserID)
		assert.Equal(t, "Student", profile.Status)
	})

	t.Run("updates existing in place", func(t *testing.T) {
		t.Parallel()
		writes := 0
		existing := &models.Profile{ID: 1, UserID: 4, Status: "Student", Location: "Paris", Version: 2}
		svc := NewProfileService(storedProfile(existing, &writes), noopUserRepo(), 3)

		profile, err := svc.Upsert(context.Background(), 4, ProfileFields{Status: "Developer", Skills: "go, sql"})
		require.NoError(t, err)
		assert.Equal(t, 1, writes)
		assert.Equal(t, "Developer", profile.Status)
		assert.Equal(t, "Paris", profile.Location)
		assert.Equal(t, []string{"go", "sql"}, []string(profile.Skills))
	})

	t.Run("concurrent create falls back to update", func(t *testing.T) {
		t.Parallel()
		var stored *models.Profile
		updated := false
		repo := noopProfileRepo()
		repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.Profile, error) {
			if stored == nil {
				return nil, models.NewNotFoundError("Profile not found")
			}
			return stored, nil
		}
		repo.createFn = func(_ context.Context, _ *models.Profile) error {
			stored = &models.Profile{ID: 1, UserID: 4, Status: "Other writer", Version: 1}
			return repository.ErrStaleVersion
		}
		repo.updateFn = func(_ context.Context, p *models.Profile) error {
			updated = true
			stored = p
			return nil
		}

		profile, err := NewProfileService(repo, noopUserRepo(), 3).Upsert(context.Background(), 4,
			ProfileFields{Status: "Developer", Skills: "go"})
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, "Developer", profile.Status)
	})
}

func TestProfileService_Experience(t *testing.T) {
	t.Parallel()

	writes := 0
	stored := &models.Profile{ID: 1, UserID: 4, Status: "Developer"}
	svc := NewProfileService(storedProfile(stored, &writes), noopUserRepo(), 3)
	ctx := context.Background()

	_, err := svc.AddExperience(ctx, 4, ExperienceInput{Title: "A", Company: "ACME", From: "2018-01-01", To: "2019-01-01"})
	require.NoError(t, err)
	profile, err := svc.AddExperience(ctx, 4, ExperienceInput{Title: "B", Company: "Initech", From: "2019-02-01", To: "2020-01-01", Current: true})
	require.NoError(t, err)

	require.Len(t, profile.Experience, 2)
	assert.Equal(t, "B", profile.Experience[0].Title)
	assert.Equal(t, "A", profile.Experience[1].Title)
	assert.Nil(t, profile.Experience[0].To, "current entries drop their end date")
	require.NotNil(t, profile.Experience[1].To)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), *profile.Experience[1].To)

	newest := profile.Experience[0].ID
	_, err = svc.RemoveExperience(ctx, 4, "does-not-exist")
	assertNotFound(t, err, "Experience not found")
	assert.Equal(t, 2, writes)

	profile, err = svc.RemoveExperience(ctx, 4, newest)
	require.NoError(t, err)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "A", profile.Experience[0].Title)

	_, err = svc.AddExperience(ctx, 99, ExperienceInput{Title: "C", Company: "X", From: "2020-01-01"})
	assertNotFound(t, err, "There is no profile for this user")
}

func TestProfileService_ExperienceDates(t *testing.T) {
	t.Parallel()
	svc := NewProfileService(noopProfileRepo(), noopUserRepo(), 3)

	_, err := svc.AddExperience(context.Background(), 4, ExperienceInput{Title: "A", Company: "B", From: "yesterday"})
	assertValidationError(t, err)

	_, err = svc.AddExperience(context.Background(), 4, ExperienceInput{Title: "A", Company: "B", From: "2020-01-01", To: "2019-01-01"})
	assertValidationError(t, err)
}

func TestProfileService_Education(t *testing.T) {
	t.Parallel()

	writes := 0
	stored := &models.Profile{ID: 1, UserID: 4, Status: "Developer", Education: datatypes.JSONSlice[models.Education]{
		{ID: "e-old", School: "Old School"},
	}}
	svc := NewProfileService(storedProfile(stored, &writes), noopUserRepo(), 3)
	ctx := context.Background()

	profile, err := svc.AddEducation(ctx, 4, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
	require.NoError(t, err)
	require.Len(t, profile.Education, 2)
	assert.Equal(t, "MIT", profile.Education[0].School)
	assert.Equal(t, "e-old", profile.Education[1].ID)

	profile, err = svc.RemoveEducation(ctx, 4, "e-old")
	require.NoError(t, err)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "MIT", profile.Education[0].School)

	_, err = svc.RemoveEducation(ctx, 4, "e-old")
	assertNotFound(t, err, "Education not found")
}

func TestProfileService_StaleWriteGivesUp(t *testing.T) {
	t.Parallel()
	attempts := 0
	repo := noopProfileRepo()
	repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		return &models.Profile{ID: 1, UserID: 4}, nil
	}
	repo.updateFn = func(_ context.Context, _ *models.Profile) error {
		attempts++
		return repository.ErrStaleVersion
	}

	_, err := NewProfileService(repo, noopUserRepo(), 2).AddEducation(context.Background(), 4,
		EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
	assertConflict(t, err, "Resource was modified concurrently, please retry")
	assert.Equal(t, 2, attempts)
}

func TestProfileService_DeleteAccount(t *testing.T) {
	t.Parallel()
	var deleted uint
	users := noopUserRepo()
	users.deleteCascadeFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	require.NoError(t, NewProfileService(noopProfileRepo(), users, 3).DeleteAccount(context.Background(), 4))
	assert.Equal(t, uint(4), deleted)
}

func TestListEditHelpers(t *testing.T) {
	t.Parallel()

	orig := []int{2, 3}
	got := prepend(orig, 1)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, []int{2, 3}, orig)

	orig = []int{1, 2, 3, 4}
	got = removeAt(orig, 1)
	assert.Equal(t, []int{1, 3, 4}, got)
	assert.Equal(t, []int{1, 2, 3, 4}, orig)
}
