package repository

import (
	"context"
	"time"

	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	// Create returns ErrStaleVersion when the user gained a profile after
	// the caller looked.
	Create(ctx context.Context, profile *models.Profile) error
	// Update writes every mutable column if the stored version still equals
	// profile.Version, then advances profile.Version. A lost race returns
	// ErrStaleVersion.
	Update(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// withOwner joins the public identity fields of the profile owner.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "avatar")
	})
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()

	var profile models.Profile
	if err := withOwner(r.db.WithContext(ctx)).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err, "Profile not found")
	}
	profile.EnsureLists()
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()

	var profiles []*models.Profile
	if err := withOwner(r.db.WithContext(ctx)).Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range profiles {
		p.EnsureLists()
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("insert", "profiles")()

	if profile.Version == 0 {
		profile.Version = 1
	}
	profile.EnsureLists()

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrStaleVersion
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("update", "profiles")()

	profile.EnsureLists()
	now := time.Now()
	next := profile.Version + 1

	res := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND version = ?", profile.ID, profile.Version).
		Updates(map[string]any{
			"company":          profile.Company,
			"website":          profile.Website,
			"location":         profile.Location,
			"bio":              profile.Bio,
			"status":           profile.Status,
			"github_username":  profile.GithubUsername,
			"skills":           profile.Skills,
			"social_youtube":   profile.Social.Youtube,
			"social_twitter":   profile.Social.Twitter,
			"social_facebook":  profile.Social.Facebook,
			"social_linkedin":  profile.Social.Linkedin,
			"social_instagram": profile.Social.Instagram,
			"experience":       profile.Experience,
			"education":        profile.Education,
			"version":          next,
			"updated_at":       now,
		})
	if err := checkVersion(res, "profile"); err != nil {
		return err
	}

	profile.Version = next
	profile.UpdatedAt = now
	return nil
}
