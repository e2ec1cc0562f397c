package server

import (
	"errors"

	"github.com/vincentFaye/dev-social-network/internal/cache"
	"github.com/vincentFaye/dev-social-network/internal/github"
	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/service"

	"github.com/gofiber/fiber/v2"
)

func profileJSON(c *fiber.Ctx, p *models.Profile) error {
	p.EnsureLists()
	return c.JSON(p)
}

// profileWritten drops the cached profile list and renders p.
func (s *Server) profileWritten(c *fiber.Ctx, p *models.Profile) error {
	cache.InvalidateProfiles(c.UserContext(), s.redis)
	return profileJSON(c, p)
}

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetMine(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return profileJSON(c, profile)
}

// GetProfiles handles GET /api/profile
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	var profiles []*models.Profile
	err := cache.Aside(c.UserContext(), s.redis, cache.ProfilesListKey, &profiles, cache.ProfilesListTTL, func() error {
		var err error
		profiles, err = s.profileService.List(c.UserContext())
		return err
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	for _, p := range profiles {
		p.EnsureLists()
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:userId
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetByUser(c.UserContext(), userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return profileJSON(c, profile)
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req service.ProfileFields
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.Upsert(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.profileWritten(c, profile)
}

// DeleteAccount handles DELETE /api/profile
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.UserContext(), currentUserID(c)); err != nil {
		return s.respondServiceError(c, err)
	}
	cache.InvalidateProfiles(c.UserContext(), s.redis)
	return c.JSON(fiber.Map{"msg": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req service.ExperienceInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.profileWritten(c, profile)
}

// DeleteExperience handles DELETE /api/profile/experience/:expId
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveExperience(c.UserContext(), currentUserID(c), c.Params("expId"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.profileWritten(c, profile)
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req service.EducationInput
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.profileWritten(c, profile)
}

// DeleteEducation handles DELETE /api/profile/education/:eduId
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	profile, err := s.profileService.RemoveEducation(c.UserContext(), currentUserID(c), c.Params("eduId"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return s.profileWritten(c, profile)
}

// GetGithubRepos handles GET /api/profile/github/:username
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	body, err := s.githubClient.RecentRepos(c.UserContext(), c.Params("username"))
	if errors.Is(err, github.ErrProfileNotFound) {
		return s.respondServiceError(c, models.NewUpstreamError("No Github profile found", err))
	}
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
