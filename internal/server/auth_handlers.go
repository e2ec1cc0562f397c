package server

import (
	"strings"

	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required,min=6" msg:"Please enter a password with 6 or more characters"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *registerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
}

func (r *loginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func fieldError(c *fiber.Ctx, msg string) error {
	return models.RespondWithFieldErrors(c, []models.FieldError{{Msg: msg}})
}

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithFieldErrors(c, []models.FieldError{{Msg: err.Error(), Param: "email"}})
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithFieldErrors(c, []models.FieldError{{Msg: err.Error(), Param: "password"}})
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if existing != nil {
		return fieldError(c, "User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Avatar:   models.GravatarURL(req.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.HasCode(err, models.CodeValidation) {
			return fieldError(c, "User already exists")
		}
		return s.respondServiceError(c, err)
	}

	token, err := s.jwt.Issue(user.ID)
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// Login handles POST /api/auth
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if user == nil {
		return fieldError(c, "Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return fieldError(c, "Invalid credentials")
	}

	token, err := s.jwt.Issue(user.ID)
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// GetAuthUser handles GET /api/auth
func (s *Server) GetAuthUser(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(user)
}
