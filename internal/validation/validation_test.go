package validation

import (
	"testing"

	"github.com/vincentFaye/dev-social-network/internal/models"

	"github.com/stretchr/testify/assert"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Website  string `json:"website" validate:"omitempty,url"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Struct(&signupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret"}))

	errs := Struct(&signupRequest{Email: "nope", Password: "123", Website: "not a url"})
	assert.Equal(t, []models.FieldError{
		{Msg: "Name is required", Param: "name"},
		{Msg: "Please include a valid email", Param: "email"},
		{Msg: "password must be at least 6 characters", Param: "password"},
		{Msg: "website must be a valid URL", Param: "website"},
	}, errs)
}
