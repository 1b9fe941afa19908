package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/nfrund/propmgr/internal/authscreen"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// SignInForm is what the sign-in form posts. Missing fields bind as empty
// strings; the controller decides what is required.
type SignInForm struct {
	Mode     string `form:"mode"`
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// FormState converts the posted values into controller state.
func (f SignInForm) FormState() authscreen.FormState {
	return authscreen.FormState{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		Mode:     authscreen.ParseMode(f.Mode),
	}
}

// RegistrationRequest is checked before an account is created.
type RegistrationRequest struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,max=256"`
}

// LoginRequest is checked before credentials are verified.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// OAuthCallback is the query string of the provider callback.
type OAuthCallback struct {
	State string `query:"state"`
	Code  string `query:"code"`
	Error string `query:"error"`
}
