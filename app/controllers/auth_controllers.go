package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/app/services"
	"github.com/shashiranjanraj/nutritrack/pkg/ctx"
	"github.com/shashiranjanraj/nutritrack/pkg/response"
	"github.com/shashiranjanraj/nutritrack/pkg/validate"
)

const (
	msgCredentialMismatch = "Email and password don't match"
	msgLoggedOut          = "Logged out"
	msgEmailTaken         = "The email has already been taken."
)

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in RegisterRequest
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.service.Register(c.Context(), in.Name, in.Email, in.Password)
	if errors.Is(err, repositories.ErrEmailTaken) {
		errs := &validate.Errors{}
		errs.Add("email", msgEmailTaken)
		response.ValidationError(c.W, errs)
		return
	}
	if err != nil {
		c.ServerError(err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

// Login handles POST /login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in LoginRequest
	if !c.BindJSON(&in) {
		return
	}

	user, token, err := ac.service.Login(c.Context(), in.Email, in.Password)
	if errors.Is(err, services.ErrCredentialMismatch) {
		c.Message(http.StatusUnauthorized, msgCredentialMismatch)
		return
	}
	if err != nil {
		c.ServerError(err)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// Logout handles GET /logout.
func (ac *AuthController) Logout(c *ctx.Context) {
	id, ok := c.Identity()
	if !ok {
		c.Unauthenticated()
		return
	}
	if err := ac.service.Logout(c.Context(), id); err != nil {
		c.ServerError(err)
		return
	}
	c.Message(http.StatusOK, msgLoggedOut)
}
