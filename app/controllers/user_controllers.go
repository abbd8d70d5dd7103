package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/pkg/ctx"
)

type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// UpdateTargetMacros handles POST /target-macros on the caller's own record.
func (uc *UserController) UpdateTargetMacros(c *ctx.Context) {
	var in TargetMacrosRequest
	if !c.BindJSON(&in) {
		return
	}

	user, err := uc.users.UpdateTargetMacros(c.Context(), c.UserID(), in.Fields())
	if err != nil {
		c.ServerError(err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"user": user})
}
