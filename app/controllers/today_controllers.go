package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/pkg/ctx"
	"github.com/shashiranjanraj/nutritrack/pkg/logger"
)

const msgNoSuchEntry = "No such meal on your TodayList."

type TodayController struct {
	today *repositories.TodayRepository
}

func NewTodayController(today *repositories.TodayRepository) *TodayController {
	return &TodayController{today: today}
}

// Index handles GET /today-list.
func (tc *TodayController) Index(c *ctx.Context) {
	items, err := tc.today.List(c.Context(), c.UserID())
	if err != nil {
		c.ServerError(err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"todayList": items})
}

// Store handles POST /today-list/{meal_id}.
func (tc *TodayController) Store(c *ctx.Context) {
	mealID, ok := c.ParamUint("meal_id")
	if !ok {
		c.NotFound(msgNoSuchMeal)
		return
	}

	entry, err := tc.today.AddOrIncrement(c.Context(), c.UserID(), mealID)
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound(msgNoSuchMeal)
		return
	}
	if err != nil {
		c.ServerError(err)
		return
	}
	c.JSON(http.StatusCreated, map[string]any{"meal": entry})
}

// Update handles PUT /today-list/{id}. Ownership is checked before the body.
func (tc *TodayController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound(msgNoSuchEntry)
		return
	}
	if _, err := tc.today.Find(c.Context(), c.UserID(), id); err != nil {
		tc.fail(c, err)
		return
	}

	var in UpdateAmountRequest
	if !c.BindJSON(&in) {
		return
	}

	entry, err := tc.today.Update(c.Context(), c.UserID(), id, in.Amount)
	if err != nil {
		tc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"meal": entry})
}

// Destroy handles DELETE /today-list/{id}.
func (tc *TodayController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound(msgNoSuchEntry)
		return
	}

	entry, err := tc.today.Delete(c.Context(), c.UserID(), id)
	if err != nil {
		tc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"meal": entry})
}

// Drop handles GET /today-list/drop. It answers 200 with no body.
func (tc *TodayController) Drop(c *ctx.Context) {
	n, err := tc.today.DropAll(c.Context(), c.UserID())
	if err != nil {
		c.ServerError(err)
		return
	}
	logger.WithCtx(c.Context()).Debug("today list dropped", "entries", n)
	c.Status(http.StatusOK)
}

func (tc *TodayController) fail(c *ctx.Context, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound(msgNoSuchEntry)
		return
	}
	c.ServerError(err)
}
