package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nutritrack/app/models"
	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/pkg/ctx"
)

const msgNoSuchMeal = "No such meal in your library."

type MealController struct {
	meals *repositories.MealRepository
}

func NewMealController(meals *repositories.MealRepository) *MealController {
	return &MealController{meals: meals}
}

// Index handles GET /meals.
func (mc *MealController) Index(c *ctx.Context) {
	meals, err := mc.meals.List(c.Context(), c.UserID())
	if err != nil {
		c.ServerError(err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"meals": meals})
}

// Store handles POST /meals. A user_id in the body is ignored.
func (mc *MealController) Store(c *ctx.Context) {
	var in StoreMealRequest
	if !c.BindJSON(&in) {
		return
	}

	meal := &models.Meal{
		Name:     in.Name,
		Unit:     in.Unit,
		Category: in.Category,
		Calories: in.Calories,
		Tfat:     in.Tfat,
		Sfat:     in.Sfat,
		Carbs:    in.Carbs,
		Sugar:    in.Sugar,
		Protein:  in.Protein,
	}
	if err := mc.meals.Create(c.Context(), c.UserID(), meal); err != nil {
		c.ServerError(err)
		return
	}
	c.JSON(http.StatusCreated, map[string]any{"meal": meal})
}

// Update handles PUT /meals/{id}. Ownership is checked before the body.
func (mc *MealController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound(msgNoSuchMeal)
		return
	}
	if _, err := mc.meals.Find(c.Context(), c.UserID(), id); err != nil {
		mc.fail(c, err)
		return
	}

	var in UpdateMealRequest
	if !c.BindJSON(&in) {
		return
	}

	meal, err := mc.meals.Update(c.Context(), c.UserID(), id, in.Fields())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"meal": meal})
}

// Destroy handles DELETE /meals/{id}.
func (mc *MealController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound(msgNoSuchMeal)
		return
	}

	meal, err := mc.meals.Delete(c.Context(), c.UserID(), id)
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]any{"meal": meal})
}

func (mc *MealController) fail(c *ctx.Context, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		c.NotFound(msgNoSuchMeal)
		return
	}
	c.ServerError(err)
}
