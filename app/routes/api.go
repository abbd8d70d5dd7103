package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/controllers"
	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/app/services"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/ctx"
	"github.com/shashiranjanraj/nutritrack/pkg/middleware"
	"github.com/shashiranjanraj/nutritrack/pkg/router"
)

// RegisterAPI mounts the JSON API under prefix (API_PREFIX, "/api" by default).
func RegisterAPI(r *router.Router, prefix string, db *gorm.DB, tokens *auth.Tokens) {
	users := repositories.NewUserRepository(db)

	authController := controllers.NewAuthController(services.NewAuthService(users, tokens))
	mealController := controllers.NewMealController(repositories.NewMealRepository(db))
	todayController := controllers.NewTodayController(repositories.NewTodayRepository(db))
	userController := controllers.NewUserController(users)

	api := r.Group(prefix)
	api.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	api.Post("/login", "auth.login", ctx.Wrap(authController.Login))

	protected := api.Group("", middleware.Auth(tokens))
	protected.Get("/logout", "auth.logout", ctx.Wrap(authController.Logout))
	protected.Post("/target-macros", "user.target-macros", ctx.Wrap(userController.UpdateTargetMacros))

	protected.Get("/meals", "meals.index", ctx.Wrap(mealController.Index))
	protected.Post("/meals", "meals.store", ctx.Wrap(mealController.Store))
	protected.Put("/meals/{id}", "meals.update", ctx.Wrap(mealController.Update))
	protected.Delete("/meals/{id}", "meals.destroy", ctx.Wrap(mealController.Destroy))

	protected.Get("/today-list", "today.index", ctx.Wrap(todayController.Index))
	protected.Get("/today-list/drop", "today.drop", ctx.Wrap(todayController.Drop))
	protected.Post("/today-list/{meal_id}", "today.store", ctx.Wrap(todayController.Store))
	protected.Put("/today-list/{id}", "today.update", ctx.Wrap(todayController.Update))
	protected.Delete("/today-list/{id}", "today.destroy", ctx.Wrap(todayController.Destroy))
}
