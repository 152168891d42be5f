package routes

import (
	"github.com/julienschmidt/httprouter"

	"savora/middleware"
	"savora/ratelim"
	"savora/recipes"
)

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handler, rl *ratelim.RateLimiter, jwtSecret string) {
	router.GET("/api/v1/recipes", middleware.OptionalAuth(jwtSecret, h.List))
	router.GET("/api/v1/recipes/mine", middleware.Authenticate(jwtSecret, h.Mine))
	router.GET("/api/v1/recipes/recipe/:id", middleware.OptionalAuth(jwtSecret, h.Get))
	router.POST("/api/v1/recipes", rl.Limit(middleware.Authenticate(jwtSecret, h.Create)))
	router.PUT("/api/v1/recipes/recipe/:id", rl.Limit(middleware.Authenticate(jwtSecret, h.Update)))
	router.DELETE("/api/v1/recipes/recipe/:id", rl.Limit(middleware.Authenticate(jwtSecret, h.Delete)))
}
