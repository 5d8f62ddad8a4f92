package v1

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the profile API onto the router. The auth middleware
// is passed in so main and the tests can supply the same construction with
// different token issuers.
func RegisterRoutes(r gin.IRouter, h *ProfileHandler, authMiddleware gin.HandlerFunc) {
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	profileGroup := api.Group("/profile")
	profileGroup.Use(authMiddleware)
	{
		profileGroup.GET("/me", h.GetProfile)
		profileGroup.PUT("/me", h.UpdateProfile)
		profileGroup.PUT("/change-password", h.ChangePassword)
		profileGroup.DELETE("/me", h.DeleteAccount)
	}
}
