package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kutluay/electivehub/internal/app/controllers"
	"github.com/kutluay/electivehub/internal/app/models"
	"github.com/kutluay/electivehub/internal/app/models/dto"
	"github.com/kutluay/electivehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	packController *controllers.PackController,
	offeringController *controllers.OfferingController,
	selectionController *controllers.SelectionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// Everything below requires a valid token; the institution binding in
	// the token scopes every handler to one tenant.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	packs := authenticated.Group("/packs")
	{
		packs.GET("", packController.ListPacks)
		packs.GET("/:id", packController.GetPack)
		packs.GET("/:id/offerings", packController.GetCatalog)

		// Student selection workflow
		packs.POST("/:id/selection", selectionController.Submit)
		packs.GET("/:id/selection", selectionController.GetOwn)

		// Staff-only pack management and review
		packsStaff := packs.Group("")
		packsStaff.Use(authMiddleware.RoleRequired(models.RoleStaff))
		{
			packsStaff.POST("", packController.CreatePack)
			packsStaff.PUT("/:id", packController.UpdatePack)
			packsStaff.POST("/:id/status", packController.TransitionPack)
			packsStaff.POST("/:id/offerings", offeringController.CreateOffering)
			packsStaff.GET("/:id/selections", selectionController.ListByPack)
		}
	}

	offeringsStaff := authenticated.Group("/offerings")
	offeringsStaff.Use(authMiddleware.RoleRequired(models.RoleStaff))
	{
		offeringsStaff.PUT("/:id", offeringController.UpdateOffering)
		offeringsStaff.DELETE("/:id", offeringController.DeleteOffering)
	}

	selectionsStaff := authenticated.Group("/selections")
	selectionsStaff.Use(authMiddleware.RoleRequired(models.RoleStaff))
	{
		selectionsStaff.POST("/:id/decision", selectionController.Decide)
		selectionsStaff.POST("/:id/reopen", selectionController.Reopen)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
