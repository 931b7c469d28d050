package router

import (
	"resellPilot/internal/middleware"
	"resellPilot/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupItemRoutes(api *echo.Group, handler *rest.ItemHandler) {
	items := api.Group("/items", middleware.AuthMiddleware())

	items.GET("", handler.GetAllItems)
	items.GET("/:id", handler.GetItemByID)
	items.POST("", handler.CreateItem)
	items.PUT("/:id", handler.UpdateItem)
	items.PATCH("/:id/status", handler.UpdateItemStatus)
	items.DELETE("/:id", handler.DeleteItem)
}

func SetupAdvisorRoutes(api *echo.Group, handler *rest.AdvisorHandler) {
	advisor := api.Group("/advisor", middleware.AuthMiddleware())

	advisor.GET("/insights", handler.GetInsights)
	advisor.GET("/insights/count", handler.GetInsightCount)
	advisor.POST("/insights/:id/dismiss", handler.DismissInsight)
	advisor.POST("/insights/:id/execute", handler.ExecuteInsight)
	advisor.DELETE("/session", handler.ClearSession)
}

func SetupBundleRoutes(api *echo.Group, handler *rest.BundleHandler) {
	bundles := api.Group("/bundles", middleware.AuthMiddleware())

	bundles.GET("", handler.GetAllBundles)
	bundles.GET("/:id", handler.GetBundleByID)
	bundles.DELETE("/:id", handler.DissolveBundle)
}
