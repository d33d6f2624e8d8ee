package router

import (
	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/handler"
	"github.com/wildoasis/booking-api/internal/middleware"
)

// RegisterCatalog registers cabin, guest and settings routes. Guest creation
// and email lookup stay public for the booking site's sign-in flow; cabin
// browsing and availability stay public so the site can show the catalog.
// Everything else requires a staff session. The cacheMW middleware, when not
// nil, caches the public catalog GETs.
func RegisterCatalog(e *echo.Echo, cabins *handler.CabinHandler, guests *handler.GuestHandler, settings *handler.SettingsHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	pub := e.Group("/v1")
	if cacheMW != nil {
		pub.GET("/cabins", cabins.List, cacheMW)
		pub.GET("/cabins/:id", cabins.Get, cacheMW)
	} else {
		pub.GET("/cabins", cabins.List)
		pub.GET("/cabins/:id", cabins.Get)
	}
	pub.GET("/cabins/:id/availability", cabins.Availability)
	pub.POST("/guests", guests.Create)
	pub.GET("/guests", guests.LookupByEmail)

	staff := e.Group("/v1")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole("ADMIN", "STAFF"))

	staff.POST("/cabins", cabins.Create)
	staff.PATCH("/cabins/:id", cabins.Update)
	staff.DELETE("/cabins/:id", cabins.Delete)
	staff.POST("/cabins/:id/image", cabins.UploadImage)

	staff.GET("/guests/all", guests.List)
	staff.GET("/guests/:id", guests.Get)
	staff.PATCH("/guests/:id", guests.Update)
	staff.DELETE("/guests/:id", guests.Delete)

	staff.GET("/settings", settings.Get)
	staff.PATCH("/settings", settings.Update)
}
