package router

import (
	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/handler"
	"github.com/wildoasis/booking-api/internal/middleware"
)

// RegisterBookings registers the booking lifecycle and report routes. The
// whole surface is staff-only; the public booking site goes through its own
// backend-for-frontend, not these endpoints.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, r *handler.ReportHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "STAFF"))

	g.GET("", b.List)
	g.POST("", b.Create)

	// Fixed segments before the :id routes so "after-date" and "stays" are
	// never parsed as booking IDs.
	g.GET("/after-date", r.AfterDate)
	g.GET("/stays/after-date", r.StaysAfterDate)
	g.GET("/stays/today-activity", r.TodayActivity)
	g.PATCH("/check-in/:id", b.CheckIn)
	g.PATCH("/checkout/:id", b.CheckOut)

	g.GET("/:id", b.Get)
	g.PATCH("/:id", b.Update)
	g.DELETE("/:id", b.Delete)
}
