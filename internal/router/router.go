package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ticketgo/ticketgo/internal/config"
	"github.com/ticketgo/ticketgo/internal/handler"
	"github.com/ticketgo/ticketgo/internal/middleware"
)

// Handlers bundles every handler the API mounts so registration takes
// one argument instead of a parameter per handler.
type Handlers struct {
	Auth       *handler.AuthHandler
	Departures *handler.DepartureHandler
	Bookings   *handler.BookingHandler
	Orders     *handler.OrderHandler
}

// RegisterPublic registers endpoints reachable without a token: the
// health probe, registration, login and the trip browse list. Guests
// can also view bookable seats for a coach; staging a booking is the
// first step that requires an account.
func RegisterPublic(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/v1")
	g.POST("/auth/register", h.Auth.Register)
	g.POST("/auth/login", h.Auth.Login)
	g.GET("/departures", h.Departures.List)
	g.GET("/coaches/:id/booking", h.Bookings.GetBookableSeats)
}

// RegisterCustomer registers customer-scoped endpoints under /v1. All
// routes require a valid JWT with the CUSTOMER or ADMIN role. The
// booking routes additionally pass through the rate limiter so a
// single client cannot hammer the staging store or the payment
// callback.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	limited := g.Group("", middleware.NewRateLimiter(rlCfg, rdb))
	limited.POST("/bookings", h.Bookings.StageBooking)
	limited.GET("/payment/callback", h.Bookings.PaymentCallback)

	g.GET("/orders/:id", h.Orders.GetOrder)
	g.GET("/my-orders", h.Orders.MyOrders)
}

// RegisterAdmin registers the admin order console under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/orders", h.Orders.ListOrders)
	g.DELETE("/orders/:id", h.Orders.DeleteOrder)
}
