package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-reservation/internal/auth"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
)

// RegisterRoutes registers the unauthenticated system endpoints: the
// health check used by load balancers and the human-readable service
// info page.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
	e.GET("/info", handler.Info)
}

// RegisterAuth registers signup and login. Both are unauthenticated;
// the rate limiter shields them from credential stuffing and signup
// floods.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
}

// RegisterPublic registers the unauthenticated read endpoints: the
// table catalog and the per-slot availability view. Both sit behind
// the response cache since they are pure reads over slow-changing data.
func RegisterPublic(e *echo.Echo, t *handler.TableHandler, r *handler.ReservationHandler, cache echo.MiddlewareFunc) {
	e.GET("/tables", t.ListTables, cache)
	e.GET("/reservations/status", r.Status, cache)
}

// RegisterReservations registers the bearer-protected reservation
// lifecycle endpoints. The bearer middleware derives the user identity
// from the token; handlers never read credentials themselves.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, issuer auth.TokenIssuer, limiter echo.MiddlewareFunc) {
	g := e.Group("/reservations", middleware.BearerAuth(issuer), limiter)
	g.POST("", r.Create)
	g.GET("", r.List)
	g.DELETE("/:id", r.Cancel)
}
