package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-programming/internal/config"     // config carries middleware settings
	"github.com/iliyamo/cinema-programming/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/cinema-programming/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the anonymous browse endpoints: the daily
// programme and film listings.  Responses are cached and rate limited
// through Redis when a client is available; both middlewares degrade to
// pass-through otherwise.
func RegisterPublic(e *echo.Echo, h *handler.AdminHandler, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/v1/program", h.Program, rl, cache)
	e.GET("/v1/films", h.PublicFilms, rl)
	e.GET("/v1/films/:id", h.PublicFilm, rl)
	e.GET("/v1/films/:id/showtimes", h.ListFilmShowtimes, rl)
}

// RegisterProgramming registers the protected programming endpoints.
// Every route requires a valid access token with the ADMIN role: films,
// halls and all showtime mutations, including the recurring expansion.
func RegisterProgramming(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Film catalog management.
	g.POST("/films", h.CreateFilm)
	g.PUT("/films/:id", h.UpdateFilm)
	g.DELETE("/films/:id", h.DeleteFilm)
	g.POST("/films/:id/status/refresh", h.RefreshFilmStatus)
	g.POST("/films/import", h.ImportFilm)
	g.GET("/catalog/search", h.SearchCatalog)

	// Hall management.  Deleting a hall with scheduled showtimes is
	// refused with 409.
	g.POST("/halls", h.CreateHall)
	g.GET("/halls", h.ListHalls)
	g.GET("/halls/:id", h.GetHall)
	g.PUT("/halls/:id", h.UpdateHall)
	g.DELETE("/halls/:id", h.DeleteHall)
	g.GET("/halls/:id/showtimes", h.ListHallShowtimes)

	// Showtime scheduling.  All writes run through the engine so the
	// turnover buffer and the derived status stay consistent.
	g.POST("/showtimes", h.CreateShowtime)
	g.GET("/showtimes/:id", h.GetShowtime)
	g.PUT("/showtimes/:id", h.UpdateShowtime)
	g.DELETE("/showtimes/:id", h.DeleteShowtime)
	g.POST("/showtimes/bulk", h.BulkCreateShowtimes)
}
