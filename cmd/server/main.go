package main // Entry point package

import (
	"log"  // Logging library
	"time" // Turnover buffer conversion

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/cinema-programming/internal/catalog"    // External movie catalog client and importer
	"github.com/iliyamo/cinema-programming/internal/config"     // Internal config loader
	"github.com/iliyamo/cinema-programming/internal/database"   // MySQL connection helper
	"github.com/iliyamo/cinema-programming/internal/handler"    // HTTP handlers
	"github.com/iliyamo/cinema-programming/internal/queue"      // Schedule event consumer
	"github.com/iliyamo/cinema-programming/internal/repository" // Data access layer
	"github.com/iliyamo/cinema-programming/internal/router"     // Route registration
	"github.com/iliyamo/cinema-programming/internal/scheduling" // Programming engine
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	films := repository.NewFilmRepo(db)
	halls := repository.NewHallRepo(db)
	showtimes := repository.NewShowtimeRepo(db)

	// The engine owns every showtime write and every status derivation.
	store := repository.NewScheduleStore(db)
	engine := scheduling.NewEngine(store, time.Duration(cfg.TurnoverMin)*time.Minute, cfg.Timezone, nil)

	// External catalog, wired only when a key is configured.
	var provider catalog.Provider
	var importer *catalog.Importer
	if cfg.TMDBAPIKey != "" {
		tmdb := catalog.NewTMDb(cfg.TMDBAPIKey)
		provider = tmdb
		importer = catalog.NewImporter(tmdb, films, engine)
	} else {
		log.Println("TMDB_API_KEY not set; catalog search and import disabled")
	}

	authH := handler.NewAuthHandler(cfg, users)
	adminH := handler.NewAdminHandler(films, halls, showtimes, engine, importer, provider)

	// Background consumer: append schedule changes to logs/schedule.log.
	go func() {
		if err := queue.StartScheduleConsumer(); err != nil {
			log.Printf("schedule consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, adminH, rdb)
	router.RegisterProgramming(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
