package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nicebott/docencia-api/api"
	"github.com/nicebott/docencia-api/config"
	"github.com/nicebott/docencia-api/database"
	"github.com/nicebott/docencia-api/router"
	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/services/cron"
	"github.com/nicebott/docencia-api/utils/cache"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err

	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		print("If not running, run the following command:\n")
		print("  make docker-up   (for Docker setup)\n")
		print("  make db-up       (for local PostgreSQL)\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		print("Error running migrations:\n")
		return err
	}

	// Initialize Redis (message store + preferences)
	redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
	if err != nil {
		print("Check whether Redis is running or not\n")
		return err
	}
	messageStore := database.NewRedisMessageStore(redisCache)

	// Build the in-memory catalog snapshot from whatever the DB already holds.
	// A failed load keeps the service up; /api/v1/sections reports 503 until a
	// later refresh succeeds.
	catalog := services.NewCatalogService(store.GetDB())

	var fetcher *services.CourseFetcher
	if getEnv.COURSE_DATA_URL != "" {
		fetcher = services.NewCourseFetcher(getEnv.COURSE_DATA_URL)
	}

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := catalog.Refresh(ctx); err != nil {
			log.Printf("Warning: initial catalog load failed: %v", err)
		}
		cancel()
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(cron.NewJobs(store, catalog, fetcher))
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		redisCache.Close()
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	// Custom Logger
	app.Use(logger.New())

	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, router.Deps{
		Catalog:    catalog,
		Store:      messageStore,
		RedisCache: redisCache,
	})

	// Get the PORT & Start the Server
	return server.Run()

}
