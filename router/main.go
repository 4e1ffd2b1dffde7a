package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nicebott/docencia-api/database"
	"github.com/nicebott/docencia-api/handlers"
	catalog_handlers "github.com/nicebott/docencia-api/handlers/catalog"
	chat_handlers "github.com/nicebott/docencia-api/handlers/chat"
	prefs_handlers "github.com/nicebott/docencia-api/handlers/prefs"
	session_handlers "github.com/nicebott/docencia-api/handlers/session"
	"github.com/nicebott/docencia-api/services"
	"github.com/nicebott/docencia-api/utils/auth"
	"github.com/nicebott/docencia-api/utils/cache"
	"github.com/nicebott/docencia-api/utils/middleware"
)

// Deps carries the shared components the routes are built on.
type Deps struct {
	Catalog    *services.CatalogService
	Store      *database.RedisMessageStore
	RedisCache *cache.RedisCache
}

func SetupRoutes(app *fiber.App, deps Deps) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "docencia-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret: jwtSecret,
		Expiry: 24 * time.Hour, // Session token expires in 24 hours
		Issuer: jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	sessionGate := services.NewSessionGate(deps.Store)

	catalogHandler := catalog_handlers.NewCatalogHandler(deps.Catalog)
	chatHandler := chat_handlers.NewChatHandler(deps.Store)
	sessionHandler := session_handlers.NewSessionHandler(sessionGate, jwtManager)
	prefsHandler := prefs_handlers.NewPrefsHandler(deps.RedisCache)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth)

	// API v1 group
	api := app.Group("/api/v1")

	// Catalog routes (public)
	api.Get("/sections", catalogHandler.ListSections)
	api.Get("/campuses", catalogHandler.ListCampuses)

	// Chat routes
	chat := api.Group("/chat")
	chat.Post("/session", sessionHandler.CreateSession)                    // Public: resolve identity, issue token
	chat.Get("/messages", chatHandler.ListMessages)                        // Public: windowed history
	chat.Get("/unread", chatHandler.UnreadCount)                           // Public: unread counter for closed clients
	chat.Get("/stream", chatHandler.Stream)                                // Public: SSE snapshot feed
	chat.Post("/messages", authMiddleware.Required(), chatHandler.SendMessage) // Protected: send as resolved identity

	// Preference routes (keyed by X-Client-Id)
	preferences := api.Group("/preferences")
	preferences.Get("/dark-mode", prefsHandler.GetDarkMode)
	preferences.Put("/dark-mode", prefsHandler.SetDarkMode)
}
