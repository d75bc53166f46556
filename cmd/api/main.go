package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/config"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/handler"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/middleware"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/repository"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/service"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (resolution cache disabled)", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, err := newAssetStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open asset store: %v", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, store, redisClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    int(cfg.MaxPhotoBytes) + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg)

	log.Printf("Server starting on port %s (storage=%s)", cfg.Port, cfg.StorageBackend)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newAssetStore(cfg *config.Config) (storage.AssetStore, error) {
	if cfg.StorageBackend == "minio" {
		client, err := config.NewMinIOClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStore(client, cfg.MinIOBucket), nil
	}
	return storage.NewDiskStore(cfg.UploadsDir)
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// The identifier segment may itself be an encoded URL; the
	// wildcard keeps embedded slashes intact.
	app.Get("/photos/+", h.Photo.Serve)
	app.Post("/photos", h.Photo.Upload)

	admin := app.Group("/api/v1/admin", middleware.AdminRequired(cfg.AdminJWTSecret))
	admin.Put("/members/:memberId/photo", h.Admin.SetMemberPhoto)
	admin.Post("/photos/reconcile", h.Admin.Reconcile)
	admin.Post("/photos/orphans", h.Admin.CollectOrphans)
	admin.Get("/photos/assets", h.Admin.ListAssets)
}
