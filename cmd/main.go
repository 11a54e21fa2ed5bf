package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/arzan03/pdftoolbox/internal/config"
	"github.com/arzan03/pdftoolbox/internal/db"
	"github.com/arzan03/pdftoolbox/internal/handlers"
	"github.com/arzan03/pdftoolbox/internal/middleware"
	"github.com/arzan03/pdftoolbox/internal/models"
	"github.com/arzan03/pdftoolbox/internal/pdf"
	"github.com/arzan03/pdftoolbox/internal/reaper"
	"github.com/arzan03/pdftoolbox/internal/services"
	"github.com/arzan03/pdftoolbox/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	slogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	database := db.ConnectMongoDB(cfg.MongoURI, cfg.MongoDB)
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	blobs, err := storage.NewMinioStore(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	ledger := services.NewMongoLedger(database)
	auth := services.NewAuthService(database, cfg.JWTSecret)
	engine := pdf.NewEngine()
	process := services.NewProcessService(blobs, ledger, engine,
		cfg.ScratchDir, cfg.OwnedRetention, cfg.AnonRetention, slogger)

	// Retention enforcement runs on its own schedule, independent of
	// request handling.
	sweeper := reaper.New(ledger, blobs, cfg.SweepInterval, slogger)
	go sweeper.Run(context.Background())

	app := fiber.New(fiber.Config{BodyLimit: cfg.BodyLimit})
	app.Use(logger.New())
	app.Use(cors.New())

	authHandler := handlers.NewAuthHandler(auth)
	toolHandler := handlers.NewToolHandler(process)
	fileHandler := handlers.NewFileHandler(ledger, process)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/validate", requireAuth, authHandler.Validate)

	// Tool routes accept both authenticated and anonymous callers;
	// anonymous results are one-shot downloads.
	app.Post("/merge", optionalAuth, toolHandler.Handle(models.ToolMerge))
	app.Post("/split", optionalAuth, toolHandler.Handle(models.ToolSplit))
	app.Post("/compress", optionalAuth, toolHandler.Handle(models.ToolCompress))
	app.Post("/word", optionalAuth, toolHandler.Handle(models.ToolWord))
	app.Post("/excel", optionalAuth, toolHandler.Handle(models.ToolExcel))

	app.Get("/files", requireAuth, fileHandler.List)
	app.Get("/files/:id", requireAuth, fileHandler.Download)

	log.Fatal(app.Listen(":" + cfg.Port))
}
