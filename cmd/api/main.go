package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eventsnap/eventsnap-backend/internal/config"
	"github.com/eventsnap/eventsnap-backend/internal/handler"
	"github.com/eventsnap/eventsnap-backend/internal/middleware"
	"github.com/eventsnap/eventsnap-backend/internal/repository"
	"github.com/eventsnap/eventsnap-backend/internal/service"
	"github.com/eventsnap/eventsnap-backend/pkg/captcha"
	"github.com/eventsnap/eventsnap-backend/pkg/database"
	"github.com/eventsnap/eventsnap-backend/pkg/email"
	"github.com/eventsnap/eventsnap-backend/pkg/qrcode"
	"github.com/eventsnap/eventsnap-backend/pkg/storage"
	"github.com/eventsnap/eventsnap-backend/pkg/utils"

	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func main() {
	// .env is optional outside local development.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	hostRepo := repository.NewHostRepository(db)

	// Storage services
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		logger.Fatal("failed to initialize R2 storage", zap.Error(err))
	}
	imgStorage := storage.NewCloudflareImages(
		cfg.CloudflareImages.AccountID,
		cfg.CloudflareImages.Token,
		cfg.CloudflareImages.Hash,
	)

	emailService := email.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.FromName, logger)
	qrService := qrcode.NewQRService(cfg.PublicBaseURL)
	turnstile := captcha.NewTurnstileService(cfg.TurnstileSecret)
	validator := utils.NewValidator()

	// Services
	authService := service.NewAuthService(userRepo, hostRepo, eventRepo, cfg.JWTSecret, logger)
	eventService := service.NewEventService(eventRepo, photoRepo, hostRepo, qrService, emailService, logger, cfg.PublicBaseURL)
	photoService := service.NewPhotoService(photoRepo, eventRepo, r2Storage, imgStorage, validator, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, turnstile, validator)
	eventHandler := handler.NewEventHandler(eventService, turnstile, validator)
	photoHandler := handler.NewPhotoHandler(photoService, turnstile)

	app := fiber.New(fiber.Config{
		BodyLimit: 60 * 1024 * 1024, // multipart batches of full-size photos
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.PublicBaseURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Captcha-Token",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/host-login", authHandler.HostLogin)

	// Public event routes: self-service creation, upload form metadata,
	// gallery, uploads. A bearer token on the upload route widens permissions
	// but is never required.
	public := api.Group("/public")
	public.Post("/events", eventHandler.HostCreateEvent)
	public.Get("/events/:id", eventHandler.GetPublicEvent)
	public.Get("/events/:id/gallery", photoHandler.GetGalleryPhotos)
	public.Post("/events/:id/photos", middleware.OptionalAuth(cfg.JWTSecret), photoHandler.UploadPhotos)
	public.Get("/photos/:photoId", middleware.OptionalAuth(cfg.JWTSecret), photoHandler.GetPhoto)
	public.Post("/photos/:photoId/download", middleware.OptionalAuth(cfg.JWTSecret), photoHandler.DownloadPhoto)

	// Protected routes
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		events := api.Group("/events")
		events.Post("/", eventHandler.CreateEvent)
		events.Get("/", eventHandler.ListEvents)
		events.Get("/:id", eventHandler.GetEvent)
		events.Put("/:id", eventHandler.UpdateEvent)
		events.Delete("/:id", eventHandler.DeleteEvent)
		events.Get("/:id/stats", eventHandler.GetEventStats)
		events.Get("/:id/qr", eventHandler.GetQRCode)
		events.Get("/:id/qr/package", eventHandler.GetQRPackage)
		events.Post("/:id/qr/regenerate", eventHandler.RegenerateQRCode)
		events.Get("/:id/photos", photoHandler.ListEventPhotos)

		photos := api.Group("/photos")
		photos.Patch("/bulk-status", photoHandler.BulkUpdatePhotoStatus)
		photos.Patch("/:photoId/status", photoHandler.UpdatePhotoStatus)
		photos.Delete("/:photoId", photoHandler.DeletePhoto)
	}

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
