package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Felixnganga-max/kamson/internal/config"
	"github.com/Felixnganga-max/kamson/internal/handlers"
	"github.com/Felixnganga-max/kamson/internal/logger"
	"github.com/Felixnganga-max/kamson/internal/middleware"
	"github.com/Felixnganga-max/kamson/internal/repository"
	"github.com/Felixnganga-max/kamson/internal/routes"
	"github.com/Felixnganga-max/kamson/internal/services"
	"github.com/Felixnganga-max/kamson/internal/storage"
)

const sweepInterval = 6 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Mongo.URI == "" {
		log.Fatal("MONGODB_URI is not defined")
	}

	mc, err := repository.Connect(cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	db := mc.Database(cfg.Mongo.Database)
	eventRepo := repository.NewEventRepo(db.Collection("events"))
	mediaRepo := repository.NewMediaRepo(db.Collection("media"))
	userRepo := repository.NewUserRepo(db.Collection("users"))

	store, err := storage.NewCloudinaryStore(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
		cfg.Cloudinary.ChunkSizeBytes,
		cfg.Cloudinary.UploadTimeoutSeconds,
	)
	if err != nil {
		log.Fatalf("cloudinary init: %v", err)
	}

	eventSvc := services.NewEventService(eventRepo, store, cfg.Cloudinary.Folder, log)
	mediaSvc := services.NewMediaService(mediaRepo, store, cfg.Cloudinary.Folder, log)
	authSvc := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWTTTL)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadBytes() + 1024*1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: handlers.ErrorHandler(cfg.Development(), log),
	})

	app.Use(helmet.New())
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CORSOrigin,
		AllowMethods: "GET,POST,PUT,DELETE,PATCH",
		AllowHeaders: "Content-Type,Authorization",
	}))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimitWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status":  "fail",
				"message": "Too many requests from this IP, please try again later",
			})
		},
	}))

	routes.Register(app, api, routes.Deps{
		Events: handlers.NewEventHandler(eventSvc, cfg.MaxUploadBytes()),
		Media:  handlers.NewMediaHandler(mediaSvc, cfg.MaxUploadBytes()),
		Auth:   handlers.NewAuthHandler(authSvc),
		Verify: authSvc.VerifyToken,
	})

	// refresh the stored eventType hint at startup, then periodically
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweep(sweepCtx, eventSvc, log)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Infof("server running in %s mode on %s", cfg.App.Env, addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown requested")
	stopSweep()

	_ = app.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = mc.Disconnect(ctx)
	log.Info("shutdown completed")
}

func runSweep(ctx context.Context, svc *services.EventService, log *zap.SugaredLogger) {
	sweep := func() {
		n, err := svc.MarkPast(ctx)
		if err != nil {
			log.Warnw("past-event sweep failed", "error", err)
			return
		}
		if n > 0 {
			log.Infow("past-event sweep", "updated", n)
		}
	}
	sweep()

	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sweep()
		}
	}
}
