package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PixelPress/app/controllers"
	"github.com/ManuelReschke/PixelPress/app/models"
	"github.com/ManuelReschke/PixelPress/app/repository"
	"github.com/ManuelReschke/PixelPress/internal/pkg/cache"
	"github.com/ManuelReschke/PixelPress/internal/pkg/config"
	"github.com/ManuelReschke/PixelPress/internal/pkg/constants"
	"github.com/ManuelReschke/PixelPress/internal/pkg/database"
	"github.com/ManuelReschke/PixelPress/internal/pkg/env"
	"github.com/ManuelReschke/PixelPress/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/PixelPress/internal/pkg/imageprocessor"
	applog "github.com/ManuelReschke/PixelPress/internal/pkg/logger"
	"github.com/ManuelReschke/PixelPress/internal/pkg/metrics"
	"github.com/ManuelReschke/PixelPress/internal/pkg/router"
	"github.com/ManuelReschke/PixelPress/internal/pkg/session"
	"github.com/ManuelReschke/PixelPress/internal/pkg/storage"
	"github.com/ManuelReschke/PixelPress/internal/pkg/upload"
	"github.com/ManuelReschke/PixelPress/internal/pkg/viewmodel"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env.SetupEnvFile()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	flush := applog.Setup(applog.FromConfig(cfg))
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApplication(ctx, cfg)
	if err != nil {
		zap.L().Fatal("failed to start", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			zap.L().Error("shutdown failed", zap.Error(err))
		}
	}()

	zap.L().Info("listening", zap.String("addr", cfg.ListenAddr()), zap.String("env", cfg.App.Env))
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
	}
}

// findBasePath locates the directory that holds views/ and public/.
func findBasePath() (string, error) {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/pixelpress to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("could not find project root directory")
}

func NewApplication(ctx context.Context, cfg *config.Config) (*fiber.App, error) {
	basePath, err := findBasePath()
	if err != nil {
		return nil, err
	}

	db, err := database.SetupDatabase(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	rdb := cache.SetupCache(ctx, cfg.Redis)
	session.NewSessionStore(cfg.Redis, !cfg.IsDev())

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	proc := imageprocessor.New(imageprocessor.Options{
		MaxWidth:    cfg.Image.MaxWidth,
		MaxHeight:   cfg.Image.MaxHeight,
		Quality:     cfg.Image.Quality,
		MaxParallel: cfg.Image.MaxParallel,
	})
	images := upload.NewImages(proc, store, int64(cfg.Upload.MaxSizeMB)<<20)

	services := controllers.NewServices(
		repos,
		cache.New(rdb),
		images,
		hcaptcha.NewVerifier(cfg.HCaptcha.SiteKey, cfg.HCaptcha.Secret),
		cfg.Posts.PerPage,
	)
	if err := seed(ctx, cfg, repos, services); err != nil {
		return nil, err
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Views:        viewmodel.NewEngine(basePath+"views", cfg.IsDev()),
		ErrorHandler: controllers.HandleError,
		// room for the multipart overhead around the largest allowed image
		BodyLimit: (cfg.Upload.MaxSizeMB + 1) << 20,
	})

	// ignore favicon
	app.Use(favicon.New())

	// recovery, request ids and logging
	app.Use(
		recover.New(recover.Config{EnableStackTrace: cfg.IsDev()}),
		requestid.New(),
		logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}),
		metrics.Middleware(),
	)

	// prometheus metrics
	if cfg.Metrics.Password != "" {
		app.Get(constants.MetricsRoute, basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.Metrics.User: cfg.Metrics.Password,
			},
		}), metrics.Handler())
	} else {
		zap.L().Warn("METRICS_PASSWORD not set, /metrics disabled")
	}

	// static files
	app.Static(constants.AssetsRoute, basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// static uploads, s3 serves its own
	if cfg.Upload.Backend == "" || cfg.Upload.Backend == "local" {
		app.Static(cfg.Upload.PublicURL, cfg.Upload.Dir, fiber.Static{
			CacheDuration: 10 * time.Second,
			Compress:      false,
			MaxAge:        604800, // 7 days
		})
	}

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
		Title:    "PixelPress API",
	}))

	// ROUTER
	router.InstallRouter(app, services, router.Options{SecureCookies: !cfg.IsDev()})

	return app, nil
}

// seed creates the fixed categories and the admin account on first start.
func seed(ctx context.Context, cfg *config.Config, repos *repository.Repositories, s *controllers.Services) error {
	if err := repos.Category.Seed(ctx, models.CategoryNames); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	created, err := s.Identity.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		zap.L().Info("admin account created", zap.String("email", cfg.Admin.Email))
	}
	return nil
}
