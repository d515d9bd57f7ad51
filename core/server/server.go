package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"venue-crm/core/cache"
	"venue-crm/core/config"
	"venue-crm/core/constants"
	"venue-crm/core/database"
	"venue-crm/core/jobs"
	"venue-crm/core/logger"
	"venue-crm/core/middleware"
	"venue-crm/core/storage"
	"venue-crm/modules/auth"
	"venue-crm/modules/contact"
	"venue-crm/modules/dataio"
	"venue-crm/modules/deal"
	"venue-crm/modules/directory"
	"venue-crm/modules/integration"
	"venue-crm/modules/task"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Run wires the whole application together and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel, cfg.Server.LogFormat)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}

	store, err := storage.NewS3Storage(storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Bucket:          cfg.AWS.S3Bucket,
	})
	if err != nil {
		return err
	}

	jobsRedis := jobs.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := jobs.NewClient(jobsRedis)
	asynqServer, asynqMux := jobs.NewServer(jobsRedis)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			logger.Info("request", args...)
			return nil
		},
	}))

	mw := middleware.NewMiddleware(redisCache, auth.NewAPIKeyVerifier(db))

	public := e.Group("/api/v1/public")
	private := e.Group("/api/v1/private")

	auth.Init(public, private, db, redisCache, mw)
	directoryService := directory.Init(private, db, mw)
	contact.Init(private, db, directoryService, mw)
	deal.Init(private, db, directoryService, mw)
	task.Init(private, db, mw)
	integration.Init(public, private, db, redisCache, asynqMux, mw)
	dataio.Init(private, db, directoryService, store, asynqClient, asynqMux, mw)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	jobs.Start(asynqServer, asynqMux)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start:Error", "error", err)
		}
	}()
	logger.Info("Server started", "port", cfg.Server.Port, "env", cfg.Server.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	asynqServer.Shutdown()
	if err := asynqClient.Close(); err != nil {
		logger.Error("Server:Shutdown:AsynqClientError", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}
