// Package server assembles and runs the inspection service: PostgreSQL
// storage, S3 photo store, the HTTP API and the asynq email worker.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/cesworks/fieldcheck/internal/logging"
	"github.com/cesworks/fieldcheck/internal/server/config"
	"github.com/cesworks/fieldcheck/internal/server/httpapi"
	"github.com/cesworks/fieldcheck/internal/server/repositories/repomanager"
	"github.com/cesworks/fieldcheck/internal/server/services"
	"github.com/cesworks/fieldcheck/internal/server/storage"
	"github.com/cesworks/fieldcheck/internal/server/worker"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db          *sql.DB
	fiberApp    *fiber.App
	asynqServer *asynq.Server
	asynqMux    *asynq.ServeMux
	asynqClient *asynq.Client
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	db, err := repomanager.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresManager()

	photoStore, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	// Redis being down only delays summary emails, never inspections.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "redis not reachable, summary emails will queue late", "err", err)
	}
	_ = rdb.Close()

	asynqClient := asynq.NewClient(redisOpt)

	inspectionSvc := services.NewInspectionService(db, rm, asynqClient, logger, cfg.Server.BaseURL)
	photoSvc := services.NewPhotoService(db, rm, photoStore, logger)
	lookupSvc := services.NewLookupService(db, rm, cfg.Verify)

	v := validator.New()
	fiberApp := httpapi.NewApp(httpapi.Handlers{
		Inspections: httpapi.NewInspectionHandler(inspectionSvc, v),
		Photos:      httpapi.NewPhotoHandler(photoSvc),
		Lookup:      httpapi.NewLookupHandler(lookupSvc, v),
	}, cfg.Server.BodyLimit)

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 4})
	asynqMux := asynq.NewServeMux()
	emailWorker := worker.NewEmailWorker(inspectionSvc, &worker.LogMailer{Log: logger}, cfg.Mail.From, logger)
	asynqMux.HandleFunc(worker.TaskTypeSummaryEmail, emailWorker.ProcessTask)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		fiberApp:    fiberApp,
		asynqServer: asynqServer,
		asynqMux:    asynqMux,
		asynqClient: asynqClient,
	}, nil
}

// Run serves until ctx is canceled, then shuts both servers down.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "starting", "addr", app.config.Server.Addr)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.asynqServer.Run(app.asynqMux); err != nil {
			app.logger.Error(ctx, "asynq worker stopped", "err", err)
		}
	}()

	errCh := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errCh <- app.fiberApp.Listen(app.config.Server.Addr)
	}()

	select {
	case <-ctx.Done():
		app.logger.Info(context.Background(), "shutting down")
		if err := app.fiberApp.ShutdownWithTimeout(app.config.Server.ShutdownTimeout); err != nil {
			app.logger.Error(context.Background(), "http shutdown error", "err", err)
		}
		app.asynqServer.Shutdown()
		<-errCh
	case err := <-errCh:
		app.asynqServer.Shutdown()
		if err != nil {
			wg.Wait()
			app.close()
			return fmt.Errorf("http server: %w", err)
		}
	}

	wg.Wait()
	app.close()
	return nil
}

func (app *App) close() {
	_ = app.asynqClient.Close()
	_ = app.db.Close()
}
