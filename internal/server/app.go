// Package server initializes and runs the market backend: it opens the
// database, runs migrations, builds the field cipher and the services, and
// serves the HTTP endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oullim/market/internal/cryptox"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/config"
	"github.com/oullim/market/internal/server/httpapi"
	"github.com/oullim/market/internal/server/repositories/repomanager"
	"github.com/oullim/market/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	key, err := cfg.EncryptionKey()
	if err != nil {
		return nil, err
	}
	cipher, err := cryptox.NewFieldCipher(key)
	if err != nil {
		return nil, err
	}

	sender := services.NewLogEmailSender(logger)

	srv := httpapi.NewServer(cfg, httpapi.Services{
		Users:      services.NewUserService(db, rm, cipher, sender, cfg, logger),
		Sellers:    services.NewSellerService(db, rm, cipher, logger),
		Deliveries: services.NewDeliveryService(db, rm, cipher, logger),
		Bills:      services.NewBillService(db, rm, cipher, logger),
		Cart:       services.NewCartService(db, rm, logger),
		Images:     services.NewImageService(cfg),
	}, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
