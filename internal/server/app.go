// Package server initializes and runs the feedback board server. It wires
// configuration, logging, the database connection with its migrations, the
// domain services, and the HTTP endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/feedbackboard/internal/logging"
	"github.com/dmitrijs2005/feedbackboard/internal/server/authz"
	"github.com/dmitrijs2005/feedbackboard/internal/server/config"
	"github.com/dmitrijs2005/feedbackboard/internal/server/credentials"
	"github.com/dmitrijs2005/feedbackboard/internal/server/httpapi"
	"github.com/dmitrijs2005/feedbackboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/feedbackboard/internal/server/services"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	feedbackService *services.FeedbackService
	guard           *authz.Guard
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	hasher := credentials.NewHasher(c.BcryptCost)
	us := services.NewUserService(db, rm, hasher)
	fs := services.NewFeedbackService(db, rm)
	guard := authz.NewGuard(us)

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		userService:     us,
		feedbackService: fs,
		guard:           guard,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.feedbackService, app.guard,
		app.config.SecretKey, app.config.SessionTokenValidityDuration)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
