// Package server initializes and runs the expense tracker server.
// It connects the document store, wires repositories, services and the mail
// dispatcher together, starts the HTTP endpoint and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/thecloudydeveloper/expense-tracker/internal/logging"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/config"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/mailer"
	expensesrepo "github.com/thecloudydeveloper/expense-tracker/internal/server/repositories/expenses"
	usersrepo "github.com/thecloudydeveloper/expense-tracker/internal/server/repositories/users"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/rest"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/services"
	"github.com/thecloudydeveloper/expense-tracker/internal/server/shared/db"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	dispatcher *mailer.Dispatcher
	restServer *rest.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return nil, fmt.Errorf("db index error: %w", err)
	}

	usersRepo := usersrepo.NewMongoRepository(database)
	expensesRepo := expensesrepo.NewMongoRepository(database)

	var sender mailer.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mailer.NewSendGridSender(cfg.SendGridAPIKey, cfg.SenderEmail)
	} else {
		logger.Warn(ctx, "no SendGrid API key configured, verification mails will be logged only")
		sender = mailer.NewLogSender(logger)
	}
	dispatcher := mailer.NewDispatcher(sender, logger, cfg.MailSendTimeout)

	userService := services.NewUserService(usersRepo, expensesRepo, dispatcher, logger, cfg)
	expenseService := services.NewExpenseService(expensesRepo, usersRepo, logger)

	restServer := rest.NewServer(cfg, logger, userService, expenseService)

	return &App{
		config:     cfg,
		logger:     logger,
		dispatcher: dispatcher,
		restServer: restServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the mail dispatcher and the HTTP server and blocks until both
// have stopped. The first fatal server error, or an OS signal, cancels the
// shared context and triggers shutdown of everything else.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.dispatcher.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.restServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
		cancelFunc()
	}()

	wg.Wait()
}
