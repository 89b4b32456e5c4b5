// Package server initializes and runs the TaskKeeper server: it opens the
// database, applies migrations, wires the services, and starts the HTTP
// endpoint with graceful shutdown on SIGINT/SIGTERM.
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

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	hs "github.com/dmitrijs2005/taskkeeper/internal/server/http"
	"github.com/dmitrijs2005/taskkeeper/internal/server/mail"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	userService    *services.UserService
	sessionService *services.SessionService
	taskService    *services.TaskService
	avatarService  *services.AvatarService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	mailer := mail.New(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword, c.SMTPSender)

	us := services.NewUserService(db, m, c, mailer, logger)
	ss := services.NewSessionService(db, m, c, logger)
	ts := services.NewTaskService(db, m)
	as := services.NewAvatarService(db, m, c)

	return &App{
		config:         c,
		logger:         logger,
		userService:    us,
		sessionService: ss,
		taskService:    ts,
		avatarService:  as,
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := hs.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.sessionService,
		app.taskService, app.avatarService, app.config.RateLimitRPS, app.config.RateLimitBurst)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
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
}
