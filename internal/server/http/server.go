// Package http is the REST binding of the server. Handlers decode requests,
// call the services, and map the error taxonomy onto status codes; all
// business rules live below this layer.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, name, email, password string, age *int) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	RevokeToken(ctx context.Context, userID, token string) error
	RevokeAllTokens(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, user *models.User, updates map[string]any) (*models.User, error)
	DeleteAccount(ctx context.Context, user *models.User) error
}

type sessionSvc interface {
	Verify(ctx context.Context, rawToken string) (*services.Identity, error)
}

type taskSvc interface {
	List(ctx context.Context, ownerID string, opts services.ListOptions) ([]*models.Task, error)
	Create(ctx context.Context, ownerID, description string, completed bool) (*models.Task, error)
	Get(ctx context.Context, ownerID, id string) (*models.Task, error)
	Update(ctx context.Context, ownerID, id string, updates map[string]any) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) (*models.Task, error)
}

type avatarSvc interface {
	Upload(ctx context.Context, user *models.User, data []byte) error
	Download(ctx context.Context, userID string) ([]byte, error)
	Remove(ctx context.Context, user *models.User) error
}

type Server struct {
	address        string
	logger         logging.Logger
	users          userSvc
	sessions       sessionSvc
	tasks          taskSvc
	avatars        avatarSvc
	rateLimitRPS   float64
	rateLimitBurst int
}

func NewServer(address string, logger logging.Logger, users *services.UserService, sessions *services.SessionService,
	tasks *services.TaskService, avatars *services.AvatarService, rateLimitRPS float64, rateLimitBurst int) (*Server, error) {
	return &Server{
		address:        address,
		logger:         logger.With("module", "http_server"),
		users:          users,
		sessions:       sessions,
		tasks:          tasks,
		avatars:        avatars,
		rateLimitRPS:   rateLimitRPS,
		rateLimitBurst: rateLimitBurst,
	}, nil
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.rateLimit(s.routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
