package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// Identity is the result of a successful token verification: the resolved
// user plus the specific token that was presented, so that a later logout can
// revoke exactly that session.
type Identity struct {
	User  *models.User
	Token string
}

// SessionService is the session authenticator. Verify is a pure
// read-then-compare: it never mutates state.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	logger      logging.Logger
}

// NewSessionService constructs a SessionService using repositories and server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		logger:      logger,
	}
}

// Verify checks the token's signature and expiry, resolves the embedded user,
// and confirms the exact token is still in that user's live session set.
// Every failure mode surfaces as the same generic ErrorUnauthorized; the
// distinction is kept for logging only.
func (s *SessionService) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	userID, err := auth.GetUserIDFromToken(rawToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			s.logger.Info(ctx, "rejected expired token")
		} else {
			s.logger.Info(ctx, "rejected malformed token")
		}
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "token for unknown user", "user_id", userID)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	live, err := s.repomanager.Sessions(s.db).Exists(ctx, user.ID, rawToken)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !live {
		s.logger.Info(ctx, "rejected revoked token", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	return &Identity{User: user, Token: rawToken}, nil
}
