// Package services contains server-side business logic. This file implements
// UserService: the credential store and session lifecycle — registration,
// credential checks, token issue/revocation, profile updates, and the
// cascading account delete.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// defaultAge is used when registration omits the age field.
const defaultAge = 18

// Notifier sends account lifecycle emails. Sends are best-effort and must
// never fail the triggering operation.
type Notifier interface {
	SendWelcome(to, name string) error
	SendCancellation(to, name string) error
}

// profileFields is the allow-list for UpdateProfile.
var profileFields = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"age":      {},
}

// bcrypt seams for tests.
var (
	bcryptGenerate = bcrypt.GenerateFromPassword
	bcryptCompare  = bcrypt.CompareHashAndPassword
)

// UserService provides credential-store operations:
// - Register: validate, hash, create, issue the first token
// - Login: verify credentials and mint a new session token
// - RevokeToken / RevokeAllTokens: logout one or all sessions
// - UpdateProfile: allow-listed, all-or-nothing profile mutation
// - DeleteAccount: transactional cascade over tasks, sessions, and the user row
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	notifier      Notifier
	logger        logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, notifier Notifier, logger logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		notifier:      notifier,
		logger:        logger,
	}
}

// Register creates a new user with a freshly hashed password and issues the
// first session token. The welcome notification is fire-and-forget.
func (s *UserService) Register(ctx context.Context, name, email, password string, age *int) (*models.User, string, error) {
	email = normalizeEmail(email)

	if err := validateName(name); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}

	userAge := defaultAge
	if age != nil {
		userAge = *age
	}
	if err := validateAge(userAge); err != nil {
		return nil, "", err
	}

	hash, err := bcryptGenerate([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, Age: userAge, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", fmt.Errorf("%w: email is already taken", common.ErrorValidation)
		}
		return nil, "", common.ErrorInternal
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.notify(user, func(n Notifier, u *models.User) error { return n.SendWelcome(u.Email, u.Name) })

	return user, token, nil
}

// Authenticate looks a user up by normalized email and verifies the password.
// Unknown email and wrong password are logged differently but both surface as
// the same generic ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login attempt for unknown email")
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcryptCompare(user.PasswordHash, []byte(password)); err != nil {
		s.logger.Info(ctx, "login attempt with wrong password", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// Login authenticates by email and password and issues a new session token.
// Each call yields an independent token; prior sessions stay valid.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// IssueToken mints a signed token for the user and appends it to the live
// session set. The append is a single insert, so concurrent logins for the
// same user never drop each other's tokens.
func (s *UserService) IssueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}

	repo := s.repomanager.Sessions(s.db)
	if err := repo.Create(ctx, user.ID, token); err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// RevokeToken removes exactly the presented token from the user's session set.
// Revoking an already-absent token is a no-op.
func (s *UserService) RevokeToken(ctx context.Context, userID, token string) error {
	repo := s.repomanager.Sessions(s.db)
	if err := repo.Delete(ctx, userID, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// RevokeAllTokens clears the user's entire session set (logout everywhere).
func (s *UserService) RevokeAllTokens(ctx context.Context, userID string) error {
	repo := s.repomanager.Sessions(s.db)
	if err := repo.DeleteAllForUser(ctx, userID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// UpdateProfile applies an allow-listed update to the user. Any disallowed
// key rejects the whole update with ErrorInvalidOperation before anything is
// mutated; a password change is re-hashed before persistence.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, updates map[string]any) (*models.User, error) {
	for key := range updates {
		if _, ok := profileFields[key]; !ok {
			return nil, fmt.Errorf("%w: field %q is not updatable", common.ErrorInvalidOperation, key)
		}
	}

	updated := *user

	for key, value := range updates {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: name must be a string", common.ErrorValidation)
			}
			if err := validateName(name); err != nil {
				return nil, err
			}
			updated.Name = name
		case "email":
			email, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: email must be a string", common.ErrorValidation)
			}
			email = normalizeEmail(email)
			if err := validateEmail(email); err != nil {
				return nil, err
			}
			updated.Email = email
		case "password":
			password, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: password must be a string", common.ErrorValidation)
			}
			if err := validatePassword(password); err != nil {
				return nil, err
			}
			hash, err := bcryptGenerate([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, common.ErrorInternal
			}
			updated.PasswordHash = hash
		case "age":
			// JSON numbers arrive as float64
			age, ok := value.(float64)
			if !ok || age != float64(int(age)) {
				return nil, fmt.Errorf("%w: age must be an integer", common.ErrorValidation)
			}
			if err := validateAge(int(age)); err != nil {
				return nil, err
			}
			updated.Age = int(age)
		}
	}

	repo := s.repomanager.Users(s.db)
	result, err := repo.Update(ctx, &updated)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: email is already taken", common.ErrorValidation)
		}
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return result, nil
}

// DeleteAccount removes the user's tasks, sessions, and record in one
// transaction. If any phase fails the whole cascade rolls back, so the
// account is never left without its tasks or vice versa. The cancellation
// notification is fire-and-forget after commit.
func (s *UserService) DeleteAccount(ctx context.Context, user *models.User) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tasks(tx).DeleteAllForOwner(ctx, user.ID); err != nil {
			return err
		}
		if err := s.repomanager.Sessions(tx).DeleteAllForUser(ctx, user.ID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	s.notify(user, func(n Notifier, u *models.User) error { return n.SendCancellation(u.Email, u.Name) })

	return nil
}

// notify runs a notification off the critical path; failures are only logged.
func (s *UserService) notify(user *models.User, send func(Notifier, *models.User) error) {
	if s.notifier == nil {
		return
	}
	u := *user
	go func() {
		if err := send(s.notifier, &u); err != nil {
			s.logger.Error(context.Background(), "notification failed", "user_id", u.ID, "error", err.Error())
		}
	}()
}
