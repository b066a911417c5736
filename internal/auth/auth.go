// Package auth implements registration, login and token checks. It is the gate in front of
// every contacts operation: handlers only ever see the user id it extracts from a valid token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/dirk.krummacker/mycontacts/internal/apperror"
	"gitlab.com/dirk.krummacker/mycontacts/internal/logger"
	"gitlab.com/dirk.krummacker/mycontacts/internal/model"
	"gitlab.com/dirk.krummacker/mycontacts/internal/store"
	"gitlab.com/dirk.krummacker/mycontacts/internal/validation"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Generate(userID string) (string, error)
	Parse(token string) (string, error)
}

type credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service is the session/auth gate.
type Service struct {
	users     store.UserStore
	tokens    TokenManager
	cost      int
	dummyHash []byte
	validate  *validator.Validate
	now       func() time.Time
	logger    *logger.Logger
}

// NewService creates the auth service. cost is the bcrypt cost used for new passwords.
func NewService(users store.UserStore, tokens TokenManager, cost int, log *logger.Logger) (*Service, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		cost:      cost,
		dummyHash: dummy,
		validate:  validation.New(),
		now:       time.Now,
		logger:    log,
	}, nil
}

// Register creates a new user and returns it together with a fresh token.
func (s *Service) Register(ctx context.Context, username, password string) (model.User, string, error) {
	username = strings.TrimSpace(username)
	s.logger.Debug("Auth service: registering user", "username", username)

	if err := s.checkCredentials(username, password); err != nil {
		return model.User{}, "", err
	}

	_, err := s.users.UserByUsername(ctx, username)
	switch {
	case err == nil:
		s.logger.Info("Auth service: username already taken", "username", username)
		return model.User{}, "", apperror.Conflict("username already taken")
	case !errors.Is(err, store.ErrNotFound):
		return model.User{}, "", s.storeError("failed to look up user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.User{}, "", apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user, err := s.users.CreateUser(ctx, model.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	})
	if errors.Is(err, store.ErrDuplicate) {
		// lost a race against a concurrent registration
		return model.User{}, "", apperror.Conflict("username already taken")
	}
	if err != nil {
		return model.User{}, "", s.storeError("failed to create user", err)
	}

	tok, err := s.issue(user.ID)
	if err != nil {
		return model.User{}, "", err
	}

	s.logger.Info("Auth service: user registered", "username", username, "user_id", user.ID)
	return user, tok, nil
}

// Login verifies the credentials and returns the user together with a fresh token. Unknown
// users and wrong passwords are reported identically.
func (s *Service) Login(ctx context.Context, username, password string) (model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.User{}, "", apperror.Unauthorized("invalid username or password")
	}

	user, err := s.users.UserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.logger.Info("Auth service: login for unknown user", "username", username)
		return model.User{}, "", apperror.Unauthorized("invalid username or password")
	}
	if err != nil {
		return model.User{}, "", s.storeError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Auth service: wrong password", "username", username)
		return model.User{}, "", apperror.Unauthorized("invalid username or password")
	}

	tok, err := s.issue(user.ID)
	if err != nil {
		return model.User{}, "", err
	}
	return user, tok, nil
}

// Authenticate validates a bearer token and returns the user id it was issued for.
func (s *Service) Authenticate(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", apperror.Unauthorized("missing token")
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("Auth service: rejected token", "error", err.Error())
		return "", apperror.Unauthorized("invalid or expired token").Wrap(err)
	}
	return userID, nil
}

// CurrentUser returns the user the token belongs to.
func (s *Service) CurrentUser(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.UserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return model.User{}, apperror.Unauthorized("user no longer exists")
	}
	if err != nil {
		return model.User{}, s.storeError("failed to get user", err)
	}
	return user, nil
}

func (s *Service) checkCredentials(username, password string) error {
	if strings.TrimSpace(password) == "" {
		password = ""
	}
	err := s.validate.Struct(credentials{Username: username, Password: password})
	fields := validation.Fields(err)
	if fields == nil {
		fields = map[string]string{}
	}
	if len(password) > maxPasswordBytes {
		fields["password"] = fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	}
	if len(fields) == 0 {
		return nil
	}
	return apperror.Validation(validation.Summary(fields, "username", "password"), fields)
}

func (s *Service) issue(userID string) (string, error) {
	tok, err := s.tokens.Generate(userID)
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return tok, nil
}

func (s *Service) storeError(msg string, err error) error {
	s.logger.Error("Auth service: "+msg, "error", err.Error())
	if errors.Is(err, store.ErrUnavailable) {
		return apperror.Unavailable(err)
	}
	return apperror.Internal(fmt.Errorf("%s: %w", msg, err))
}
