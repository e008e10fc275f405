// Package auth is the credential store: it owns password hashes and
// the session-cookie signing used by the HTTP layer. Plaintext
// passwords are hashed on arrival and never stored or logged.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"cloakchat/internal/config"
	"cloakchat/internal/domain"
	"cloakchat/internal/models"
	"cloakchat/internal/sanitize"
	"cloakchat/internal/store"
)

type Service struct {
	store  store.Store
	logger *slog.Logger
	cost   int
	minLen int
}

func NewService(st store.Store, logger *slog.Logger, cfg config.AuthConfig) *Service {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	minLen := cfg.MinPasswordLen
	if minLen <= 0 {
		minLen = 6
	}
	return &Service{store: st, logger: logger, cost: cost, minLen: minLen}
}

// Register creates a user and returns its identifier. The username and
// email must be unused; the password must meet the minimum length.
func (s *Service) Register(ctx context.Context, username, email, password, displayName string) (string, error) {
	if !sanitize.ValidUsername(username) || !sanitize.ValidEmail(email) || !sanitize.ValidDisplayName(displayName) {
		return "", domain.ErrWeakCredential
	}
	if len(password) < s.minLen {
		return "", domain.ErrWeakCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			s.logger.Warn("registration rejected, identity taken", "username", username)
		} else {
			s.logger.Error("user creation failed", "error", err)
		}
		return "", err
	}

	s.logger.Info("user registered", "username", username, "user_id", user.ID)
	return user.ID, nil
}

// dummyHash keeps Login's bcrypt work constant for unknown identities.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("cloakchat-placeholder"), bcrypt.MinCost)
	return h
}()

// Login resolves the identifier as a username first, then as an email.
// Unknown identity and wrong password both surface as ErrAuthFailure so
// callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = s.store.GetUserByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Warn("login failed", "identifier", identifier)
			return nil, domain.ErrAuthFailure
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed", "identifier", identifier)
		return nil, domain.ErrAuthFailure
	}

	if err := s.store.UpdateOnlineStatus(ctx, user.ID, true); err != nil {
		s.logger.Warn("could not mark user online", "user_id", user.ID, "error", err)
	}
	user.IsOnline = true

	s.logger.Info("login successful", "user_id", user.ID)
	return user, nil
}

// Logout clears the online flag.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.store.UpdateOnlineStatus(ctx, userID, false)
}

// ChangePassword verifies the old password before accepting the new
// one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrAuthFailure
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrAuthFailure
	}
	if len(newPassword) < s.minLen {
		return domain.ErrWeakCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// UpdateProfile changes the display name and email.
func (s *Service) UpdateProfile(ctx context.Context, userID, displayName, email string) error {
	if !sanitize.ValidDisplayName(displayName) || !sanitize.ValidEmail(email) {
		return domain.ErrWeakCredential
	}
	return s.store.UpdateProfile(ctx, userID, displayName, email)
}
