// Package services contains the auth core: registration, login, profile
// lookup and account activation, orchestrated over the directory, notifier
// and token-service collaborators.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/flado/awareness/internal/common"
	"github.com/flado/awareness/internal/logging"
	"github.com/flado/awareness/internal/server/auth"
	"github.com/flado/awareness/internal/server/config"
	"github.com/flado/awareness/internal/server/directory"
	"github.com/flado/awareness/internal/server/models"
	"github.com/flado/awareness/internal/server/notify"
)

const (
	// verifyTokenBytes is the entropy of the activation token.
	verifyTokenBytes = 32

	// notifyTimeout bounds the best-effort activation mail call.
	notifyTimeout = 5 * time.Second
)

// Session is the credential returned by register and login.
type Session struct {
	Token string `json:"token"`
	Auth  bool   `json:"auth"`
}

// RegisterInput is the registration payload. LastName is optional.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Service implements the user lifecycle. It holds no per-request state and is
// safe to share across concurrent invocations.
type Service struct {
	directory  directory.Repository
	notifier   notify.Notifier
	tokens     *auth.TokenService
	log        logging.Logger
	baseURL    string
	bcryptCost int
}

func NewService(repo directory.Repository, notifier notify.Notifier, tokens *auth.TokenService, cfg *config.Config, log logging.Logger) *Service {
	return &Service{
		directory:  repo,
		notifier:   notifier,
		tokens:     tokens,
		log:        log,
		baseURL:    cfg.BaseURL,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a pending user record, fires the activation mail and
// returns a fresh session. The caller is authenticated immediately; the
// account does not need to be activated first.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		s.log.Error(ctx, "hashing password", "error", err)
		return nil, common.ErrInternal
	}

	verifyToken, err := common.MakeRandURLSafeString(verifyTokenBytes)
	if err != nil {
		s.log.Error(ctx, "generating verify token", "error", err)
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           models.DeriveID(in.Email),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		VerifyToken:  verifyToken,
		Created:      time.Now(),
	}

	// The conditional create is the only duplicate check; there is no prior
	// read, so two concurrent registrations cannot both pass.
	if err := s.directory.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrConflict
		}
		s.log.Error(ctx, "creating user record", "error", err, "id", user.ID)
		return nil, common.ErrInternal
	}

	s.sendActivationMail(ctx, user)

	return s.session(ctx, user.ID)
}

// Login verifies credentials and returns a fresh session.
//
// TODO: confirm with product whether pending accounts should be allowed to
// log in; today activation gates nothing but the confirmation page.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.directory.Get(ctx, models.DeriveID(email), true)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.log.Error(ctx, "looking up user for login", "error", err)
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	return s.session(ctx, user.ID)
}

// Profile returns the redacted record for an authenticated subject.
func (s *Service) Profile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.directory.Get(ctx, id, false)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.log.Error(ctx, "looking up user profile", "error", err, "id", id)
		return nil, common.ErrInternal
	}
	return user.Redacted(), nil
}

// Activate applies the pending → activated transition. A missing user, a
// missing token, a record without a stored token and a mismatched token are
// indistinguishable to the caller. Re-activating an active account is a
// no-op success.
func (s *Service) Activate(ctx context.Context, id, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrActivation
	}

	user, err := s.directory.Get(ctx, id, false)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrActivation
		}
		s.log.Error(ctx, "looking up user for activation", "error", err, "id", id)
		return nil, common.ErrInternal
	}

	if user.VerifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(user.VerifyToken)) != 1 {
		return nil, common.ErrActivation
	}

	if user.IsActivated() {
		return user.Redacted(), nil
	}

	updated, err := s.directory.SetActivated(ctx, id, time.Now())
	if err != nil {
		s.log.Error(ctx, "applying activation", "error", err, "id", id)
		return nil, common.ErrInternal
	}
	return updated.Redacted(), nil
}

// --- helpers below ---

func (s *Service) session(ctx context.Context, id string) (*Session, error) {
	token, err := s.tokens.Issue(id)
	if err != nil {
		s.log.Error(ctx, "issuing session token", "error", err)
		return nil, common.ErrInternal
	}
	return &Session{Token: token, Auth: true}, nil
}

// sendActivationMail is best effort: its failure is logged and never joins
// the registration result.
func (s *Service) sendActivationMail(ctx context.Context, user *models.User) {
	sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	subject, body := notify.ActivationMail(user.FirstName,
		notify.ActivationURL(s.baseURL, user.ID, user.VerifyToken))

	if err := s.notifier.Send(sendCtx, user.Email, subject, body); err != nil {
		s.log.Warn(ctx, "sending activation mail failed", "error", err, "id", user.ID)
	}
}

const (
	msgPasswordTooShort  = "Password needs to be longer than 7 characters"
	msgFirstNameTooShort = "First name needs to be longer than 2 characters"
	msgEmailInvalid      = "Email must have valid characters"
)

// validateRegistration checks the payload field by field in a fixed order so
// the reported failure is deterministic: password, then firstName, then
// email.
func validateRegistration(in RegisterInput) error {
	if err := validation.Validate(in.Password,
		validation.Required, validation.Length(7, 0)); err != nil {
		return common.NewValidationError("password", msgPasswordTooShort)
	}
	if err := validation.Validate(in.FirstName,
		validation.Required, validation.Length(3, 0)); err != nil {
		return common.NewValidationError("firstName", msgFirstNameTooShort)
	}
	if err := validation.Validate(in.Email, validation.Required); err != nil {
		return common.NewValidationError("email", msgEmailInvalid)
	}
	return nil
}
