// Package sessionservice manages business logic layer of sessions.
package sessionservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/tokenpkg"
)

// Repo provides data access layer interface needed by session service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sessionservice
type Repo interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, creds domain.Credentials) error
}

// Service holds the single active session of the running client and
// manages its lifecycle. It also acts as the token source for all
// authenticated outbound requests.
type Service struct {
	repo     Repo
	validate *validator.Validate
	now      func() time.Time

	session domain.Session
}

// New returns session service struct to manage session business logic.
func New(sr Repo) *Service {
	return &Service{
		repo:     sr,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *Service) checkCredentials(ctx context.Context, creds domain.Credentials) error {
	l := zerolog.Ctx(ctx)

	if err := s.validate.Struct(creds); err != nil {
		l.Info().Err(err).Send()
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	return nil
}

// Login authenticates against the ledger service and stores the
// resulting session. The previous session, if any, is replaced.
func (s *Service) Login(ctx context.Context, username, password string) (domain.User, error) {
	creds := domain.Credentials{Username: username, Password: password}

	if err := s.checkCredentials(ctx, creds); err != nil {
		return domain.User{}, err
	}

	sess, err := s.repo.Login(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}

	// Expiry is read from the token claims when the service issues a
	// JWT; opaque tokens simply never expire locally.
	if payload, err := tokenpkg.Parse(sess.Token); err == nil {
		sess.ExpiresAt = payload.ExpiredAt
	}

	s.session = sess

	return sess.User, nil
}

// Register creates a new user on the ledger service. It does not log
// the user in.
func (s *Service) Register(ctx context.Context, username, password string) error {
	creds := domain.Credentials{Username: username, Password: password}

	if err := s.checkCredentials(ctx, creds); err != nil {
		return err
	}

	return s.repo.Register(ctx, creds)
}

// Logout clears the active session.
func (s *Service) Logout() {
	s.session = domain.Session{}
}

// Current returns the authenticated user, or ErrNotAuthenticated when
// there is no active session.
func (s *Service) Current() (domain.User, error) {
	if !s.session.Active(s.now()) {
		return domain.User{}, domain.ErrNotAuthenticated
	}

	return s.session.User, nil
}

// Token returns the bearer credential for outbound requests. It
// implements web.TokenSource so that every repository call fails fast
// with ErrNotAuthenticated before touching the network.
func (s *Service) Token() (string, error) {
	if !s.session.Active(s.now()) {
		return "", domain.ErrNotAuthenticated
	}

	return s.session.Token, nil
}
