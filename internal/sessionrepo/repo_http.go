// Package sessionrepo manages repository layer of sessions.
package sessionrepo

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

// RepoHTTP facilitates session repository layer logic over the ledger
// HTTP API. It is the only repository that runs unauthenticated.
type RepoHTTP struct {
	client *web.Client
}

// NewRepoHTTP returns session RepoHTTP.
func NewRepoHTTP(client *web.Client) *RepoHTTP {
	return &RepoHTTP{
		client: client,
	}
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the authenticated
// user.
func (r *RepoHTTP) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	l := zerolog.Ctx(ctx)

	var res loginResponse

	err := r.client.Post(ctx, "/login", creds, &res)
	if err != nil {
		l.Warn().Err(err).Send()

		if apiErr, ok := web.AsAPIError(err); ok {
			if apiErr.StatusCode == http.StatusUnauthorized {
				return domain.Session{}, domain.ErrWrongCredentials
			}
		}

		return domain.Session{}, err
	}

	return domain.Session{User: res.User, Token: res.Token}, nil
}

// Register creates a new user account on the ledger service.
func (r *RepoHTTP) Register(ctx context.Context, creds domain.Credentials) error {
	l := zerolog.Ctx(ctx)

	err := r.client.Post(ctx, "/register", creds, nil)
	if err != nil {
		l.Warn().Err(err).Send()

		if apiErr, ok := web.AsAPIError(err); ok {
			if apiErr.StatusCode == http.StatusConflict {
				return domain.ErrUsernameAlreadyExists
			}
		}

		return err
	}

	return nil
}
