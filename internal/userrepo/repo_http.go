// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

// RepoHTTP facilitates user repository layer logic over the ledger
// HTTP API.
type RepoHTTP struct {
	client *web.Client
}

// NewRepoHTTP returns user RepoHTTP.
func NewRepoHTTP(client *web.Client) *RepoHTTP {
	return &RepoHTTP{
		client: client,
	}
}

// List returns all users known to the ledger service in the order the
// service sends them.
func (r *RepoHTTP) List(ctx context.Context) ([]domain.User, error) {
	l := zerolog.Ctx(ctx)

	var users []domain.User

	err := r.client.Get(ctx, "/account/users", &users)
	if err != nil {
		l.Warn().Err(err).Send()
		return nil, translateError(err)
	}

	return users, nil
}

// Get fetches the user with the given id.
func (r *RepoHTTP) Get(ctx context.Context, id int32) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var user domain.User

	err := r.client.Get(ctx, fmt.Sprintf("/users/%d", id), &user)
	if err != nil {
		l.Warn().Err(err).Send()
		return domain.User{}, translateError(err)
	}

	return user, nil
}

func translateError(err error) error {
	apiErr, ok := web.AsAPIError(err)
	if !ok {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrNotAuthenticated
	case http.StatusNotFound:
		return domain.ErrUserNotFound
	}

	return err
}
