// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

// RepoHTTP facilitates account repository layer logic over the ledger
// HTTP API.
type RepoHTTP struct {
	client *web.Client
}

// NewRepoHTTP returns account RepoHTTP.
func NewRepoHTTP(client *web.Client) *RepoHTTP {
	return &RepoHTTP{
		client: client,
	}
}

// Balance returns the current user's account balance.
func (r *RepoHTTP) Balance(ctx context.Context) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	var balance decimal.Decimal

	err := r.client.Get(ctx, "/account/balance", &balance)
	if err != nil {
		l.Warn().Err(err).Send()
		return decimal.Decimal{}, translateError(err)
	}

	return balance, nil
}

// Get fetches the account with the given id, used to resolve the
// owning user of a transfer side.
func (r *RepoHTTP) Get(ctx context.Context, id int32) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var account domain.Account

	err := r.client.Get(ctx, fmt.Sprintf("/accounts/%d", id), &account)
	if err != nil {
		l.Warn().Err(err).Send()
		return domain.Account{}, translateError(err)
	}

	return account, nil
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
		return domain.ErrAccountNotFound
	}

	return err
}
