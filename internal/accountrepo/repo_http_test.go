package accountrepo

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/internal/ledgertest"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

func TestBalance(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	alice := ledger.Seed("alice", "password1", "100.00")

	repo := NewRepoHTTP(web.NewClient(srv.URL, 5*time.Second, staticToken(ledger.TokenFor(alice))))

	balance, err := repo.Balance(context.Background())
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("100.00")))
}

func TestGet(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	alice := ledger.Seed("alice", "password1", "100.00")
	bob := ledger.Seed("bob", "password1", "50.00")

	repo := NewRepoHTTP(web.NewClient(srv.URL, 5*time.Second, staticToken(ledger.TokenFor(alice))))

	account, err := repo.Get(context.Background(), ledger.AccountOf(bob))
	require.NoError(t, err)
	require.Equal(t, ledger.AccountOf(bob), account.ID)
	require.Equal(t, bob.ID, account.UserID)

	_, err = repo.Get(context.Background(), 9999)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
