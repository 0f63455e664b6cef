package sessionrepo

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/internal/ledgertest"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	alice := ledger.Seed("alice", "password1", "100.00")

	repo := NewRepoHTTP(web.NewClient(srv.URL, 5*time.Second, nil))

	sess, err := repo.Login(context.Background(), domain.Credentials{Username: "alice", Password: "password1"})
	require.NoError(t, err)
	require.Equal(t, alice, sess.User)
	require.NotEmpty(t, sess.Token)

	_, err = repo.Login(context.Background(), domain.Credentials{Username: "alice", Password: "wrongpass"})
	require.ErrorIs(t, err, domain.ErrWrongCredentials)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	repo := NewRepoHTTP(web.NewClient(srv.URL, 5*time.Second, nil))

	creds := domain.Credentials{Username: "dave", Password: "password1"}

	require.NoError(t, repo.Register(context.Background(), creds))

	err := repo.Register(context.Background(), creds)
	require.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)

	// The new account can log straight in.
	sess, err := repo.Login(context.Background(), creds)
	require.NoError(t, err)
	require.Equal(t, "dave", sess.User.Username)
}
