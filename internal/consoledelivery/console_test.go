package consoledelivery

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tebucks/tebucks-cli/internal/accountrepo"
	"github.com/tebucks/tebucks-cli/internal/accountservice"
	"github.com/tebucks/tebucks-cli/internal/directoryservice"
	"github.com/tebucks/tebucks-cli/internal/ledgertest"
	"github.com/tebucks/tebucks-cli/internal/sessionrepo"
	"github.com/tebucks/tebucks-cli/internal/sessionservice"
	"github.com/tebucks/tebucks-cli/internal/transferrepo"
	"github.com/tebucks/tebucks-cli/internal/transferservice"
	"github.com/tebucks/tebucks-cli/internal/userrepo"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

// runScript wires the full client stack against the fake ledger and
// feeds it the given console input.
func runScript(t *testing.T, baseURL string, script ...string) string {
	t.Helper()

	loginClient := web.NewClient(baseURL, 5*time.Second, nil)
	sessions := sessionservice.New(sessionrepo.NewRepoHTTP(loginClient))

	apiClient := web.NewClient(baseURL, 5*time.Second, sessions)
	accountRepo := accountrepo.NewRepoHTTP(apiClient)
	userRepo := userrepo.NewRepoHTTP(apiClient)
	transferRepo := transferrepo.NewRepoHTTP(apiClient)

	directory := directoryservice.New(accountRepo, userRepo)
	transfers := transferservice.New(transferRepo, directory)
	accounts := accountservice.New(accountRepo)

	var out bytes.Buffer

	console := New(strings.NewReader(strings.Join(script, "\n")+"\n"), &out, sessions, accounts, userRepo, transfers)
	console.Run(context.Background())

	return out.String()
}

func TestSendFlow(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	alice := ledger.Seed("alice", "password1", "100.00")
	bob := ledger.Seed("bob", "password1", "50.00")

	out := runScript(t, srv.URL,
		"2", "alice", "password1", // login
		"1",               // balance
		"4", "2", "25.00", // send to bob
		"1",      // balance again
		"2", "0", // history, no detail
		"0", // exit
	)

	require.Contains(t, out, "Your current account balance is: $100.00")
	require.Contains(t, out, "Transfer sent successfully.")
	require.Contains(t, out, "Your current account balance is: $75.00")
	require.Contains(t, out, "To bob")

	require.Equal(t, "75.00", ledger.BalanceOf(alice))
	require.Equal(t, "75.00", ledger.BalanceOf(bob))
}

func TestRequestApproveFlow(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	alice := ledger.Seed("alice", "password1", "100.00")
	bob := ledger.Seed("bob", "password1", "50.00")

	out := runScript(t, srv.URL,
		"2", "alice", "password1",
		"5", "2", "10.00", // request from bob
		"0",
	)
	require.Contains(t, out, "Request sent successfully. Transfer ID: 3000")

	// Bob, the payer, sees and approves the pending request.
	out = runScript(t, srv.URL,
		"2", "bob", "password1",
		"3", "3000", "1", // pending -> approve
		"1", // balance
		"0",
	)
	require.Contains(t, out, "To alice")
	require.Contains(t, out, "Transfer approved successfully.")
	require.Contains(t, out, "Your current account balance is: $40.00")

	require.Equal(t, "110.00", ledger.BalanceOf(alice))
	require.Equal(t, "40.00", ledger.BalanceOf(bob))
}

func TestWrongPassword(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	ledger.Seed("alice", "password1", "100.00")

	out := runScript(t, srv.URL,
		"2", "alice", "wrongpass",
		"0",
	)

	require.Contains(t, out, "Error: wrong username or password")
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	ledger := ledgertest.New()
	srv := httptest.NewServer(ledger.Router())
	defer srv.Close()

	out := runScript(t, srv.URL,
		"1", "dave", "password1", // register
		"2", "dave", "password1", // login
		"1", // balance
		"6", // logout
		"0",
	)

	require.Contains(t, out, "Registration successful. You can now login.")
	require.Contains(t, out, "Your current account balance is: $1000.00")
	require.Contains(t, out, "You have been logged out. Goodbye!")
}
