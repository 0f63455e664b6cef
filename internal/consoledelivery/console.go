// Package consoledelivery manages the text menu surface of the client.
// It renders engine output and collects raw input; all transfer rules
// live in the service layer.
package consoledelivery

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/moneypkg"
)

// Sessions provides the session operations the console needs.
type Sessions interface {
	Login(ctx context.Context, username, password string) (domain.User, error)
	Register(ctx context.Context, username, password string) error
	Logout()
}

// Accounts provides the balance lookup the console needs.
type Accounts interface {
	Balance(ctx context.Context) (string, error)
}

// Users provides the user listing the console needs.
type Users interface {
	List(ctx context.Context) ([]domain.User, error)
}

// Transfers provides the workflow engine operations the console needs.
type Transfers interface {
	Send(ctx context.Context, from domain.User, receiverUserID int32, amount string) (domain.Transfer, error)
	Request(ctx context.Context, from domain.User, payerUserID int32, amount string) (domain.Transfer, error)
	History(ctx context.Context, user domain.User) ([]domain.ClassifiedTransfer, error)
	Pending(ctx context.Context, user domain.User) ([]domain.ClassifiedTransfer, error)
	Detail(ctx context.Context, t domain.Transfer) (domain.TransferDetail, error)
	Approve(ctx context.Context, user domain.User, pending map[int64]domain.Transfer, transferID int64) error
	Reject(ctx context.Context, user domain.User, pending map[int64]domain.Transfer, transferID int64) error
}

// Console runs the interactive menus.
type Console struct {
	in  *bufio.Scanner
	out io.Writer

	// eof is set once input runs out; every prompt then reads as the
	// exit/cancel choice so the menus unwind cleanly.
	eof bool

	sessions  Sessions
	accounts  Accounts
	users     Users
	transfers Transfers
}

// New returns a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer, s Sessions, a Accounts, u Users, t Transfers) *Console {
	return &Console{
		in:        bufio.NewScanner(in),
		out:       out,
		sessions:  s,
		accounts:  a,
		users:     u,
		transfers: t,
	}
}

// Run drives the login menu and, after a successful login, the main
// menu, until the user exits.
func (c *Console) Run(ctx context.Context) {
	fmt.Fprintln(c.out, "*********************")
	fmt.Fprintln(c.out, "* Welcome to TEnmo! *")
	fmt.Fprintln(c.out, "*********************")

	for {
		user, ok := c.loginMenu(ctx)
		if !ok {
			return
		}

		if !c.mainMenu(ctx, user) {
			return
		}
	}
}

// loginMenu returns the logged-in user, or ok=false when the user
// chose to exit.
func (c *Console) loginMenu(ctx context.Context) (domain.User, bool) {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "1: Register")
		fmt.Fprintln(c.out, "2: Login")
		fmt.Fprintln(c.out, "0: Exit")

		switch c.promptInt("Please choose an option: ") {
		case 1:
			username, password := c.promptCredentials()

			if err := c.sessions.Register(ctx, username, password); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}

			fmt.Fprintln(c.out, "Registration successful. You can now login.")
		case 2:
			username, password := c.promptCredentials()

			user, err := c.sessions.Login(ctx, username, password)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				continue
			}

			return user, true
		case 0:
			return domain.User{}, false
		default:
			fmt.Fprintln(c.out, "Invalid Selection")
		}
	}
}

// mainMenu returns true when the user logged out (back to the login
// menu) and false when they exited.
func (c *Console) mainMenu(ctx context.Context, user domain.User) bool {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "1: View your current balance")
		fmt.Fprintln(c.out, "2: View your past transfers")
		fmt.Fprintln(c.out, "3: View your pending requests")
		fmt.Fprintln(c.out, "4: Send TE bucks")
		fmt.Fprintln(c.out, "5: Request TE bucks")
		fmt.Fprintln(c.out, "6: Log out")
		fmt.Fprintln(c.out, "0: Exit")

		switch c.promptInt("Please choose an option: ") {
		case 1:
			c.viewBalance(ctx)
		case 2:
			c.viewHistory(ctx, user)
		case 3:
			c.viewPending(ctx, user)
		case 4:
			c.sendBucks(ctx, user)
		case 5:
			c.requestBucks(ctx, user)
		case 6:
			c.sessions.Logout()
			fmt.Fprintln(c.out, "You have been logged out. Goodbye!")

			return true
		case 0:
			return false
		default:
			fmt.Fprintln(c.out, "Invalid Selection")
		}
	}
}

func (c *Console) viewBalance(ctx context.Context) {
	balance, err := c.accounts.Balance(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "Your current account balance is: $%s\n", balance)
}

func (c *Console) viewHistory(ctx context.Context, user domain.User) {
	rows, err := c.transfers.History(ctx, user)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "-------------------------------------------")
	fmt.Fprintln(c.out, "Transfers")

	c.printRows(rows)

	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No transfers found.")
		return
	}

	id := c.promptInt64("Please enter transfer ID to view details (0 to cancel): ")
	if id == 0 {
		return
	}

	for _, row := range rows {
		if row.Transfer.ID == id {
			c.viewDetail(ctx, row.Transfer)
			return
		}
	}

	fmt.Fprintf(c.out, "Error: %v\n", domain.ErrTransferNotFound)
}

func (c *Console) viewDetail(ctx context.Context, t domain.Transfer) {
	detail, err := c.transfers.Detail(ctx, t)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "-------------------------------------------")
	fmt.Fprintf(c.out, "Id: %d\n", detail.ID)
	fmt.Fprintf(c.out, "From: %s\n", detail.From)
	fmt.Fprintf(c.out, "To: %s\n", detail.To)
	fmt.Fprintf(c.out, "Type: %s\n", detail.Type)
	fmt.Fprintf(c.out, "Status: %s\n", detail.Status)
	fmt.Fprintf(c.out, "Amount: $%s\n", moneypkg.FormatString(detail.Amount))
}

func (c *Console) viewPending(ctx context.Context, user domain.User) {
	rows, err := c.transfers.Pending(ctx, user)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "-------------------------------------------")
	fmt.Fprintln(c.out, "Pending Transfers")

	c.printRows(rows)

	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No pending transfers.")
		return
	}

	id := c.promptInt64("Please enter transfer ID to approve/reject (0 to cancel): ")
	if id == 0 {
		return
	}

	pending := make(map[int64]domain.Transfer, len(rows))
	for _, row := range rows {
		pending[row.Transfer.ID] = row.Transfer
	}

	fmt.Fprintln(c.out, "1: Approve")
	fmt.Fprintln(c.out, "2: Reject")
	fmt.Fprintln(c.out, "0: Don't approve or reject")

	switch c.promptInt("Please choose an option: ") {
	case 1:
		if err := c.transfers.Approve(ctx, user, pending, id); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}

		fmt.Fprintln(c.out, "Transfer approved successfully.")
	case 2:
		if err := c.transfers.Reject(ctx, user, pending, id); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}

		fmt.Fprintln(c.out, "Transfer rejected successfully.")
	default:
		fmt.Fprintln(c.out, "No action taken.")
	}
}

func (c *Console) sendBucks(ctx context.Context, user domain.User) {
	if !c.printUsers(ctx, user) {
		return
	}

	receiverID := c.promptInt("Enter ID of user you are sending to (0 to cancel): ")
	if receiverID == 0 {
		return
	}

	amount := c.promptString("Enter amount: ")

	t, err := c.transfers.Send(ctx, user, int32(receiverID), amount)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "Transfer sent successfully. Transfer ID: %d\n", t.ID)
}

func (c *Console) requestBucks(ctx context.Context, user domain.User) {
	if !c.printUsers(ctx, user) {
		return
	}

	payerID := c.promptInt("Enter ID of user you are requesting from (0 to cancel): ")
	if payerID == 0 {
		return
	}

	amount := c.promptString("Enter amount: ")

	t, err := c.transfers.Request(ctx, user, int32(payerID), amount)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(c.out, "Request sent successfully. Transfer ID: %d\n", t.ID)
}

func (c *Console) printUsers(ctx context.Context, current domain.User) bool {
	users, err := c.users.List(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return false
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName")

	for _, u := range users {
		if u.ID == current.ID {
			continue
		}

		fmt.Fprintf(w, "%d\t%s\n", u.ID, u.Username)
	}

	w.Flush()

	return true
}

func (c *Console) printRows(rows []domain.ClassifiedTransfer) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFrom/To\tAmount")

	for _, row := range rows {
		if row.ResolveErr != nil {
			fmt.Fprintf(w, "%d\tunavailable: %v\t$%s\n", row.Transfer.ID, row.ResolveErr, moneypkg.FormatString(row.Transfer.Amount))
			continue
		}

		fmt.Fprintf(w, "%d\t%s %s\t$%s\n", row.Transfer.ID, row.Direction.Label(), row.Counterparty, moneypkg.FormatString(row.Transfer.Amount))
	}

	w.Flush()
}

func (c *Console) promptString(prompt string) string {
	fmt.Fprint(c.out, prompt)

	if !c.in.Scan() {
		c.eof = true
		return ""
	}

	return strings.TrimSpace(c.in.Text())
}

func (c *Console) promptCredentials() (string, string) {
	return c.promptString("Username: "), c.promptString("Password: ")
}

func (c *Console) promptInt(prompt string) int {
	s := c.promptString(prompt)
	if c.eof {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}

	return n
}

func (c *Console) promptInt64(prompt string) int64 {
	s := c.promptString(prompt)
	if c.eof {
		return 0
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1
	}

	return n
}
