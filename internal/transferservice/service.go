// Package transferservice manages business logic layer of transfers:
// it builds transfer intents, classifies retrieved transfers for
// display and drives pending transfers through approval or rejection.
package transferservice

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tebucks/tebucks-cli/internal/domain"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Create(ctx context.Context, receiverUserID int32, amount string) (domain.Transfer, error)
	Request(ctx context.Context, payerUserID int32, amount string) (domain.Transfer, error)
	ListForUser(ctx context.Context) (map[int64]domain.Transfer, error)
	ListPending(ctx context.Context) (map[int64]domain.Transfer, error)
	UpdateStatus(ctx context.Context, transferID int64, status domain.TransferStatus) error
}

// Directory resolves transfer account ids to owners and display names.
type Directory interface {
	OwnerOf(ctx context.Context, accountID int32) (int32, error)
	UsernameOf(ctx context.Context, userID int32) (string, error)
	Warm(ctx context.Context, accountIDs []int32)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo Repo
	dir  Directory
}

// New returns transfer service struct to manage transfer business logic.
func New(tr Repo, dir Directory) *Service {
	return &Service{
		repo: tr,
		dir:  dir,
	}
}

func (s *Service) validIntent(ctx context.Context, from domain.User, counterpartyID int32, amount string) error {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	if counterpartyID == from.ID {
		return domain.ErrSelfTransfer
	}

	return nil
}

// Send moves money from the current user to the receiver. The transfer
// is finalized by the service immediately; there is nothing to approve.
func (s *Service) Send(ctx context.Context, from domain.User, receiverUserID int32, amount string) (domain.Transfer, error) {
	if err := s.validIntent(ctx, from, receiverUserID, amount); err != nil {
		return domain.Transfer{}, err
	}

	return s.repo.Create(ctx, receiverUserID, amount)
}

// Request asks the payer for money. The resulting transfer stays
// Pending until the payer approves or rejects it.
func (s *Service) Request(ctx context.Context, from domain.User, payerUserID int32, amount string) (domain.Transfer, error) {
	if err := s.validIntent(ctx, from, payerUserID, amount); err != nil {
		return domain.Transfer{}, err
	}

	return s.repo.Request(ctx, payerUserID, amount)
}

// History returns the user's transfers classified for display, ordered
// by transfer id.
func (s *Service) History(ctx context.Context, user domain.User) ([]domain.ClassifiedTransfer, error) {
	transfers, err := s.repo.ListForUser(ctx)
	if err != nil {
		return nil, err
	}

	return s.classifyAll(ctx, user, transfers), nil
}

// Pending returns the pending transfers involving the user, classified
// for display and ordered by transfer id.
func (s *Service) Pending(ctx context.Context, user domain.User) ([]domain.ClassifiedTransfer, error) {
	transfers, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	return s.classifyAll(ctx, user, transfers), nil
}

func (s *Service) classifyAll(ctx context.Context, user domain.User, transfers map[int64]domain.Transfer) []domain.ClassifiedTransfer {
	accountIDs := make([]int32, 0, 2*len(transfers))
	ids := make([]int64, 0, len(transfers))

	for id, t := range transfers {
		ids = append(ids, id)
		accountIDs = append(accountIDs, t.FromAccountID, t.ToAccountID)
	}

	s.dir.Warm(ctx, accountIDs)

	// Map iteration order is random; sort by id for stable display.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]domain.ClassifiedTransfer, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, s.Classify(ctx, user, transfers[id]))
	}

	return rows
}

// Classify determines the transfer's direction relative to the user
// and resolves the counterparty name. A directory failure is recorded
// on the row instead of aborting the listing.
func (s *Service) Classify(ctx context.Context, user domain.User, t domain.Transfer) domain.ClassifiedTransfer {
	l := zerolog.Ctx(ctx)

	row := domain.ClassifiedTransfer{Transfer: t}

	ownerTo, err := s.dir.OwnerOf(ctx, t.ToAccountID)
	if err != nil {
		l.Warn().Err(err).Int64("transfer_id", t.ID).Send()
		row.ResolveErr = err

		return row
	}

	counterpartyUserID := ownerTo
	row.Direction = domain.DirectionOutgoing

	if ownerTo == user.ID {
		row.Direction = domain.DirectionIncoming

		counterpartyUserID, err = s.dir.OwnerOf(ctx, t.FromAccountID)
		if err != nil {
			l.Warn().Err(err).Int64("transfer_id", t.ID).Send()
			row.ResolveErr = err

			return row
		}
	}

	name, err := s.dir.UsernameOf(ctx, counterpartyUserID)
	if err != nil {
		l.Warn().Err(err).Int64("transfer_id", t.ID).Send()
		row.ResolveErr = err

		return row
	}

	row.Counterparty = name

	return row
}

// Detail resolves both sides of a transfer for the single-transfer
// view.
func (s *Service) Detail(ctx context.Context, t domain.Transfer) (domain.TransferDetail, error) {
	from, err := s.username(ctx, t.FromAccountID)
	if err != nil {
		return domain.TransferDetail{}, err
	}

	to, err := s.username(ctx, t.ToAccountID)
	if err != nil {
		return domain.TransferDetail{}, err
	}

	return domain.TransferDetail{
		ID:     t.ID,
		From:   from,
		To:     to,
		Type:   t.Type,
		Status: t.Status,
		Amount: t.Amount,
	}, nil
}

func (s *Service) username(ctx context.Context, accountID int32) (string, error) {
	userID, err := s.dir.OwnerOf(ctx, accountID)
	if err != nil {
		return "", err
	}

	return s.dir.UsernameOf(ctx, userID)
}

// Approve settles a pending transfer, letting the requested funds move.
func (s *Service) Approve(ctx context.Context, user domain.User, pending map[int64]domain.Transfer, transferID int64) error {
	return s.Resolve(ctx, user, pending, transferID, domain.StatusApproved)
}

// Reject declines a pending transfer.
func (s *Service) Reject(ctx context.Context, user domain.User, pending map[int64]domain.Transfer, transferID int64) error {
	return s.Resolve(ctx, user, pending, transferID, domain.StatusRejected)
}

// Resolve validates that the chosen transfer exists, is still Pending,
// that the target status is terminal and that the user owns the paying
// account, then submits the status update. On failure nothing is
// mutated locally and the cause is returned as received.
func (s *Service) Resolve(ctx context.Context, user domain.User, pending map[int64]domain.Transfer, transferID int64, target domain.TransferStatus) error {
	l := zerolog.Ctx(ctx)

	t, ok := pending[transferID]
	if !ok {
		return domain.ErrTransferNotFound
	}

	if err := t.Status.ValidateTransition(target); err != nil {
		return err
	}

	payer, err := s.dir.OwnerOf(ctx, t.FromAccountID)
	if err != nil {
		l.Warn().Err(err).Int64("transfer_id", t.ID).Send()
		return err
	}

	if payer != user.ID {
		return domain.ErrNotPayer
	}

	return s.repo.UpdateStatus(ctx, t.ID, target)
}
