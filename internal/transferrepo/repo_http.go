// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/web"
)

// RepoHTTP facilitates transfer repository layer logic over the ledger
// HTTP API.
type RepoHTTP struct {
	client *web.Client
}

// NewRepoHTTP returns transfer RepoHTTP.
func NewRepoHTTP(client *web.Client) *RepoHTTP {
	return &RepoHTTP{
		client: client,
	}
}

// transferPayload is the wire shape of a transfer. Type and status
// travel as numeric identifiers and are decoded at this boundary.
type transferPayload struct {
	TransferID       int64  `json:"transfer_id"`
	TransferTypeID   int32  `json:"transfer_type_id"`
	TransferStatusID int32  `json:"transfer_status_id"`
	AccountFrom      int32  `json:"account_from"`
	AccountTo        int32  `json:"account_to"`
	Amount           string `json:"amount"`
}

func (p transferPayload) toDomain() (domain.Transfer, error) {
	transferType, err := domain.TransferTypeFromID(p.TransferTypeID)
	if err != nil {
		return domain.Transfer{}, err
	}

	status, err := domain.TransferStatusFromID(p.TransferStatusID)
	if err != nil {
		return domain.Transfer{}, err
	}

	return domain.Transfer{
		ID:            p.TransferID,
		Type:          transferType,
		Status:        status,
		FromAccountID: p.AccountFrom,
		ToAccountID:   p.AccountTo,
		Amount:        p.Amount,
	}, nil
}

type createRequest struct {
	UserID int32  `json:"user_id"`
	Amount string `json:"amount"`
}

// Create submits a Send transfer to the given receiver. The service
// finalizes it immediately as Approved.
func (r *RepoHTTP) Create(ctx context.Context, receiverUserID int32, amount string) (domain.Transfer, error) {
	return r.submit(ctx, "/account/transfer", receiverUserID, amount)
}

// Request submits a Request transfer asking the given payer for money.
// The service records it as Pending.
func (r *RepoHTTP) Request(ctx context.Context, payerUserID int32, amount string) (domain.Transfer, error) {
	return r.submit(ctx, "/account/request", payerUserID, amount)
}

func (r *RepoHTTP) submit(ctx context.Context, path string, userID int32, amount string) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	parsed, err := decimal.NewFromString(amount)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return domain.Transfer{}, domain.ErrInvalidAmount
	}

	var payload transferPayload

	err = r.client.Post(ctx, path, createRequest{UserID: userID, Amount: amount}, &payload)
	if err != nil {
		l.Warn().Err(err).Send()
		return domain.Transfer{}, translateError(err)
	}

	return payload.toDomain()
}

// ListForUser returns all transfers touching the current user's
// account, keyed by transfer id. An empty map means the user has no
// transfers; unreachable service is an error.
func (r *RepoHTTP) ListForUser(ctx context.Context) (map[int64]domain.Transfer, error) {
	return r.list(ctx, "/account/transfers")
}

// ListPending returns the Pending subset, keyed by transfer id.
func (r *RepoHTTP) ListPending(ctx context.Context) (map[int64]domain.Transfer, error) {
	return r.list(ctx, "/account/transfers/pending")
}

func (r *RepoHTTP) list(ctx context.Context, path string) (map[int64]domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	var payloads []transferPayload

	err := r.client.Get(ctx, path, &payloads)
	if err != nil {
		l.Warn().Err(err).Send()
		return nil, translateError(err)
	}

	transfers := make(map[int64]domain.Transfer, len(payloads))

	for _, p := range payloads {
		t, err := p.toDomain()
		if err != nil {
			l.Error().Err(err).Int64("transfer_id", p.TransferID).Send()
			return nil, err
		}

		transfers[t.ID] = t
	}

	return transfers, nil
}

// UpdateStatus resolves a pending transfer. Setting Pending, or any
// status outside the closed enumeration, is rejected locally without a
// network call.
func (r *RepoHTTP) UpdateStatus(ctx context.Context, transferID int64, status domain.TransferStatus) error {
	l := zerolog.Ctx(ctx)

	if !status.Terminal() {
		return domain.ErrInvalidTransition
	}

	statusID, err := status.ID()
	if err != nil {
		return err
	}

	err = r.client.Put(ctx, fmt.Sprintf("/transfers/%d?statusId=%d", transferID, statusID), nil, nil)
	if err != nil {
		l.Warn().Err(err).Send()
		return translateError(err)
	}

	return nil
}

func translateError(err error) error {
	apiErr, ok := web.AsAPIError(err)
	if !ok {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrNotAuthenticated
	case http.StatusForbidden:
		return domain.ErrNotPayer
	case http.StatusNotFound:
		return domain.ErrTransferNotFound
	case http.StatusConflict:
		return domain.ErrInvalidTransition
	}

	// The service is authoritative on funds sufficiency; its verdict is
	// surfaced with the original message.
	if strings.Contains(strings.ToLower(apiErr.Message), "insufficient") {
		return fmt.Errorf("%w: %s", domain.ErrInsufficientFunds, apiErr.Message)
	}

	return err
}
