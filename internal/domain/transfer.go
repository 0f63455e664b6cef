package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount indicates a non-positive or unparsable transfer amount.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrSelfTransfer indicates an attempt to send money to or request money from oneself.
	ErrSelfTransfer = errors.New("cannot transfer money to yourself")
	// ErrInvalidTransition indicates an illegal transfer status change.
	ErrInvalidTransition = errors.New("illegal transfer status transition")
	// ErrNotPayer indicates that the user resolving a pending transfer does not own the paying account.
	ErrNotPayer = errors.New("only the paying account owner may approve or reject")
	// ErrTransferNotFound indicates that the transfer is not found.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrInsufficientFunds indicates that the remote service refused a transfer for lack of funds.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// TransferType tells whether the initiator is the payer (Send) or the
// payee (Request).
type TransferType string

// All transfer types.
const (
	TypeRequest TransferType = "Request"
	TypeSend    TransferType = "Send"
)

// TransferStatus is the resolution state of a transfer. Pending is the
// only non-terminal status.
type TransferStatus string

// All transfer statuses.
const (
	StatusPending  TransferStatus = "Pending"
	StatusApproved TransferStatus = "Approved"
	StatusRejected TransferStatus = "Rejected"
)

// Wire identifiers used by the ledger API for types and statuses.
const (
	typeIDRequest int32 = 1
	typeIDSend    int32 = 2

	statusIDPending  int32 = 1
	statusIDApproved int32 = 2
	statusIDRejected int32 = 3
)

// ID encodes the transfer type for the wire.
func (t TransferType) ID() (int32, error) {
	switch t {
	case TypeRequest:
		return typeIDRequest, nil
	case TypeSend:
		return typeIDSend, nil
	}

	return 0, fmt.Errorf("unknown transfer type %q", string(t))
}

// TransferTypeFromID decodes a wire transfer type identifier.
func TransferTypeFromID(id int32) (TransferType, error) {
	switch id {
	case typeIDRequest:
		return TypeRequest, nil
	case typeIDSend:
		return TypeSend, nil
	}

	return "", fmt.Errorf("unknown transfer type id %d", id)
}

// ID encodes the transfer status for the wire.
func (s TransferStatus) ID() (int32, error) {
	switch s {
	case StatusPending:
		return statusIDPending, nil
	case StatusApproved:
		return statusIDApproved, nil
	case StatusRejected:
		return statusIDRejected, nil
	}

	return 0, fmt.Errorf("unknown transfer status %q", string(s))
}

// TransferStatusFromID decodes a wire transfer status identifier.
func TransferStatusFromID(id int32) (TransferStatus, error) {
	switch id {
	case statusIDPending:
		return StatusPending, nil
	case statusIDApproved:
		return StatusApproved, nil
	case statusIDRejected:
		return StatusRejected, nil
	}

	return "", fmt.Errorf("unknown transfer status id %d", id)
}

// Terminal reports whether no further transition is allowed out of s.
func (s TransferStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ValidateTransition checks the status state machine: the only legal
// moves are Pending to Approved and Pending to Rejected.
func (s TransferStatus) ValidateTransition(to TransferStatus) error {
	if s != StatusPending || !to.Terminal() {
		return ErrInvalidTransition
	}

	return nil
}

// Transfer holds a single movement of money between two accounts.
// Transfers are owned by the remote service; the client holds
// possibly-stale read copies.
type Transfer struct {
	ID            int64          `json:"transfer_id"`
	Type          TransferType   `json:"transfer_type"`
	Status        TransferStatus `json:"transfer_status"`
	FromAccountID int32          `json:"account_from"`
	ToAccountID   int32          `json:"account_to"`
	Amount        string         `json:"amount"` // must be positive
}

// Direction tells which way a transfer moves money relative to the
// current user.
type Direction string

// All directions.
const (
	DirectionIncoming Direction = "Incoming"
	DirectionOutgoing Direction = "Outgoing"
)

// Label returns the console label the direction is rendered with.
func (d Direction) Label() string {
	if d == DirectionIncoming {
		return "From"
	}

	return "To"
}

// ClassifiedTransfer is a transfer annotated for display: its direction
// relative to the current user and the resolved counterparty username.
// ResolveErr carries a per-row directory lookup failure; the row is
// still listed.
type ClassifiedTransfer struct {
	Transfer     Transfer
	Direction    Direction
	Counterparty string
	ResolveErr   error
}

// TransferDetail is the fully resolved single-transfer view.
type TransferDetail struct {
	ID     int64
	From   string
	To     string
	Type   TransferType
	Status TransferStatus
	Amount string
}
