// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tebucks/tebucks-cli/pkg/moneypkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{
		repo: ar,
	}
}

// Balance returns the current user's balance, formatted for display.
// It is fetched fresh on every call so that completed transfers are
// always reflected.
func (s *Service) Balance(ctx context.Context) (string, error) {
	balance, err := s.repo.Balance(ctx)
	if err != nil {
		return "", err
	}

	return moneypkg.Format(balance), nil
}
