// Package directoryservice resolves account identifiers to owning
// users and user identifiers to display names.
package directoryservice

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tebucks/tebucks-cli/internal/domain"
)

// warmConcurrency caps concurrent directory lookups during a batch
// prefetch so one listing cannot flood the service.
const warmConcurrency = 4

// AccountRepo provides data access layer interface needed to resolve
// account owners.
//
//go:generate mockgen -source service.go -destination service_mock.go -package directoryservice
type AccountRepo interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
}

// UserRepo provides data access layer interface needed to resolve
// usernames.
type UserRepo interface {
	Get(ctx context.Context, id int32) (domain.User, error)
}

type ownerResult struct {
	userID int32
	err    error
}

type nameResult struct {
	name string
	err  error
}

// Service memoizes directory lookups for the lifetime of the session.
// Users and accounts are immutable on the service side, so a resolved
// id never changes; memoizing failures too keeps repeated lookups
// within one listing idempotent.
type Service struct {
	accounts AccountRepo
	users    UserRepo

	mu     sync.Mutex
	owners map[int32]ownerResult
	names  map[int32]nameResult
}

// New returns directory service struct to manage lookups.
func New(ar AccountRepo, ur UserRepo) *Service {
	return &Service{
		accounts: ar,
		users:    ur,
		owners:   make(map[int32]ownerResult),
		names:    make(map[int32]nameResult),
	}
}

// OwnerOf returns the id of the user owning the given account.
func (s *Service) OwnerOf(ctx context.Context, accountID int32) (int32, error) {
	s.mu.Lock()
	if r, ok := s.owners[accountID]; ok {
		s.mu.Unlock()
		return r.userID, r.err
	}
	s.mu.Unlock()

	account, err := s.accounts.Get(ctx, accountID)

	r := ownerResult{userID: account.UserID, err: err}

	s.mu.Lock()
	s.owners[accountID] = r
	s.mu.Unlock()

	return r.userID, r.err
}

// UsernameOf returns the display name of the given user.
func (s *Service) UsernameOf(ctx context.Context, userID int32) (string, error) {
	s.mu.Lock()
	if r, ok := s.names[userID]; ok {
		s.mu.Unlock()
		return r.name, r.err
	}
	s.mu.Unlock()

	user, err := s.users.Get(ctx, userID)

	r := nameResult{name: user.Username, err: err}

	s.mu.Lock()
	s.names[userID] = r
	s.mu.Unlock()

	return r.name, r.err
}

// Warm prefetches owners and usernames for the given accounts with
// bounded concurrency. Individual lookup failures are memoized, not
// returned: the caller surfaces them per entry when it reads the
// results back.
func (s *Service) Warm(ctx context.Context, accountIDs []int32) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	seen := make(map[int32]struct{}, len(accountIDs))

	for _, id := range accountIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		id := id

		g.Go(func() error {
			userID, err := s.OwnerOf(gctx, id)
			if err != nil {
				return nil
			}

			_, _ = s.UsernameOf(gctx, userID)

			return nil
		})
	}

	_ = g.Wait()
}
