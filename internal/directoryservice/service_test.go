package directoryservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/tebucks/tebucks-cli/internal/domain"
	"github.com/tebucks/tebucks-cli/pkg/errorspkg"
)

func TestOwnerOf(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := NewMockAccountRepo(ctrl)
	users := NewMockUserRepo(ctrl)
	service := New(accounts, users)

	accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(101))).
		Times(1).
		Return(domain.Account{ID: 101, UserID: 1}, nil)

	// Repeated lookups within a session hit the memo, not the service.
	for i := 0; i < 3; i++ {
		owner, err := service.OwnerOf(context.Background(), 101)
		require.NoError(t, err)
		require.Equal(t, int32(1), owner)
	}
}

func TestUsernameOf(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := NewMockAccountRepo(ctrl)
	users := NewMockUserRepo(ctrl)
	service := New(accounts, users)

	users.EXPECT().Get(gomock.Any(), gomock.Eq(int32(1))).
		Times(1).
		Return(domain.User{ID: 1, Username: "alice"}, nil)

	for i := 0; i < 3; i++ {
		name, err := service.UsernameOf(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, "alice", name)
	}
}

func TestLookupFailureIsMemoized(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := NewMockAccountRepo(ctrl)
	users := NewMockUserRepo(ctrl)
	service := New(accounts, users)

	accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(404))).
		Times(1).
		Return(domain.Account{}, domain.ErrAccountNotFound)

	_, err := service.OwnerOf(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// Same answer the second time, without another round-trip.
	_, err = service.OwnerOf(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestWarm(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := NewMockAccountRepo(ctrl)
	users := NewMockUserRepo(ctrl)
	service := New(accounts, users)

	accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(101))).
		Times(1).
		Return(domain.Account{ID: 101, UserID: 1}, nil)
	accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(102))).
		Times(1).
		Return(domain.Account{ID: 102, UserID: 2}, nil)
	users.EXPECT().Get(gomock.Any(), gomock.Eq(int32(1))).
		Times(1).
		Return(domain.User{ID: 1, Username: "alice"}, nil)
	users.EXPECT().Get(gomock.Any(), gomock.Eq(int32(2))).
		Times(1).
		Return(domain.User{ID: 2, Username: "bob"}, nil)

	// Duplicates must not trigger duplicate round-trips.
	service.Warm(context.Background(), []int32{101, 102, 101, 102})

	owner, err := service.OwnerOf(context.Background(), 101)
	require.NoError(t, err)
	require.Equal(t, int32(1), owner)

	name, err := service.UsernameOf(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "bob", name)
}

func TestWarmContinuesPastFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := NewMockAccountRepo(ctrl)
	users := NewMockUserRepo(ctrl)
	service := New(accounts, users)

	accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(101))).
		Times(1).
		Return(domain.Account{}, errorspkg.ErrUnreachable)
	accounts.EXPECT().Get(gomock.Any(), gomock.Eq(int32(102))).
		Times(1).
		Return(domain.Account{ID: 102, UserID: 2}, nil)
	users.EXPECT().Get(gomock.Any(), gomock.Eq(int32(2))).
		Times(1).
		Return(domain.User{ID: 2, Username: "bob"}, nil)

	service.Warm(context.Background(), []int32{101, 102})

	_, err := service.OwnerOf(context.Background(), 101)
	require.ErrorIs(t, err, errorspkg.ErrUnreachable)

	name, err := service.UsernameOf(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "bob", name)
}
