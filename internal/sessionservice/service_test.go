package sessionservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/tebucks/tebucks-cli/internal/domain"
)

func signedToken(t *testing.T, username string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"username": username,
		"exp":      expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key-0123456789abcdef"))
	require.NoError(t, err)

	return token
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user := domain.User{ID: 1, Username: "alice"}

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := NewMockRepo(ctrl)
		service := New(repo)

		token := signedToken(t, user.Username, time.Now().Add(time.Hour))

		repo.EXPECT().
			Login(gomock.Any(), gomock.Eq(domain.Credentials{Username: "alice", Password: "password1"})).
			Times(1).
			Return(domain.Session{User: user, Token: token}, nil)

		got, err := service.Login(context.Background(), "alice", "password1")
		require.NoError(t, err)
		require.Equal(t, user, got)

		current, err := service.Current()
		require.NoError(t, err)
		require.Equal(t, user, current)

		gotToken, err := service.Token()
		require.NoError(t, err)
		require.Equal(t, token, gotToken)
	})

	t.Run("Wrong credentials", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := NewMockRepo(ctrl)
		service := New(repo)

		repo.EXPECT().Login(gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.Session{}, domain.ErrWrongCredentials)

		_, err := service.Login(context.Background(), "alice", "password1")
		require.ErrorIs(t, err, domain.ErrWrongCredentials)

		_, err = service.Current()
		require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("Invalid credentials never reach the network", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := NewMockRepo(ctrl)
		service := New(repo)

		repo.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)

		_, err := service.Login(context.Background(), "no spaces allowed", "password1")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = service.Login(context.Background(), "alice", "short")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Expired token blocks the session", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := NewMockRepo(ctrl)
		service := New(repo)

		token := signedToken(t, user.Username, time.Now().Add(-time.Minute))

		repo.EXPECT().Login(gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.Session{User: user, Token: token}, nil)

		_, err := service.Login(context.Background(), "alice", "password1")
		require.NoError(t, err)

		_, err = service.Current()
		require.ErrorIs(t, err, domain.ErrNotAuthenticated)

		_, err = service.Token()
		require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	service := New(repo)

	user := domain.User{ID: 1, Username: "alice"}
	token := signedToken(t, user.Username, time.Now().Add(time.Hour))

	repo.EXPECT().Login(gomock.Any(), gomock.Any()).
		Times(1).
		Return(domain.Session{User: user, Token: token}, nil)

	_, err := service.Login(context.Background(), "alice", "password1")
	require.NoError(t, err)

	service.Logout()

	_, err = service.Current()
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = service.Token()
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := NewMockRepo(ctrl)
		service := New(repo)

		repo.EXPECT().
			Register(gomock.Any(), gomock.Eq(domain.Credentials{Username: "bob", Password: "password1"})).
			Times(1).
			Return(nil)

		require.NoError(t, service.Register(context.Background(), "bob", "password1"))
	})

	t.Run("Taken username", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := NewMockRepo(ctrl)
		service := New(repo)

		repo.EXPECT().Register(gomock.Any(), gomock.Any()).
			Times(1).
			Return(domain.ErrUsernameAlreadyExists)

		err := service.Register(context.Background(), "bob", "password1")
		require.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
	})
}
