package tokenpkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/tebucks/tebucks-cli/pkg/randompkg"
)

func TestParse(t *testing.T) {
	t.Parallel()

	username := randompkg.Username()
	issued := time.Now().Truncate(time.Second)
	expires := issued.Add(time.Hour)

	claims := jwt.MapClaims{
		"username": username,
		"iat":      issued.Unix(),
		"exp":      expires.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(randompkg.String(32)))
	require.NoError(t, err)

	payload, err := Parse(token)
	require.NoError(t, err)
	require.Equal(t, username, payload.Username)
	require.True(t, payload.IssuedAt.Equal(issued))
	require.True(t, payload.ExpiredAt.Equal(expires))
}

func TestParseSubjectFallback(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{Subject: "alice"}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(randompkg.String(32)))
	require.NoError(t, err)

	payload, err := Parse(token)
	require.NoError(t, err)
	require.Equal(t, "alice", payload.Username)
	require.True(t, payload.ExpiredAt.IsZero())
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	_, err := Parse("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
