package moneypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, "25.00", Format(decimal.NewFromInt(25)))
	require.Equal(t, "10.50", Format(decimal.RequireFromString("10.5")))
	require.Equal(t, "0.99", Format(decimal.RequireFromString("0.994")))
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "25.00", FormatString("25"))
	require.Equal(t, "not a number", FormatString("not a number"))
}
