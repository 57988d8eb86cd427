package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_DebitCredit(t *testing.T) {
	t.Parallel()

	t.Run("debit within balance", func(t *testing.T) {
		t.Parallel()

		a := NewAccount(10000, 0.001)
		require.NoError(t, a.Debit(2500))
		assert.InDelta(t, 7500, a.Cash, 1e-9)
		assert.Equal(t, 10000.0, a.InitialCash)
	})

	t.Run("overdraw is rejected and leaves cash unchanged", func(t *testing.T) {
		t.Parallel()

		a := NewAccount(1000, 0.001)
		err := a.Debit(1000.01)
		require.ErrorIs(t, err, ErrInsufficientFunds)
		assert.InDelta(t, 1000, a.Cash, 1e-9)
	})

	t.Run("credit adds proceeds", func(t *testing.T) {
		t.Parallel()

		a := NewAccount(0, 0)
		a.Credit(1234.56)
		assert.InDelta(t, 1234.56, a.Cash, 1e-9)
	})
}
