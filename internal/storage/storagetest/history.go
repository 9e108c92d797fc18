// Package storagetest holds the behaviour every HistoryIndex implementation must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// RunHistoryIndexTests exercises an index created fresh by open for every subtest.
func RunHistoryIndexTests(t *testing.T, open func(t *testing.T) interfaces.HistoryIndex) {
	ctx := context.Background()

	t.Run("record then get", func(t *testing.T) {
		h := open(t)

		require.NoError(t, h.Record(ctx, 1, 7, decimal.RequireFromString("2.5")))

		entry, ok, err := h.Get(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, uint32(1), entry.Tx)
		assert.Equal(t, uint16(7), entry.Client)
		assert.True(t, decimal.RequireFromString("2.5").Equal(entry.Amount))
		assert.Equal(t, models.DisputeNone, entry.State)
		assert.Equal(t, 1, h.Len())
	})

	t.Run("negative amounts are kept signed", func(t *testing.T) {
		h := open(t)

		require.NoError(t, h.Record(ctx, 2, 1, decimal.RequireFromString("-0.0001")))

		entry, ok, err := h.Get(ctx, 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, decimal.RequireFromString("-0.0001").Equal(entry.Amount))
	})

	t.Run("missing tx", func(t *testing.T) {
		h := open(t)

		_, ok, err := h.Get(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate tx is rejected and leaves the first entry", func(t *testing.T) {
		h := open(t)

		require.NoError(t, h.Record(ctx, 1, 1, decimal.NewFromInt(5)))
		err := h.Record(ctx, 1, 2, decimal.NewFromInt(9))
		assert.ErrorIs(t, err, models.ErrDuplicateTx)

		entry, ok, err := h.Get(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, uint16(1), entry.Client)
		assert.True(t, decimal.NewFromInt(5).Equal(entry.Amount))
		assert.Equal(t, 1, h.Len())
	})

	t.Run("dispute state transitions", func(t *testing.T) {
		h := open(t)
		require.NoError(t, h.Record(ctx, 1, 1, decimal.NewFromInt(5)))

		state := func() models.DisputeState {
			entry, ok, err := h.Get(ctx, 1)
			require.NoError(t, err)
			require.True(t, ok)
			return entry.State
		}

		require.NoError(t, h.MarkDisputed(ctx, 1))
		assert.Equal(t, models.DisputeOpen, state())

		require.NoError(t, h.MarkResolved(ctx, 1))
		assert.Equal(t, models.DisputeNone, state())

		require.NoError(t, h.MarkDisputed(ctx, 1))
		require.NoError(t, h.MarkChargedBack(ctx, 1))
		assert.Equal(t, models.DisputeChargedBack, state())
	})

	t.Run("transitions on a missing tx do nothing", func(t *testing.T) {
		h := open(t)

		require.NoError(t, h.MarkDisputed(ctx, 99))
		_, ok, err := h.Get(ctx, 99)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, h.Len())
	})
}
