package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/util"
)

func TestWallet(t *testing.T) {
	a := assert.New(t)
	m := NewMemory()
	w := NewWallet(m, 100, 1000)
	ctx := context.Background()

	player, err := m.CreatePlayer(ctx, util.RandomEmail(), "Player", "password")
	a.NoError(err)

	balance, err := w.ClaimFreeChips(ctx, player.ID)
	a.NoError(err)
	a.Equal(1000, balance)

	balance, err = w.BuyChips(ctx, player.ID, 5)
	a.NoError(err)
	a.Equal(1500, balance)

	_, err = w.BuyChips(ctx, player.ID, 0)
	a.EqualError(err, "units must be greater than zero")

	units, err := w.WithdrawChips(ctx, player.ID, 300)
	a.NoError(err)
	a.Equal(3, units)

	_, err = w.WithdrawChips(ctx, player.ID, 250)
	a.EqualError(err, "chips must be a multiple of 100")

	_, err = w.WithdrawChips(ctx, player.ID, 100000)
	a.Equal(ErrInsufficientChips, err)

	a.NoError(w.Debit(ctx, player.ID, 200))
	a.NoError(w.Credit(ctx, player.ID, 50))

	balance, err = w.Balance(ctx, player.ID)
	a.NoError(err)
	a.Equal(1050, balance)
}
