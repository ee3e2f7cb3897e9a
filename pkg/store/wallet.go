package store

import (
	"context"
	"fmt"
)

// Wallet converts between an external currency unit and chips at a fixed
// configured rate. It owns the off-table chip balance; the engine never
// touches external currency.
type Wallet struct {
	store        Store
	chipsPerUnit int
	freeChips    int
}

// NewWallet returns the wallet boundary over the given store
func NewWallet(store Store, chipsPerUnit, freeChips int) *Wallet {
	if chipsPerUnit <= 0 {
		panic(fmt.Sprintf("invalid chips per unit: %d", chipsPerUnit))
	}

	return &Wallet{
		store:        store,
		chipsPerUnit: chipsPerUnit,
		freeChips:    freeChips,
	}
}

// Balance returns the player's off-table chip balance
func (w *Wallet) Balance(ctx context.Context, playerID int64) (int, error) {
	player, err := w.store.GetPlayerByID(ctx, playerID)
	if err != nil {
		return 0, err
	}

	return player.Chips, nil
}

// ClaimFreeChips grants the configured free-chip amount
func (w *Wallet) ClaimFreeChips(ctx context.Context, playerID int64) (int, error) {
	return w.store.AdjustChips(ctx, playerID, w.freeChips)
}

// BuyChips converts units of external currency into chips
func (w *Wallet) BuyChips(ctx context.Context, playerID int64, units int) (int, error) {
	if units <= 0 {
		return 0, fmt.Errorf("units must be greater than zero")
	}

	return w.store.AdjustChips(ctx, playerID, units*w.chipsPerUnit)
}

// WithdrawChips converts chips back into external currency units. The chip
// amount must be a whole multiple of the conversion rate.
func (w *Wallet) WithdrawChips(ctx context.Context, playerID int64, chips int) (int, error) {
	if chips <= 0 {
		return 0, fmt.Errorf("chips must be greater than zero")
	}

	if chips%w.chipsPerUnit != 0 {
		return 0, fmt.Errorf("chips must be a multiple of %d", w.chipsPerUnit)
	}

	if _, err := w.store.AdjustChips(ctx, playerID, -chips); err != nil {
		return 0, err
	}

	return chips / w.chipsPerUnit, nil
}

// Debit moves chips out of the wallet (a table buy-in)
func (w *Wallet) Debit(ctx context.Context, playerID int64, chips int) error {
	_, err := w.store.AdjustChips(ctx, playerID, -chips)
	return err
}

// Credit moves chips back into the wallet (a table cash-out)
func (w *Wallet) Credit(ctx context.Context, playerID int64, chips int) error {
	_, err := w.store.AdjustChips(ctx, playerID, chips)
	return err
}
