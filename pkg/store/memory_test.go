package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/util"
)

func TestMemory_CreatePlayer(t *testing.T) {
	a := assert.New(t)
	m := NewMemory()
	ctx := context.Background()

	email := util.RandomEmail()
	player, err := m.CreatePlayer(ctx, email, "Player One", "my-password")
	a.NoError(err)
	a.Equal(int64(1), player.ID)
	a.Equal("Player One", player.DisplayName)
	a.Equal(0, player.Chips)
	a.False(player.IsSiteAdmin)

	_, err = m.CreatePlayer(ctx, email, "Someone Else", "other-password")
	a.Equal(ErrDuplicateKey, err)

	_, err = m.CreatePlayer(ctx, "not-an-email", "Nope", "password")
	a.Error(err)
}

func TestMemory_AuthenticatePlayer(t *testing.T) {
	a := assert.New(t)
	m := NewMemory()
	ctx := context.Background()

	email := util.RandomEmail()
	created, err := m.CreatePlayer(ctx, email, "Player", "my-password")
	a.NoError(err)

	player, err := m.AuthenticatePlayer(ctx, email, "my-password")
	a.NoError(err)
	a.Equal(created.ID, player.ID)

	_, err = m.AuthenticatePlayer(ctx, email, "wrong-password")
	a.Equal(ErrInvalidEmailOrPassword, err)

	_, err = m.AuthenticatePlayer(ctx, "unknown@example.domain", "my-password")
	a.Equal(ErrInvalidEmailOrPassword, err)
}

func TestMemory_AdjustChips(t *testing.T) {
	a := assert.New(t)
	m := NewMemory()
	ctx := context.Background()

	player, err := m.CreatePlayer(ctx, util.RandomEmail(), "Player", "password")
	a.NoError(err)

	balance, err := m.AdjustChips(ctx, player.ID, 500)
	a.NoError(err)
	a.Equal(500, balance)

	balance, err = m.AdjustChips(ctx, player.ID, -200)
	a.NoError(err)
	a.Equal(300, balance)

	_, err = m.AdjustChips(ctx, player.ID, -301)
	a.Equal(ErrInsufficientChips, err)

	balance, err = m.AdjustChips(ctx, player.ID, 0)
	a.NoError(err)
	a.Equal(300, balance, "a rejected deduction leaves the balance unchanged")

	_, err = m.AdjustChips(ctx, 999, 100)
	a.Equal(ErrPlayerNotFound, err)
}

func TestMemory_SetSiteAdmin(t *testing.T) {
	a := assert.New(t)
	m := NewMemory()
	ctx := context.Background()

	player, err := m.CreatePlayer(ctx, util.RandomEmail(), "Player", "password")
	a.NoError(err)

	a.NoError(m.SetSiteAdmin(ctx, player.ID, true))
	reloaded, err := m.GetPlayerByID(ctx, player.ID)
	a.NoError(err)
	a.True(reloaded.IsSiteAdmin)

	a.Equal(ErrPlayerNotFound, m.SetSiteAdmin(ctx, 999, true))
}

func TestMemory_Tables(t *testing.T) {
	a := assert.New(t)
	m := NewMemory()
	ctx := context.Background()

	record := &TableRecord{
		UUID:    "table-1",
		Game:    "blackjack",
		AdminID: 1,
	}
	a.NoError(m.CreateTable(ctx, record))

	state := json.RawMessage(`{"phase":1}`)
	a.NoError(m.SaveTableState(ctx, "table-1", 1, state))
	a.Equal(ErrTableNotFound, m.SaveTableState(ctx, "missing", 1, state))

	loaded, err := m.GetTable(ctx, "table-1")
	a.NoError(err)
	a.Equal("blackjack", loaded.Game)
	a.Equal(1, loaded.Status)
	a.Equal(state, loaded.State)

	_, err = m.GetTable(ctx, "missing")
	a.Equal(ErrTableNotFound, err)

	a.NoError(m.CreateTable(ctx, &TableRecord{UUID: "table-2", Game: "texas-hold-em", AdminID: 1}))
	records, err := m.ListTables(ctx)
	a.NoError(err)
	a.Equal(2, len(records))
}
