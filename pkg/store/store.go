// Package store persists player accounts, their wallet chips, and per-table
// state records. The Store interface has a postgres implementation for the
// server and an in-memory implementation for tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrDuplicateKey happens if a caller tries to create a player with a taken email
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// ErrInvalidEmailOrPassword is an error for an invalid email or password
var ErrInvalidEmailOrPassword = errors.New("invalid email address and/or password")

// ErrPlayerNotFound is returned when no player matches the lookup
var ErrPlayerNotFound = errors.New("player not found")

// ErrTableNotFound is returned when no table record matches the lookup
var ErrTableNotFound = errors.New("table not found")

// ErrInsufficientChips is returned when a wallet cannot cover a deduction
var ErrInsufficientChips = errors.New("insufficient chips")

// Player is a record in the players table. Chips is the off-table wallet
// balance; chips a player has in play live on their seat, not here.
type Player struct {
	ID           int64  `json:"id"`
	Email        string `json:"-"`
	DisplayName  string `json:"displayName"`
	IsSiteAdmin  bool   `json:"isSiteAdmin"`
	Chips        int    `json:"chips"`
	passwordHash string
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

// TableRecord is a record in the tables table. State is the game's full
// persisted document, written after every mutation.
type TableRecord struct {
	UUID    string          `json:"uuid"`
	Game    string          `json:"game"`
	Status  int             `json:"status"`
	AdminID int64           `json:"adminId"`
	State   json.RawMessage `json:"state,omitempty"`
	Created time.Time       `json:"created"`
	Updated time.Time       `json:"updated"`
}

// Store is the persistence boundary
type Store interface {
	// CreatePlayer creates a player with a hashed password
	CreatePlayer(ctx context.Context, email, displayName, password string) (*Player, error)

	// GetPlayerByID returns the player, or ErrPlayerNotFound
	GetPlayerByID(ctx context.Context, id int64) (*Player, error)

	// AuthenticatePlayer returns the player if the email and password match
	AuthenticatePlayer(ctx context.Context, email, password string) (*Player, error)

	// SetSiteAdmin grants or revokes the site admin flag
	SetSiteAdmin(ctx context.Context, id int64, isAdmin bool) error

	// AdjustChips applies a delta to the player's wallet and returns the new
	// balance. A delta that would take the wallet negative is rejected with
	// ErrInsufficientChips and no change.
	AdjustChips(ctx context.Context, id int64, delta int) (int, error)

	// CreateTable inserts a new table record
	CreateTable(ctx context.Context, record *TableRecord) error

	// SaveTableState updates a table's status and state document
	SaveTableState(ctx context.Context, uuid string, status int, state json.RawMessage) error

	// GetTable returns the table record, or ErrTableNotFound
	GetTable(ctx context.Context, uuid string) (*TableRecord, error)

	// ListTables returns all table records, newest first
	ListTables(ctx context.Context) ([]*TableRecord, error)
}
