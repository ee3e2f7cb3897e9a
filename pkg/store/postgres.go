package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/badoux/checkmail"
	"github.com/lib/pq"
	"github.com/synacor/argon2id"

	"cardroom-server/pkg/db"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

const playerColumns = `
players.id,
players.email,
players.display_name,
players.is_site_admin,
players.chips,
players.password_hash,
players.created,
players.updated`

const tableColumns = `
tables.uuid,
tables.game,
tables.status,
tables.admin_id,
tables.state,
tables.created,
tables.updated`

// Postgres is the production Store backed by lib/pq
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a Store backed by the shared database instance
func NewPostgres() *Postgres {
	return &Postgres{db: db.Instance()}
}

func getPlayerByRow(row db.Scanner) (*Player, error) {
	var player Player
	if err := row.Scan(&player.ID, &player.Email, &player.DisplayName, &player.IsSiteAdmin,
		&player.Chips, &player.passwordHash, &player.Created, &player.Updated); err != nil {
		return nil, err
	}

	return &player, nil
}

func getTableByRow(row db.Scanner) (*TableRecord, error) {
	var record TableRecord
	if err := row.Scan(&record.UUID, &record.Game, &record.Status, &record.AdminID,
		&record.State, &record.Created, &record.Updated); err != nil {
		return nil, err
	}

	return &record, nil
}

// CreatePlayer creates a player with a hashed password
func (p *Postgres) CreatePlayer(ctx context.Context, email, displayName, password string) (*Player, error) {
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, err
	}

	hash, err := argon2id.DefaultHashPassword(password)
	if err != nil {
		return nil, err
	}

	const query = `
INSERT INTO players (email, display_name, password_hash)
VALUES ($1, $2, $3)
RETURNING ` + playerColumns

	row := p.db.QueryRowContext(ctx, query, email, displayName, hash)
	player, err := getPlayerByRow(row)
	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return nil, ErrDuplicateKey
		}

		return nil, err
	}

	return player, nil
}

// GetPlayerByID returns the player, or ErrPlayerNotFound
func (p *Postgres) GetPlayerByID(ctx context.Context, id int64) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE id = $1`

	player, err := getPlayerByRow(p.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlayerNotFound
		}

		return nil, err
	}

	return player, nil
}

// AuthenticatePlayer returns the player if the email and password match
func (p *Postgres) AuthenticatePlayer(ctx context.Context, email, password string) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE LOWER(email) = LOWER($1)`

	player, err := getPlayerByRow(p.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			// prevent timing attacks
			_ = argon2id.Compare("", "")
			return nil, ErrInvalidEmailOrPassword
		}

		return nil, err
	}

	if err := argon2id.Compare(player.passwordHash, password); err != nil {
		return nil, ErrInvalidEmailOrPassword
	}

	return player, nil
}

// SetSiteAdmin grants or revokes the site admin flag
func (p *Postgres) SetSiteAdmin(ctx context.Context, id int64, isAdmin bool) error {
	const query = `
UPDATE players
SET is_site_admin = $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	result, err := p.db.ExecContext(ctx, query, isAdmin, id)
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrPlayerNotFound
	}

	return nil
}

// AdjustChips applies a delta to the player's wallet. The WHERE clause keeps
// the balance from going negative without a read-modify-write race.
func (p *Postgres) AdjustChips(ctx context.Context, id int64, delta int) (int, error) {
	const query = `
UPDATE players
SET chips = chips + $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2 AND chips + $1 >= 0
RETURNING chips`

	var chips int
	if err := p.db.QueryRowContext(ctx, query, delta, id).Scan(&chips); err != nil {
		if err == sql.ErrNoRows {
			if _, err := p.GetPlayerByID(ctx, id); err != nil {
				return 0, err
			}

			return 0, ErrInsufficientChips
		}

		return 0, err
	}

	return chips, nil
}

// CreateTable inserts a new table record
func (p *Postgres) CreateTable(ctx context.Context, record *TableRecord) error {
	state := record.State
	if state == nil {
		state = json.RawMessage("{}")
	}

	const query = `
INSERT INTO tables (uuid, game, status, admin_id, state)
VALUES ($1, $2, $3, $4, $5)
RETURNING created, updated`

	return p.db.QueryRowContext(ctx, query, record.UUID, record.Game, record.Status, record.AdminID, []byte(state)).
		Scan(&record.Created, &record.Updated)
}

// SaveTableState updates a table's status and state document
func (p *Postgres) SaveTableState(ctx context.Context, uuid string, status int, state json.RawMessage) error {
	const query = `
UPDATE tables
SET status = $1, state = $2, updated = (NOW() AT TIME ZONE 'utc')
WHERE uuid = $3`

	result, err := p.db.ExecContext(ctx, query, status, []byte(state), uuid)
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrTableNotFound
	}

	return nil
}

// GetTable returns the table record, or ErrTableNotFound
func (p *Postgres) GetTable(ctx context.Context, uuid string) (*TableRecord, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE uuid = $1`

	record, err := getTableByRow(p.db.QueryRowContext(ctx, query, uuid))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTableNotFound
		}

		return nil, err
	}

	return record, nil
}

// ListTables returns all table records, newest first
func (p *Postgres) ListTables(ctx context.Context) ([]*TableRecord, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
ORDER BY created DESC`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*TableRecord, 0)
	for rows.Next() {
		record, err := getTableByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
