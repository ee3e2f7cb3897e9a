package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/badoux/checkmail"
	"github.com/synacor/argon2id"
)

// Memory is an in-memory Store for tests and local development
type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	players map[int64]*Player
	emails  map[string]int64
	tables  map[string]*TableRecord
}

// NewMemory creates a new in-memory store
func NewMemory() *Memory {
	return &Memory{
		nextID:  1,
		players: make(map[int64]*Player),
		emails:  make(map[string]int64),
		tables:  make(map[string]*TableRecord),
	}
}

// CreatePlayer creates a player with a hashed password
func (m *Memory) CreatePlayer(ctx context.Context, email, displayName, password string) (*Player, error) {
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, err
	}

	hash, err := argon2id.DefaultHashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, found := m.emails[key]; found {
		return nil, ErrDuplicateKey
	}

	now := time.Now()
	player := &Player{
		ID:           m.nextID,
		Email:        email,
		DisplayName:  displayName,
		passwordHash: hash,
		Created:      now,
		Updated:      now,
	}

	m.nextID++
	m.players[player.ID] = player
	m.emails[key] = player.ID

	clone := *player
	return &clone, nil
}

// GetPlayerByID returns the player, or ErrPlayerNotFound
func (m *Memory) GetPlayerByID(ctx context.Context, id int64) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	player, found := m.players[id]
	if !found {
		return nil, ErrPlayerNotFound
	}

	clone := *player
	return &clone, nil
}

// AuthenticatePlayer returns the player if the email and password match
func (m *Memory) AuthenticatePlayer(ctx context.Context, email, password string) (*Player, error) {
	m.mu.RLock()
	id, found := m.emails[strings.ToLower(email)]
	m.mu.RUnlock()

	if !found {
		// prevent timing attacks
		_ = argon2id.Compare("", "")
		return nil, ErrInvalidEmailOrPassword
	}

	m.mu.RLock()
	player := m.players[id]
	hash := player.passwordHash
	m.mu.RUnlock()

	if err := argon2id.Compare(hash, password); err != nil {
		return nil, ErrInvalidEmailOrPassword
	}

	clone := *player
	return &clone, nil
}

// SetSiteAdmin grants or revokes the site admin flag
func (m *Memory) SetSiteAdmin(ctx context.Context, id int64, isAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, found := m.players[id]
	if !found {
		return ErrPlayerNotFound
	}

	player.IsSiteAdmin = isAdmin
	player.Updated = time.Now()
	return nil
}

// AdjustChips applies a delta to the player's wallet
func (m *Memory) AdjustChips(ctx context.Context, id int64, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, found := m.players[id]
	if !found {
		return 0, ErrPlayerNotFound
	}

	if player.Chips+delta < 0 {
		return 0, ErrInsufficientChips
	}

	player.Chips += delta
	player.Updated = time.Now()
	return player.Chips, nil
}

// CreateTable inserts a new table record
func (m *Memory) CreateTable(ctx context.Context, record *TableRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	clone := *record
	clone.Created = now
	clone.Updated = now
	m.tables[record.UUID] = &clone

	record.Created = now
	record.Updated = now
	return nil
}

// SaveTableState updates a table's status and state document
func (m *Memory) SaveTableState(ctx context.Context, uuid string, status int, state json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, found := m.tables[uuid]
	if !found {
		return ErrTableNotFound
	}

	record.Status = status
	record.State = append(json.RawMessage(nil), state...)
	record.Updated = time.Now()
	return nil
}

// GetTable returns the table record, or ErrTableNotFound
func (m *Memory) GetTable(ctx context.Context, uuid string) (*TableRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, found := m.tables[uuid]
	if !found {
		return nil, ErrTableNotFound
	}

	clone := *record
	return &clone, nil
}

// ListTables returns all table records, newest first
func (m *Memory) ListTables(ctx context.Context) ([]*TableRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*TableRecord, 0, len(m.tables))
	for _, record := range m.tables {
		clone := *record
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Created.After(records[j].Created)
	})

	return records, nil
}
