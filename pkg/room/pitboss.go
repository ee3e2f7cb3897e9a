package room

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/bank"
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/playable/blackjack"
	"cardroom-server/pkg/playable/holdem"
	"cardroom-server/pkg/store"
)

// ErrAlreadySeated is returned when a player tries to take a second seat.
// An identity may sit at only one table at a time, across both games.
var ErrAlreadySeated = playable.UserError("player is already seated at a table")

// ErrTableNotFound is returned for an unknown table identifier
var ErrTableNotFound = playable.UserError("table not found")

// ErrUnknownGame is returned when a table is created for a game that does not exist
var ErrUnknownGame = playable.UserError("unknown game")

// PitBoss runs the card room: it creates tables, hands each one to its own
// dealer, enforces the one-seat-per-identity rule, and moves chips across
// the wallet boundary on join and leave. The blackjack house bank is shared
// by every blackjack table the pit boss opens.
type PitBoss struct {
	log    logrus.FieldLogger
	store  store.Store
	wallet *store.Wallet
	bank   *bank.Bank

	lock    sync.Mutex
	dealers map[string]*Dealer
	seated  map[int64]string
}

// NewPitBoss returns a new pit boss
func NewPitBoss(st store.Store, wallet *store.Wallet, b *bank.Bank) *PitBoss {
	return &PitBoss{
		log:     logrus.WithField("component", "pitboss"),
		store:   st,
		wallet:  wallet,
		bank:    b,
		dealers: make(map[string]*Dealer),
		seated:  make(map[int64]string),
	}
}

// CreateTable opens a new table for the named game and starts its dealer.
// The caller becomes the table admin.
func (p *PitBoss) CreateTable(ctx context.Context, adminID int64, game string, options playable.AdditionalData) (*Dealer, error) {
	tableUUID := uuid.New().String()

	var table Table
	var err error
	switch game {
	case "blackjack":
		opts := blackjack.DefaultOptions()
		if v, ok := options.GetInt("minBuyIn"); ok {
			opts.MinBuyIn = v
		}
		if v, ok := options.GetInt("maxBuyIn"); ok {
			opts.MaxBuyIn = v
		}

		table, err = blackjack.NewGame(logrus.StandardLogger(), tableUUID, adminID, p.bank, opts)

	case "texas-hold-em":
		opts := holdem.DefaultOptions()
		if v, ok := options.GetInt("smallBlind"); ok {
			opts.SmallBlind = v
		}
		if v, ok := options.GetInt("bigBlind"); ok {
			opts.BigBlind = v
		}
		if v, ok := options.GetInt("minBuyIn"); ok {
			opts.MinBuyIn = v
		}
		if v, ok := options.GetInt("maxBuyIn"); ok {
			opts.MaxBuyIn = v
		}

		table, err = holdem.NewGame(logrus.StandardLogger(), tableUUID, adminID, opts)

	default:
		return nil, ErrUnknownGame
	}

	if err != nil {
		return nil, err
	}

	state, err := table.PersistentState()
	if err != nil {
		return nil, err
	}

	record := &store.TableRecord{
		UUID:    tableUUID,
		Game:    game,
		Status:  int(table.Status()),
		AdminID: adminID,
		State:   state,
	}

	if err := p.store.CreateTable(ctx, record); err != nil {
		return nil, err
	}

	dealer := NewDealer(p.store, table)
	dealer.StartShift()

	p.lock.Lock()
	p.dealers[tableUUID] = dealer
	p.lock.Unlock()

	p.log.WithFields(logrus.Fields{"uuid": tableUUID, "game": game}).Info("table created")
	return dealer, nil
}

// Dealer returns the dealer for the table
func (p *PitBoss) Dealer(tableUUID string) (*Dealer, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	dealer, found := p.dealers[tableUUID]
	if !found {
		return nil, ErrTableNotFound
	}

	return dealer, nil
}

// JoinTable buys the player into the table. The buy-in moves from the wallet
// to the seat; a rejected join moves it straight back.
func (p *PitBoss) JoinTable(ctx context.Context, tableUUID string, playerID int64, buyIn int) error {
	dealer, err := p.Dealer(tableUUID)
	if err != nil {
		return err
	}

	p.lock.Lock()
	if at, found := p.seated[playerID]; found {
		p.lock.Unlock()
		p.log.WithFields(logrus.Fields{"player": playerID, "table": at}).Debug("join refused, already seated")
		return ErrAlreadySeated
	}
	p.seated[playerID] = tableUUID
	p.lock.Unlock()

	release := func() {
		p.lock.Lock()
		delete(p.seated, playerID)
		p.lock.Unlock()
	}

	if err := p.wallet.Debit(ctx, playerID, buyIn); err != nil {
		release()
		return err
	}

	if err := dealer.Do(func(game Table) error {
		return game.Join(playerID, buyIn)
	}); err != nil {
		if creditErr := p.wallet.Credit(ctx, playerID, buyIn); creditErr != nil {
			p.log.WithError(creditErr).WithField("player", playerID).Error("could not return buy-in")
		}

		release()
		return err
	}

	return nil
}

// LeaveTable cashes the player out. Whatever the table owes them is credited
// back to the wallet.
func (p *PitBoss) LeaveTable(ctx context.Context, tableUUID string, playerID int64) error {
	dealer, err := p.Dealer(tableUUID)
	if err != nil {
		return err
	}

	var refund int
	if err := dealer.Do(func(game Table) error {
		var err error
		refund, err = game.Leave(playerID)
		return err
	}); err != nil {
		return err
	}

	p.lock.Lock()
	delete(p.seated, playerID)
	p.lock.Unlock()

	if refund > 0 {
		if err := p.wallet.Credit(ctx, playerID, refund); err != nil {
			p.log.WithError(err).WithField("player", playerID).Error("could not credit cash-out")
			return err
		}
	}

	return nil
}

// TopUpTable moves more wallet chips onto the player's seat
func (p *PitBoss) TopUpTable(ctx context.Context, tableUUID string, playerID int64, amount int) error {
	dealer, err := p.Dealer(tableUUID)
	if err != nil {
		return err
	}

	if err := p.wallet.Debit(ctx, playerID, amount); err != nil {
		return err
	}

	if err := dealer.Do(func(game Table) error {
		return game.TopUp(playerID, amount)
	}); err != nil {
		if creditErr := p.wallet.Credit(ctx, playerID, amount); creditErr != nil {
			p.log.WithError(creditErr).WithField("player", playerID).Error("could not return top-up")
		}

		return err
	}

	return nil
}

// CloseTable cashes out every seat and shuts the table down
func (p *PitBoss) CloseTable(ctx context.Context, tableUUID string) error {
	dealer, err := p.Dealer(tableUUID)
	if err != nil {
		return err
	}

	refunds := make(map[int64]int)
	if err := dealer.Do(func(game Table) error {
		for _, playerID := range game.SeatedPlayers() {
			refund, err := game.Leave(playerID)
			if err != nil {
				return err
			}

			refunds[playerID] = refund
		}

		game.Close()
		return nil
	}); err != nil {
		return err
	}

	for playerID, refund := range refunds {
		p.lock.Lock()
		delete(p.seated, playerID)
		p.lock.Unlock()

		if refund > 0 {
			if err := p.wallet.Credit(ctx, playerID, refund); err != nil {
				p.log.WithError(err).WithField("player", playerID).Error("could not credit cash-out")
			}
		}
	}

	p.lock.Lock()
	delete(p.dealers, tableUUID)
	p.lock.Unlock()

	dealer.EndShift()
	return nil
}

// ConnectClient attaches a websocket client to the table's event stream
func (p *PitBoss) ConnectClient(tableUUID string, client *Client) error {
	dealer, err := p.Dealer(tableUUID)
	if err != nil {
		return err
	}

	dealer.AddClient(client)
	return nil
}

// DisconnectClient detaches a websocket client. The dealer keeps running
// even with no spectators; its lifetime is the table's, not the sockets'.
func (p *PitBoss) DisconnectClient(client *Client) {
	if client.dealer != nil {
		client.dealer.RemoveClient(client)
	}
}

// BankBalance returns the house bank balance
func (p *PitBoss) BankBalance() int {
	return p.bank.Balance()
}

// FundBank adds chips to the house bank
func (p *PitBoss) FundBank(amount int) error {
	return p.bank.Fund(amount)
}

// DefundBank removes chips from the house bank
func (p *PitBoss) DefundBank(amount int) error {
	return p.bank.Defund(amount)
}
