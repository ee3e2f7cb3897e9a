package room

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/store"
)

// Dealer owns one table. Every mutation of the table's game flows through
// the dealer's run loop, so no two actions ever observe the same stale
// state. Dealers for different tables run independently.
type Dealer struct {
	log     logrus.FieldLogger
	store   store.Store
	game    Table
	clients map[*Client]bool
	lock    sync.RWMutex

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer for the table
func NewDealer(st store.Store, game Table) *Dealer {
	return &Dealer{
		log:           logrus.WithField("table", game.UUID()),
		store:         st,
		game:          game,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// UUID returns the table identifier
func (d *Dealer) UUID() string {
	return d.game.UUID()
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

func (d *Dealer) runLoop() {
	d.log.Debug("creating dealer run loop")

	var tick <-chan time.Time
	if tickable, ok := d.game.(playable.Tickable); ok {
		ticker := time.NewTicker(tickable.Delay())
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case events := <-d.game.EventChan():
			d.broadcastEvents(events)
			d.sendGameData()
		case <-tick:
			tickable := d.game.(playable.Tickable)
			changed, err := tickable.Tick()
			if err != nil {
				d.log.WithError(err).Warn("tick failed")
				continue
			}

			if changed {
				d.persist()
				d.sendGameData()
			}
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// Do runs fn against the game inside the run loop and waits for it to
// finish. State is persisted after fn reports a mutation.
func (d *Dealer) Do(fn func(game Table) error) error {
	errCh := make(chan error, 1)
	d.execInRunLoop <- func() {
		err := fn(d.game)
		if err == nil {
			d.persist()
			d.sendGameData()
		}

		errCh <- err
	}

	return <-errCh
}

// Act performs a game action for the player inside the run loop and returns
// the player-directed response, if the game produced one
func (d *Dealer) Act(playerID int64, msg *playable.PayloadIn) (*playable.Response, error) {
	type result struct {
		resp *playable.Response
		err  error
	}

	ch := make(chan result, 1)
	d.execInRunLoop <- func() {
		resp, updateState, err := d.game.Action(playerID, msg)
		if err == nil && updateState {
			d.persist()
			d.sendGameData()
		}

		ch <- result{resp, err}
	}

	r := <-ch
	return r.resp, r.err
}

// State returns the game's current public state
func (d *Dealer) State(playerID int64) (*playable.Response, error) {
	type result struct {
		resp *playable.Response
		err  error
	}

	ch := make(chan result, 1)
	d.execInRunLoop <- func() {
		resp, err := d.game.GetPlayerState(playerID)
		ch <- result{resp, err}
	}

	r := <-ch
	return r.resp, r.err
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		gs, err := d.game.GetPlayerState(client.PlayerID())
		if err != nil {
			d.log.WithError(err).Error("could not get player state")
			return
		}

		client.Send(gs)
	}
}

// RemoveClient removes a client and reports whether it was the last one
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	return nClients == 0
}

// ReceivedMessage is called when a client sends a message over the websocket
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.execInRunLoop <- func() {
		action, updateState, err := d.game.Action(c.PlayerID(), msg)
		if err != nil {
			d.log.WithError(err).WithField("client", c.String()).Debug("could not perform action")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		if action != nil {
			action.Context = msg.Context
			c.Send(action)
		}

		if updateState {
			d.persist()
			d.sendGameData()
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastEvents(events []*playable.Event) {
	msg := &playable.Response{
		Key:  "events",
		Data: events,
	}

	for _, client := range d.Clients() {
		client.Send(msg)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.PlayerID())
		if err != nil {
			d.log.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) persist() {
	state, err := d.game.PersistentState()
	if err != nil {
		d.log.WithError(err).Error("could not serialize table state")
		return
	}

	if err := d.store.SaveTableState(context.Background(), d.game.UUID(), int(d.game.Status()), state); err != nil {
		d.log.WithError(err).Error("could not save table state")
	}
}
