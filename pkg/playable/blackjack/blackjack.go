// Package blackjack implements a multi-seat blackjack table played against a
// house dealer and settled against a shared bank.
package blackjack

import (
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/bank"
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// cards dealt to each party at the start of a hand
const initialDeal = 2

// Options configures a blackjack table
type Options struct {
	MinBuyIn int
	MaxBuyIn int

	// TurnTimeout is the inactivity window after which any caller may
	// force-advance the table
	TurnTimeout time.Duration
}

// DefaultOptions returns the default options for blackjack
func DefaultOptions() Options {
	return Options{
		MinBuyIn:    100,
		MaxBuyIn:    10000,
		TurnTimeout: time.Second * 30,
	}
}

func validateOptions(opts Options) error {
	if opts.MinBuyIn <= 0 {
		return errors.New("minimum buy-in must be greater than zero")
	}

	if opts.MaxBuyIn < opts.MinBuyIn {
		return errors.New("maximum buy-in must be at least the minimum buy-in")
	}

	if opts.TurnTimeout <= 0 {
		return errors.New("turn timeout must be greater than zero")
	}

	return nil
}

// Game is a blackjack table.
// A Game is not safe for concurrent use: the room applies every mutation
// through a single run loop so no two actions ever see the same stale state.
type Game struct {
	log     logrus.FieldLogger
	uuid    string
	options Options

	status  playable.Status
	phase   Phase
	paused  bool
	adminID int64

	seats playable.Seats
	deck  *deck.Deck

	dealerCards deck.Hand
	dealerDone  bool

	bank *bank.Bank

	lastActivity time.Time
	lastHand     *HandSnapshot

	events chan []*playable.Event
}

// NewGame returns a new blackjack table backed by the shared bank
func NewGame(logger logrus.FieldLogger, uuid string, adminID int64, b *bank.Bank, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if b == nil {
		return nil, errors.New("a bank is required")
	}

	g := &Game{
		log:          logger.WithField("game", "blackjack").WithField("table", uuid),
		uuid:         uuid,
		options:      opts,
		status:       playable.StatusWaiting,
		phase:        PhaseWaitingForPlayers,
		adminID:      adminID,
		seats:        make(playable.Seats, 0, playable.MaxSeats),
		deck:         deck.New(),
		bank:         b,
		lastActivity: time.Now(),
		events:       make(chan []*playable.Event, 256),
	}

	g.shuffleDeck()
	g.emit(playable.NewEvent(playable.EventTableCreated, 0, "blackjack table created"))
	return g, nil
}

// shuffleDeck rebuilds the deck for the next hand. The seed material is the
// table id, recent activity, and the seated identities. All of it is public,
// so the shuffle is predictable (see the deck package comment).
func (g *Game) shuffleDeck() {
	material := []string{g.uuid, strconv.FormatInt(g.lastActivity.UnixNano(), 10)}
	for _, seat := range g.seats {
		material = append(material, strconv.FormatInt(seat.PlayerID, 10))
	}

	g.deck = deck.New()
	g.deck.Shuffle(material...)
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "blackjack"
}

// UUID returns the table identifier
func (g *Game) UUID() string {
	return g.uuid
}

// EventChan returns the channel engine events are sent to
func (g *Game) EventChan() <-chan []*playable.Event {
	return g.events
}

// AdminID returns the current table admin
func (g *Game) AdminID() int64 {
	return g.adminID
}

// Status returns the table's lifecycle status
func (g *Game) Status() playable.Status {
	return g.status
}

// emit publishes events without ever blocking the table
func (g *Game) emit(events ...*playable.Event) {
	select {
	case g.events <- events:
	default:
		g.log.Debug("event channel full; dropping events")
	}
}

func (g *Game) touch() {
	g.lastActivity = time.Now()
}

func (g *Game) setPhase(phase Phase) {
	g.phase = phase
	g.emit(playable.NewEvent(playable.EventPhaseChanged, 0, "phase is now %s", phase))
}

func (g *Game) inHand() bool {
	return g.phase != PhaseWaitingForPlayers
}

// Join seats the player with the given buy-in.
// The chips must already have been debited from the player's wallet.
func (g *Game) Join(playerID int64, buyIn int) error {
	if g.status == playable.StatusClosed {
		return playable.UserError("table is closed")
	}

	if len(g.seats) >= playable.MaxSeats {
		return playable.ErrTableFull
	}

	if g.seats.Get(playerID) != nil {
		return playable.UserError("player is already at the table")
	}

	if buyIn < g.options.MinBuyIn || buyIn > g.options.MaxBuyIn {
		return playable.UserError("buy-in is out of bounds")
	}

	g.seats = append(g.seats, playable.NewSeat(playerID, buyIn))
	g.emit(playable.NewEvent(playable.EventSeatJoined, playerID, "took a seat").WithAmount(buyIn))

	if g.status == playable.StatusWaiting && len(g.seats) >= 2 {
		g.status = playable.StatusActive
	}

	g.touch()
	return nil
}

// Leave removes the player's seat and returns the chips owed back to their
// wallet. Between hands that is stack plus any pending wager; a forced
// mid-hand leave forfeits the live wager (it is already in the bank) and
// refunds only the remaining stack.
func (g *Game) Leave(playerID int64) (int, error) {
	seat := g.seats.Get(playerID)
	if seat == nil {
		return 0, playable.ErrPlayerNotAtTable
	}

	refund := seat.Chips
	if !g.inHand() {
		// pending bets have not been collected yet
		refund += seat.Wager
	}

	wasInHand := seat.InHand && g.inHand()
	g.seats.Remove(playerID)
	g.emit(playable.NewEvent(playable.EventSeatLeft, playerID, "left the table").WithAmount(refund))

	if wasInHand {
		g.log.WithField("player", playerID).Info("player left mid-hand, wager forfeited")
	}

	if len(g.seats) < 2 {
		g.dropToWaiting()
	} else if g.inHand() && g.seats.NextToAct() == nil {
		// the departed seat may have been the last one holding up the phase
		g.finishPlayerTurns()
	} else if !g.inHand() {
		// the departed seat may have been the last one yet to bet
		if err := g.maybeDeal(); err != nil {
			g.log.WithError(err).Warn("could not deal after departure")
		}
	}

	g.touch()
	return refund, nil
}

// dropToWaiting aborts any live hand and returns the table to its waiting
// state. Collected wagers of still-live seats are paid back from the bank so
// no chips leak.
func (g *Game) dropToWaiting() {
	if g.inHand() {
		refund := 0
		for _, seat := range g.seats.InHand() {
			refund += seat.Wager
		}

		if refund > 0 {
			if err := g.bank.Pay(refund); err != nil {
				// the refund cannot exceed what this hand collected
				g.log.WithError(err).Error("bank could not return aborted wagers")
			} else {
				for _, seat := range g.seats.InHand() {
					seat.Chips += seat.Wager
				}
			}
		}
	}

	for _, seat := range g.seats {
		seat.ResetForNextHand()
	}

	g.dealerCards = nil
	g.dealerDone = false
	g.status = playable.StatusWaiting
	g.shuffleDeck()
	g.setPhase(PhaseWaitingForPlayers)
}

// TopUp adds chips to the player's stack between hands
func (g *Game) TopUp(playerID int64, amount int) error {
	seat := g.seats.Get(playerID)
	if seat == nil {
		return playable.ErrPlayerNotAtTable
	}

	if g.inHand() {
		return playable.ErrHandInProgress
	}

	if amount <= 0 {
		return playable.UserError("top-up must be greater than zero")
	}

	if seat.Chips+seat.Wager+amount > g.options.MaxBuyIn {
		return playable.UserError("top-up exceeds the maximum buy-in")
	}

	seat.Chips += amount
	g.touch()
	return nil
}

// Pause stops all game actions until Unpause is called
func (g *Game) Pause(playerID int64) error {
	if playerID != g.adminID {
		return playable.ErrNotTableAdmin
	}

	g.paused = true
	return nil
}

// Unpause resumes the table
func (g *Game) Unpause(playerID int64) error {
	if playerID != g.adminID {
		return playable.ErrNotTableAdmin
	}

	g.paused = false
	g.touch()
	return nil
}

// TransferAdmin hands the admin role to another seated player
func (g *Game) TransferAdmin(playerID, newAdminID int64) error {
	if playerID != g.adminID {
		return playable.ErrNotTableAdmin
	}

	if g.seats.Get(newAdminID) == nil {
		return playable.ErrPlayerNotAtTable
	}

	g.adminID = newAdminID
	return nil
}

// SeatedPlayers returns every seated player in seating order
func (g *Game) SeatedPlayers() []int64 {
	return g.seats.PlayerIDs()
}

// Close marks the table closed. Seated players must be cashed out by the room.
func (g *Game) Close() {
	g.status = playable.StatusClosed
	g.emit(playable.NewEvent(playable.EventTableClosed, 0, "table closed"))
}

// Action performs an action on behalf of the player
func (g *Game) Action(playerID int64, payload *playable.PayloadIn) (*playable.Response, bool, error) {
	var err error
	switch payload.Action {
	case "bet":
		amount, ok := payload.AdditionalData.GetInt("amount")
		if !ok {
			return nil, false, playable.UserError("bet requires an amount")
		}
		err = g.PlaceBet(playerID, amount)
	case "hit":
		err = g.Hit(playerID)
	case "stand":
		err = g.Stand(playerID)
	case "double":
		err = g.DoubleDown(playerID)
	case "advance":
		err = g.ForceAdvance(playerID)
	case "pause":
		err = g.Pause(playerID)
	case "unpause":
		err = g.Unpause(playerID)
	case "transfer-admin":
		newAdmin, ok := payload.AdditionalData.GetInt("playerId")
		if !ok {
			return nil, false, playable.UserError("transfer-admin requires a playerId")
		}
		err = g.TransferAdmin(playerID, int64(newAdmin))
	default:
		return nil, false, playable.UserError("unknown action: " + payload.Action)
	}

	if err != nil {
		return nil, false, err
	}

	return playable.OK(payload.Context), true, nil
}

// Delay is how long the room waits between ticks
func (g *Game) Delay() time.Duration {
	return time.Second
}

// Tick lets the room cooperatively advance a stalled table
func (g *Game) Tick() (bool, error) {
	if !g.timedOut() {
		return false, nil
	}

	if err := g.ForceAdvance(0); err != nil {
		if errors.Is(err, errNothingPending) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (g *Game) timedOut() bool {
	return time.Since(g.lastActivity) >= g.options.TurnTimeout
}
