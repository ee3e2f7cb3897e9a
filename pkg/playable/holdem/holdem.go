package holdem

import (
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

const holeCards = 2

// Options configure a hold'em table
type Options struct {
	SmallBlind  int
	BigBlind    int
	MinBuyIn    int
	MaxBuyIn    int
	TurnTimeout time.Duration
}

// DefaultOptions returns the standard table configuration
func DefaultOptions() Options {
	return Options{
		SmallBlind:  25,
		BigBlind:    50,
		MinBuyIn:    1000,
		MaxBuyIn:    20000,
		TurnTimeout: time.Second * 30,
	}
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if opts.MinBuyIn < opts.BigBlind {
		return errors.New("minimum buy-in must cover the big blind")
	}

	if opts.MaxBuyIn < opts.MinBuyIn {
		return errors.New("maximum buy-in must be at least the minimum buy-in")
	}

	if opts.TurnTimeout <= 0 {
		return errors.New("turn timeout must be greater than zero")
	}

	return nil
}

// Game is a hold'em table.
// Like every playable, a Game is not safe for concurrent use: the room
// applies each mutation through a single run loop.
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

	community  deck.Hand
	pot        int
	currentBet int

	lastActivity time.Time
	lastHand     *HandSnapshot

	events chan []*playable.Event
}

// NewGame returns a new hold'em table
func NewGame(logger logrus.FieldLogger, uuid string, adminID int64, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	g := &Game{
		log:          logger.WithField("game", "holdem").WithField("table", uuid),
		uuid:         uuid,
		options:      opts,
		status:       playable.StatusWaiting,
		phase:        PhasePreDeal,
		adminID:      adminID,
		seats:        make(playable.Seats, 0, playable.MaxSeats),
		deck:         deck.New(),
		lastActivity: time.Now(),
		events:       make(chan []*playable.Event, 256),
	}

	g.shuffleDeck()
	g.emit(playable.NewEvent(playable.EventTableCreated, 0, "hold'em table created"))
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
	return "texas-hold-em"
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

// Pot returns the chips swept into the pot so far this hand
func (g *Game) Pot() int {
	return g.pot
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
	return g.phase != PhasePreDeal
}

// Join seats the player with the given buy-in
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
// wallet. A mid-hand leave forfeits the seat's live wager to the pot and
// folds the seat out of the hand.
func (g *Game) Leave(playerID int64) (int, error) {
	seat := g.seats.Get(playerID)
	if seat == nil {
		return 0, playable.ErrPlayerNotAtTable
	}

	refund := seat.Chips
	wasInHand := seat.InHand && g.inHand()
	lastLive := wasInHand && g.seats.CountInHand() == 1

	if lastLive {
		// nobody is left to win the forfeit; the wager and pot come back
		refund += seat.Wager + g.pot
		g.pot = 0
	} else if wasInHand {
		g.pot += seat.Wager
		g.log.WithField("player", playerID).Info("player left mid-hand, wager forfeited to the pot")
	}

	g.seats.Remove(playerID)
	g.emit(playable.NewEvent(playable.EventSeatLeft, playerID, "left the table").WithAmount(refund))

	if g.inHand() {
		if lastLive {
			g.resetForNextHand()
		} else if g.seats.CountInHand() == 1 {
			g.awardToLastStanding()
		} else if wasInHand && g.seats.NextToAct() == nil {
			// the departed seat may have been the last one holding up the round
			if err := g.closeRound(); err != nil {
				g.log.WithError(err).Error("could not close round after leave")
			}
		}
	}

	if len(g.seats) < 2 {
		g.dropToWaiting()
	}

	g.touch()
	return refund, nil
}

// dropToWaiting returns the table to its waiting state. Live hands have
// already been resolved by the last-standing rule before this runs; round
// wagers not yet swept go back to their seats so no chips leak.
func (g *Game) dropToWaiting() {
	if g.inHand() {
		for _, seat := range g.seats.InHand() {
			seat.Chips += seat.Wager
		}
	}

	g.resetForNextHand()
	g.status = playable.StatusWaiting
}

// resetForNextHand clears all per-hand state and reshuffles
func (g *Game) resetForNextHand() {
	for _, seat := range g.seats {
		seat.ResetForNextHand()
	}

	g.community = nil
	g.pot = 0
	g.currentBet = 0
	g.shuffleDeck()
	g.setPhase(PhasePreDeal)
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

	if seat.Chips+amount > g.options.MaxBuyIn {
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

// Unpause resumes the table. The activity clock restarts so the next actor
// gets a full turn window even after a long pause.
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

// Close marks the table closed
func (g *Game) Close() {
	g.status = playable.StatusClosed
	g.emit(playable.NewEvent(playable.EventTableClosed, 0, "table closed"))
}

// Action dispatches a client payload to the corresponding game method
func (g *Game) Action(playerID int64, payload *playable.PayloadIn) (*playable.Response, bool, error) {
	var err error
	switch payload.Action {
	case "deal":
		err = g.DealHand(playerID)
	case "fold":
		err = g.Fold(playerID)
	case "check":
		err = g.Check(playerID)
	case "call":
		err = g.Call(playerID)
	case "raise":
		amount, ok := payload.AdditionalData.GetInt("amount")
		if !ok {
			return nil, false, playable.UserError("raise requires an amount")
		}
		err = g.Raise(playerID, amount)
	case "all-in":
		err = g.AllIn(playerID)
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

// Tick advances a stalled table. Returns true if state changed.
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
