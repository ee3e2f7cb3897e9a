package playable

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardroom-server/pkg/deck"
)

// EventKind identifies the kind of engine event
type EventKind string

// event kinds
const (
	EventTableCreated EventKind = "tableCreated"
	EventTableClosed  EventKind = "tableClosed"
	EventSeatJoined   EventKind = "seatJoined"
	EventSeatLeft     EventKind = "seatLeft"
	EventPhaseChanged EventKind = "phaseChanged"
	EventHandStarted  EventKind = "handStarted"
	EventCardDealt    EventKind = "cardDealt"
	EventAction       EventKind = "action"
	EventBust         EventKind = "bust"
	EventStand        EventKind = "stand"
	EventWinner       EventKind = "winner"
	EventTimeout      EventKind = "timeoutAdvance"
)

// Event is a single observable engine notification
// If PlayerIDs is empty, assume it's a general statement about the table
type Event struct {
	UUID      string       `json:"uuid"`
	Kind      EventKind    `json:"kind"`
	PlayerIDs []int64      `json:"playerIds"`
	Cards     []*deck.Card `json:"cards"`
	Amount    int          `json:"amount"`
	Message   string       `json:"message"`
	Time      time.Time    `json:"time"`
}

// NewEvent returns a new event
func NewEvent(kind EventKind, playerID int64, format string, a ...interface{}) *Event {
	var playerIDs []int64
	if playerID > 0 {
		playerIDs = []int64{playerID}
	}

	return &Event{
		UUID:      uuid.New().String(),
		Kind:      kind,
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      time.Now(),
	}
}

// WithCards attaches cards to the event
func (e *Event) WithCards(cards ...*deck.Card) *Event {
	e.Cards = cards
	return e
}

// WithAmount attaches a chip amount to the event
func (e *Event) WithAmount(amount int) *Event {
	e.Amount = amount
	return e
}

// Events returns a single-event slice, the shape EventChan carries
func Events(events ...*Event) []*Event {
	return events
}
