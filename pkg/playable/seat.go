package playable

import "cardroom-server/pkg/deck"

// MaxSeats is the most players a table will hold
const MaxSeats = 9

// Seat is a player's slot at a table.
// A seat is owned exclusively by its table and is only mutated by the
// table's own actions.
type Seat struct {
	PlayerID int64     `json:"playerId"`
	Chips    int       `json:"chips"`
	Wager    int       `json:"wager"`
	Cards    deck.Hand `json:"cards"`

	// InHand is true while the seat is live in the current hand
	InHand bool `json:"inHand"`
	// Resolved is true once the seat has acted for the current phase
	Resolved bool `json:"resolved"`
	// Busted is blackjack-specific: the seat went over 21
	Busted bool `json:"busted"`
}

// NewSeat returns a seat with the buy-in as its table stack
func NewSeat(playerID int64, chips int) *Seat {
	return &Seat{
		PlayerID: playerID,
		Chips:    chips,
	}
}

// ResetForNextHand clears all per-hand state, keeping the chip stack
func (s *Seat) ResetForNextHand() {
	s.Wager = 0
	s.Cards = nil
	s.InHand = false
	s.Resolved = false
	s.Busted = false
}

// AllIn returns true if the seat is live but has no chips left to act with
func (s *Seat) AllIn() bool {
	return s.InHand && s.Chips == 0
}

// Seats is the ordered seating at a table. Index order is both seating
// order and turn order, so removal must compact, never swap.
type Seats []*Seat

// Get returns the seat for the player, or nil
func (s Seats) Get(playerID int64) *Seat {
	for _, seat := range s {
		if seat.PlayerID == playerID {
			return seat
		}
	}

	return nil
}

// Index returns the seat index for the player, or -1
func (s Seats) Index(playerID int64) int {
	for i, seat := range s {
		if seat.PlayerID == playerID {
			return i
		}
	}

	return -1
}

// Remove takes the player's seat out of the table, shifting every later
// seat left by one so the remaining order is preserved
func (s *Seats) Remove(playerID int64) bool {
	index := s.Index(playerID)
	if index < 0 {
		return false
	}

	*s = append((*s)[:index], (*s)[index+1:]...)
	return true
}

// PlayerIDs returns every seated player in seating order
func (s Seats) PlayerIDs() []int64 {
	ids := make([]int64, len(s))
	for i, seat := range s {
		ids[i] = seat.PlayerID
	}

	return ids
}

// NextToAct returns the lowest-index seat that is still in the hand and has
// not yet resolved this phase, or nil if the phase is over.
// This is always recomputed from the seat list; callers must not cache it.
func (s Seats) NextToAct() *Seat {
	for _, seat := range s {
		if seat.InHand && !seat.Resolved {
			return seat
		}
	}

	return nil
}

// InHand returns the seats still live in the current hand, in turn order
func (s Seats) InHand() []*Seat {
	seats := make([]*Seat, 0, len(s))
	for _, seat := range s {
		if seat.InHand {
			seats = append(seats, seat)
		}
	}

	return seats
}

// CountInHand returns the number of live seats
func (s Seats) CountInHand() int {
	count := 0
	for _, seat := range s {
		if seat.InHand {
			count++
		}
	}

	return count
}

// ClearResolvedExcept re-opens the betting round for every live seat other
// than the actor. Called when a raise or all-in increases the current bet.
func (s Seats) ClearResolvedExcept(playerID int64) {
	for _, seat := range s {
		if seat.InHand && seat.PlayerID != playerID {
			seat.Resolved = false
		}
	}
}
