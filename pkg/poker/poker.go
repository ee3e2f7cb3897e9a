package poker

import "fmt"

// Hand is a poker hand category, i.e., royal flush
type Hand int

// Constants for hand
const (
	HighCard Hand = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand
func (h Hand) String() string {
	switch h {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	default:
		panic(fmt.Sprintf("unknown hand: %d", h))
	}
}

// Strength is an evaluated hand: the category plus the descending
// rank sequence that breaks ties within the category.
type Strength struct {
	Hand  Hand  `json:"hand"`
	Ranks []int `json:"ranks"`
}

// Compare returns <0 if s is weaker than o, >0 if stronger, and 0 on an exact tie.
// Category is compared first, then the rank sequences lexicographically.
func (s Strength) Compare(o Strength) int {
	if s.Hand != o.Hand {
		return int(s.Hand) - int(o.Hand)
	}

	for i, rank := range s.Ranks {
		if i >= len(o.Ranks) {
			break
		}

		if rank != o.Ranks[i] {
			return rank - o.Ranks[i]
		}
	}

	return len(s.Ranks) - len(o.Ranks)
}

// Beats returns true if s is strictly stronger than o
func (s Strength) Beats(o Strength) bool {
	return s.Compare(o) > 0
}

// Ties returns true if s and o are an exact tie
func (s Strength) Ties(o Strength) bool {
	return s.Compare(o) == 0
}

func (s Strength) String() string {
	return s.Hand.String()
}
