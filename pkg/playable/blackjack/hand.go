package blackjack

import "cardroom-server/pkg/deck"

// target is the value a blackjack hand is chasing
const target = 21

// dealerStandsAt is the total the dealer must reach before standing.
// The dealer stands on all 17s, soft or hard.
const dealerStandsAt = 17

// cardValue returns the blackjack value of a single card.
// Aces count as 1 here; the single soft promotion happens in Value.
func cardValue(card *deck.Card) int {
	switch {
	case card.Rank == deck.Ace:
		return 1
	case card.Rank >= 10:
		return 10
	default:
		return card.Rank
	}
}

// Value returns the blackjack total of a hand and whether it is soft.
// Aces count as 1; if the hand holds at least one ace and promoting exactly
// one of them to 11 keeps the total at or under 21, that single promotion is
// applied. A second ace is never promoted (two elevens always bust).
// The result is invariant under permutation of the cards.
func Value(cards deck.Hand) (int, bool) {
	total := 0
	aces := 0
	for _, card := range cards {
		total += cardValue(card)
		if card.Rank == deck.Ace {
			aces++
		}
	}

	if aces > 0 && total+10 <= target {
		return total + 10, true
	}

	return total, false
}

// IsNatural returns true for a two-card 21: one ace plus one ten-valued card
func IsNatural(cards deck.Hand) bool {
	if len(cards) != 2 {
		return false
	}

	value, _ := Value(cards)
	if value != target {
		return false
	}

	return cards[0].Rank == deck.Ace || cards[1].Rank == deck.Ace
}

// IsBust returns true if the hand's value exceeds 21
func IsBust(cards deck.Hand) bool {
	value, _ := Value(cards)
	return value > target
}
