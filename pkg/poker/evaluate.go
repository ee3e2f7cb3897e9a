package poker

import (
	"fmt"
	"sort"

	"cardroom-server/pkg/deck"
)

// Evaluate scores exactly five cards.
// The returned Strength is invariant under permutation of the cards.
func Evaluate(cards []*deck.Card) Strength {
	if len(cards) != 5 {
		panic(fmt.Sprintf("expected 5 cards, got %d", len(cards)))
	}

	sorted := make([]*deck.Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	ranks := make([]int, 5)
	for i, card := range sorted {
		ranks[i] = card.Rank
	}

	flush := isFlush(sorted)
	straightHigh := straightHighCard(ranks)

	if flush && straightHigh > 0 {
		if straightHigh == deck.Ace {
			return Strength{Hand: RoyalFlush, Ranks: []int{straightHigh}}
		}

		return Strength{Hand: StraightFlush, Ranks: []int{straightHigh}}
	}

	groups := groupRanks(ranks)

	switch {
	case groups[0].count == 4:
		return Strength{Hand: FourOfAKind, Ranks: []int{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return Strength{Hand: FullHouse, Ranks: []int{groups[0].rank, groups[1].rank}}
	case flush:
		return Strength{Hand: Flush, Ranks: ranks}
	case straightHigh > 0:
		return Strength{Hand: Straight, Ranks: []int{straightHigh}}
	case groups[0].count == 3:
		return Strength{Hand: ThreeOfAKind, Ranks: []int{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2 && groups[1].count == 2:
		return Strength{Hand: TwoPair, Ranks: []int{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return Strength{Hand: OnePair, Ranks: []int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}}
	}

	return Strength{Hand: HighCard, Ranks: ranks}
}

// BestOfSeven evaluates all C(7,5)=21 five-card subsets and keeps the maximum.
func BestOfSeven(cards []*deck.Card) Strength {
	if len(cards) != 7 {
		panic(fmt.Sprintf("expected 7 cards, got %d", len(cards)))
	}

	var best Strength
	first := true

	subset := make([]*deck.Card, 0, 5)
	for skipA := 0; skipA < 7; skipA++ {
		for skipB := skipA + 1; skipB < 7; skipB++ {
			subset = subset[:0]
			for i, card := range cards {
				if i == skipA || i == skipB {
					continue
				}
				subset = append(subset, card)
			}

			strength := Evaluate(subset)
			if first || strength.Beats(best) {
				best = strength
				first = false
			}
		}
	}

	return best
}

func isFlush(cards []*deck.Card) bool {
	suit := cards[0].Suit
	for _, card := range cards[1:] {
		if card.Suit != suit {
			return false
		}
	}

	return true
}

// straightHighCard returns the high card of a straight, or 0 if the
// descending ranks do not form five strictly consecutive values.
// The wheel (A-5-4-3-2) is a straight with a high card of 5.
func straightHighCard(ranks []int) int {
	consecutive := true
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]-1 {
			consecutive = false
			break
		}
	}

	if consecutive {
		return ranks[0]
	}

	// ace-low check: A,5,4,3,2
	if ranks[0] == deck.Ace {
		low := append([]int{}, ranks[1:]...)
		low = append(low, deck.LowAce)
		for i := 1; i < len(low); i++ {
			if low[i] != low[i-1]-1 {
				return 0
			}
		}

		return low[0]
	}

	return 0
}

type rankGroup struct {
	rank  int
	count int
}

// groupRanks collapses descending ranks into groups ordered by
// count descending, then rank descending
func groupRanks(ranks []int) []rankGroup {
	groups := make([]rankGroup, 0, 5)
	for _, rank := range ranks {
		if n := len(groups); n > 0 && groups[n-1].rank == rank {
			groups[n-1].count++
			continue
		}

		groups = append(groups, rankGroup{rank: rank, count: 1})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}

		return groups[i].rank > groups[j].rank
	})

	return groups
}
