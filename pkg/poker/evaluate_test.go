package poker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/pkg/deck"
)

func strength(s string) Strength {
	return Evaluate(deck.CardsFromString(s))
}

func TestEvaluate(t *testing.T) {
	a := assert.New(t)

	tests := []struct {
		cards string
		hand  Hand
		ranks []int
	}{
		{"14s,13s,12s,11s,10s", RoyalFlush, []int{14}},
		{"9d,8d,7d,6d,5d", StraightFlush, []int{9}},
		{"14c,5c,4c,3c,2c", StraightFlush, []int{5}},
		{"9c,9d,9h,9s,4c", FourOfAKind, []int{9, 4}},
		{"9c,9d,9h,4s,4c", FullHouse, []int{9, 4}},
		{"14h,12h,9h,6h,3h", Flush, []int{14, 12, 9, 6, 3}},
		{"10c,9d,8h,7s,6c", Straight, []int{10}},
		{"14c,5d,4h,3s,2c", Straight, []int{5}},
		{"7c,7d,7h,13s,2c", ThreeOfAKind, []int{7, 13, 2}},
		{"8c,8d,5h,5s,13c", TwoPair, []int{8, 5, 13}},
		{"12c,12d,9h,6s,2c", OnePair, []int{12, 9, 6, 2}},
		{"13c,11d,8h,5s,2c", HighCard, []int{13, 11, 8, 5, 2}},
	}

	for _, test := range tests {
		got := strength(test.cards)
		a.Equal(test.hand, got.Hand, test.cards)
		a.Equal(test.ranks, got.Ranks, test.cards)
	}
}

func TestEvaluate_PermutationInvariant(t *testing.T) {
	a := assert.New(t)

	cards := deck.CardsFromString("8c,8d,5h,5s,13c")
	want := Evaluate(cards)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})

		a.True(want.Ties(Evaluate(cards)))
	}
}

func TestStrength_Compare(t *testing.T) {
	a := assert.New(t)

	// category first
	a.True(strength("2c,2d,2h,2s,3c").Beats(strength("14c,14d,14h,13s,13c")))

	// then kickers, lexicographically
	a.True(strength("12c,12d,9h,6s,2c").Beats(strength("12h,12s,9c,5d,4c")))

	// exact tie across suits
	a.True(strength("14h,12h,9h,6h,3h").Ties(strength("14s,12s,9s,6s,3s")))

	// wheel is the lowest straight
	a.True(strength("10c,9d,8h,7s,6c").Beats(strength("14c,5d,4h,3s,2c")))
	a.True(strength("14c,5d,4h,3s,2c").Beats(strength("14c,14d,9h,6s,2c")))
}

func TestStrength_TotalOrder(t *testing.T) {
	a := assert.New(t)

	hands := []Strength{
		strength("13c,11d,8h,5s,2c"),
		strength("12c,12d,9h,6s,2c"),
		strength("8c,8d,5h,5s,13c"),
		strength("7c,7d,7h,13s,2c"),
		strength("10c,9d,8h,7s,6c"),
		strength("14h,12h,9h,6h,3h"),
		strength("9c,9d,9h,4s,4c"),
		strength("9c,9d,9h,9s,4c"),
		strength("9d,8d,7d,6d,5d"),
		strength("14s,13s,12s,11s,10s"),
	}

	// exactly one of <, =, > holds for every pair, and the ordering above is strict
	for i := range hands {
		for j := range hands {
			cmp := hands[i].Compare(hands[j])
			switch {
			case i < j:
				a.Negative(cmp)
			case i > j:
				a.Positive(cmp)
			default:
				a.Zero(cmp)
			}
		}
	}

	// transitivity across consecutive triples
	for i := 0; i+2 < len(hands); i++ {
		a.True(hands[i+2].Beats(hands[i+1]))
		a.True(hands[i+1].Beats(hands[i]))
		a.True(hands[i+2].Beats(hands[i]))
	}
}

func TestBestOfSeven(t *testing.T) {
	a := assert.New(t)

	// hole cards complete a flush on the board
	got := BestOfSeven(deck.CardsFromString("14h,2h,13h,9h,4h,10c,10d"))
	a.Equal(Flush, got.Hand)
	a.Equal([]int{14, 13, 9, 4, 2}, got.Ranks)

	// board pair plus pocket pair makes two pair with the right kicker
	got = BestOfSeven(deck.CardsFromString("8c,8d,5h,5s,13c,12d,2h"))
	a.Equal(TwoPair, got.Hand)
	a.Equal([]int{8, 5, 13}, got.Ranks)

	// straight hidden across hole and community cards
	got = BestOfSeven(deck.CardsFromString("9c,8d,7h,6s,5c,13d,13h"))
	a.Equal(Straight, got.Hand)
	a.Equal([]int{9}, got.Ranks)

	a.Panics(func() {
		BestOfSeven(deck.CardsFromString("2c,3c,4c"))
	})
}

func TestHand_String(t *testing.T) {
	assert.Equal(t, "Full house", FullHouse.String())
	assert.PanicsWithValue(t, "unknown hand: -1", func() {
		_ = Hand(-1).String()
	})
}
