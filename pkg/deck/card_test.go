package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCard_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("A♠", CardFromString("14s").String())
	a.Equal("K♡", CardFromString("13h").String())
	a.Equal("J♣", CardFromString("11c").String())
	a.Equal("2♢", CardFromString("2d").String())
}

func TestCard_Equal(t *testing.T) {
	a := assert.New(t)

	a.True(CardFromString("5c").Equal(CardFromString("5c")))
	a.False(CardFromString("5c").Equal(CardFromString("5d")))
	a.False(CardFromString("5c").Equal(CardFromString("6c")))
}

func TestCard_AceLowRank(t *testing.T) {
	a := assert.New(t)

	a.Equal(1, CardFromString("14s").AceLowRank())
	a.Equal(13, CardFromString("13s").AceLowRank())
}

func TestCardsFromString(t *testing.T) {
	a := assert.New(t)

	cards := CardsFromString("2c,10h,14s")
	a.Equal(3, len(cards))
	a.Equal("2c,10h,14s", CardsToString(cards))

	a.Empty(CardsFromString(""))

	a.Panics(func() {
		CardFromString("15c")
	})
}

func TestHand(t *testing.T) {
	a := assert.New(t)

	var h Hand
	h.AddCard(CardFromString("14s"))
	h.AddCard(CardFromString("9d"))

	a.Equal("14s,9d", h.String())
	a.True(h.HasCard(CardFromString("9d")))
	a.False(h.HasCard(CardFromString("9c")))
	a.True(h.FirstCard().Equal(CardFromString("14s")))

	clone := h.Clone()
	clone.AddCard(CardFromString("2c"))
	a.Equal(2, len(h))
	a.Equal(3, len(clone))
}
