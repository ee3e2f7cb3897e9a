// Package deck provides a 52-card deck with a draw cursor.
//
// Shuffling is deliberately NOT cryptographically secure. The permutation is
// seeded from a SHA-1 hash of the current time and whatever public material
// the caller supplies (caller identity, recent table activity). Anyone who
// observes that material can predict the deck, so this package must not be
// used where real value rides on the cards.
package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math/rand"
	"strconv"
	"time"
)

// Size is the number of cards in a deck
const Size = 52

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck is a permutation of the 52 cards plus a draw cursor.
// Cards before the cursor have been dealt; cards at or after it are live.
type Deck struct {
	Cards  []*Card `json:"cards"`
	Cursor int     `json:"cursor"`

	seed     int64
	material []string
	rng      *rand.Rand
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{
		seed: -1,
	}

	d.buildDeck()
	return d
}

// SetSeed will set the seed
// This should only be used by tests. Setting the seed is normally handled when you call Shuffle()
func (d *Deck) SetSeed(seed int64) {
	d.seed = seed
	d.rng = rand.New(rand.NewSource(seed)) // nolint:gosec
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, Size)
	for _, suit := range Suits {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
	d.Cursor = 0
}

// Shuffle rebuilds the 1..52 sequence and applies a Fisher-Yates permutation.
// The seed is derived from the current time plus the supplied material, and the
// material is remembered for implicit reshuffles (see EnsureAvailable).
func (d *Deck) Shuffle(material ...string) {
	d.material = material
	d.reshuffle()
}

// reshuffle performs the actual rebuild using the stored material
func (d *Deck) reshuffle() {
	d.buildDeck()

	if d.rng == nil || d.seed == -1 {
		d.SetSeed(deriveSeed(d.material))
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// deriveSeed hashes time-of-shuffle plus the caller's material into a seed.
// Publicly predictable; see the package comment.
func deriveSeed(material []string) int64 {
	hash := sha1.New() // nolint:gosec
	_, _ = hash.Write([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	for _, m := range material {
		_, _ = hash.Write([]byte(m))
	}

	sum := hash.Sum(nil)
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	if seed < 0 {
		seed = -seed
	}

	return seed
}

// GetSeed returns the seed used to shuffle the deck
func (d *Deck) GetSeed() int64 {
	return d.seed
}

// HashCode returns a SHA1 hash code of the undealt portion of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards[d.Cursor:] {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}

// Draw will draw the next card and advance the cursor
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if d.Cursor >= len(d.Cards) {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[d.Cursor]
	d.Cursor++

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return d.CardsLeft() >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards) - d.Cursor
}

// EnsureAvailable guarantees at least {want} cards can be drawn.
// If the deck is short, the full deck is rebuilt and reshuffled so a hand can
// always make forward progress instead of aborting mid-draw.
func (d *Deck) EnsureAvailable(want int) {
	if d.CardsLeft() >= want {
		return
	}

	d.seed = -1
	d.rng = nil
	d.reshuffle()
}
