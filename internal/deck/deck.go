package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrExhausted is returned when a draw would exceed the cards
// remaining. Running out of cards mid-hand indicates an engine bug,
// not a recoverable condition.
var ErrExhausted = errors.New("deck: no cards remaining")

// Deck is a standard 52-card deck. It is mutated only by Shuffle
// (full reset and uniform permutation) and Draw.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// New creates a shuffled deck using the provided RNG. The RNG is
// required so shuffles are reproducible in tests.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := range Suit(4) {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle resets the deck to 52 cards and permutes it with
// Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top n cards.
func (d *Deck) Draw(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, ErrExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
