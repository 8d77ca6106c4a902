// Package evaluator ranks 5-7 card poker hands. Ranks are totally
// ordered: for any two hands exactly one of beats, loses or ties
// holds, and ties are true chops, never encoding artifacts.
package evaluator

import (
	"fmt"
	"math/bits"

	"github.com/lox/holdem-arena/internal/deck"
)

// Category enumerates hand categories ordered from weakest to
// strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category description.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the comparable strength of a hand. Higher values beat
// lower values. The encoding packs the category above five rank
// nibbles (most significant tiebreaker first), so integer comparison
// implements the standard poker ordering with exact kicker
// tiebreaking.
type HandRank uint32

// Category returns the hand category encoded in the rank.
func (hr HandRank) Category() Category {
	return Category(hr >> 20)
}

// String returns the category description (e.g. for showdown logs).
func (hr HandRank) String() string {
	return hr.Category().String()
}

// Compare returns 1 if a beats b, -1 if b beats a, and 0 on a tie.
func Compare(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func makeRank(cat Category, kickers ...deck.Rank) HandRank {
	hr := HandRank(cat) << 20
	shift := 16
	for _, k := range kickers {
		hr |= HandRank(k) << shift
		shift -= 4
	}
	return hr
}

// Evaluate returns the rank of the best 5-card hand contained in 5 to
// 7 cards. The input is never mutated.
func Evaluate(cards []deck.Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("evaluator: need 5-7 cards, got %d", len(cards))
	}

	var suitMasks [4]uint16
	var rankMask uint16
	var counts [15]uint8
	for _, c := range cards {
		suitMasks[c.Suit] |= 1 << c.Rank
		rankMask |= 1 << c.Rank
		counts[c.Rank]++
	}

	// A flush uses 5 of at most 7 cards, so only one suit can
	// qualify, and quads or a full house cannot coexist with it.
	var flushRank HandRank
	for _, mask := range suitMasks {
		if bits.OnesCount16(mask) < 5 {
			continue
		}
		if high := straightHigh(mask); high > 0 {
			return makeRank(StraightFlush, high), nil
		}
		flushRank = makeRank(Flush, topRanks(mask, 5)...)
	}

	if quad := rankWithCount(counts, 4); quad > 0 {
		kicker := topRanksExcluding(rankMask, 1, quad)
		return makeRank(FourOfAKind, quad, kicker[0]), nil
	}

	if trip := rankWithCount(counts, 3); trip > 0 {
		if pair := pairBelow(counts, trip); pair > 0 {
			return makeRank(FullHouse, trip, pair), nil
		}
	}

	if flushRank != 0 {
		return flushRank, nil
	}

	if high := straightHigh(rankMask); high > 0 {
		return makeRank(Straight, high), nil
	}

	if trip := rankWithCount(counts, 3); trip > 0 {
		kickers := topRanksExcluding(rankMask, 2, trip)
		return makeRank(ThreeOfAKind, trip, kickers[0], kickers[1]), nil
	}

	if high := rankWithCount(counts, 2); high > 0 {
		if low := pairBelow(counts, high); low > 0 {
			kicker := topRanksExcluding(rankMask, 1, high, low)
			return makeRank(TwoPair, high, low, kicker[0]), nil
		}
		kickers := topRanksExcluding(rankMask, 3, high)
		return makeRank(Pair, high, kickers[0], kickers[1], kickers[2]), nil
	}

	return makeRank(HighCard, topRanks(rankMask, 5)...), nil
}

// straightHigh returns the high rank of the best straight in a rank
// bitmask, or 0 if there is none. The wheel (A-2-3-4-5) reports 5 so
// it sorts below every other straight.
func straightHigh(mask uint16) deck.Rank {
	// Bitwise cascade identifies five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return deck.Rank(bits.Len16(seq)-1) + 4
	}

	const wheel = 1<<deck.Ace | 1<<deck.Two | 1<<deck.Three | 1<<deck.Four | 1<<deck.Five
	if mask&wheel == wheel {
		return deck.Five
	}
	return 0
}

// rankWithCount returns the highest rank appearing at least n times,
// or 0 when none does.
func rankWithCount(counts [15]uint8, n uint8) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] >= n {
			return r
		}
	}
	return 0
}

// pairBelow returns the highest rank other than excluded appearing at
// least twice.
func pairBelow(counts [15]uint8, exclude deck.Rank) deck.Rank {
	for r := deck.Ace; r >= deck.Two; r-- {
		if r != exclude && counts[r] >= 2 {
			return r
		}
	}
	return 0
}

func topRanks(mask uint16, n int) []deck.Rank {
	return topRanksExcluding(mask, n)
}

func topRanksExcluding(mask uint16, n int, exclude ...deck.Rank) []deck.Rank {
	for _, r := range exclude {
		mask &^= 1 << r
	}
	ranks := make([]deck.Rank, 0, n)
	for len(ranks) < n && mask != 0 {
		top := deck.Rank(bits.Len16(mask) - 1)
		ranks = append(ranks, top)
		mask &^= 1 << top
	}
	return ranks
}
