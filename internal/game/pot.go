package game

import (
	"sort"

	"github.com/lox/holdem-arena/internal/evaluator"
)

// PotManager keeps the hand's contribution ledger: every chip that
// leaves a stack is recorded against the seat that paid it, including
// blinds and forfeited stacks. Side pots are not tracked incrementally;
// they are derived from the ledger when the hand resolves, which makes
// layering with multiple all-ins impossible to get wrong mid-street.
type PotManager struct {
	contrib map[int]int
	total   int
}

func NewPotManager() *PotManager {
	return &PotManager{contrib: make(map[int]int)}
}

// Contribute records amount chips paid by seat.
func (m *PotManager) Contribute(seat, amount int) {
	if amount <= 0 {
		return
	}
	m.contrib[seat] += amount
	m.total += amount
}

// Total returns every chip contributed this hand.
func (m *PotManager) Total() int {
	return m.total
}

// Contribution returns the chips seat has paid this hand.
func (m *PotManager) Contribution(seat int) int {
	return m.contrib[seat]
}

// Pot is one layer of the resolved pot structure. Eligible lists the
// seats that can win it, in ascending seat order.
type Pot struct {
	Amount   int
	Eligible []int
}

// Pots partitions the ledger into layered side pots. Each distinct
// contribution level closes a layer; a seat is eligible for a layer iff
// it contributed at least to that level and eligible(seat) is true
// (folded and disqualified seats pay in but cannot win). Adjacent
// layers with identical eligible sets collapse into one pot, so a hand
// with no all-ins yields a single main pot.
func (m *PotManager) Pots(eligible func(seat int) bool) []Pot {
	levels := make([]int, 0, len(m.contrib))
	seen := make(map[int]bool)
	for _, c := range m.contrib {
		if c > 0 && !seen[c] {
			seen[c] = true
			levels = append(levels, c)
		}
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		amount := 0
		var elig []int
		for seat, c := range m.contrib {
			paid := min(c, level) - prev
			if paid > 0 {
				amount += paid
			}
			if c >= level && eligible(seat) {
				elig = append(elig, seat)
			}
		}
		prev = level
		sort.Ints(elig)

		// Chips no contender can win sink into the pot below them;
		// with at least one contender in the hand this only happens
		// for an uncalled top layer, which flows back to its owner
		// through the layer they can win.
		if len(elig) == 0 {
			if n := len(pots); n > 0 {
				pots[n-1].Amount += amount
			}
			continue
		}
		if n := len(pots); n > 0 && equalSeats(pots[n-1].Eligible, elig) {
			pots[n-1].Amount += amount
			continue
		}
		pots = append(pots, Pot{Amount: amount, Eligible: elig})
	}
	return pots
}

func equalSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Award splits every pot among its best-ranked eligible seats and
// returns payouts keyed by seat. Ties chop the pot evenly; a remainder
// that cannot split goes, whole, to the earliest tied winner in
// seatOrder, which the orchestrator builds starting left of the
// button. The same inputs always produce the same payouts.
func (m *PotManager) Award(pots []Pot, ranks map[int]evaluator.HandRank, seatOrder []int) map[int]int {
	payouts := make(map[int]int)
	for _, pot := range pots {
		winners := potWinners(pot, ranks)
		if len(winners) == 0 {
			continue
		}
		share := pot.Amount / len(winners)
		rem := pot.Amount % len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}
		if rem > 0 {
			payouts[firstInOrder(winners, seatOrder)] += rem
		}
	}
	return payouts
}

func potWinners(pot Pot, ranks map[int]evaluator.HandRank) []int {
	var best evaluator.HandRank
	var winners []int
	for _, seat := range pot.Eligible {
		rank, ok := ranks[seat]
		if !ok {
			continue
		}
		switch evaluator.Compare(rank, best) {
		case 1:
			best = rank
			winners = winners[:0]
			winners = append(winners, seat)
		case 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

func firstInOrder(winners, seatOrder []int) int {
	for _, seat := range seatOrder {
		for _, w := range winners {
			if w == seat {
				return seat
			}
		}
	}
	return winners[0]
}
