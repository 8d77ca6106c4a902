package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/deck"
	"github.com/lox/holdem-arena/internal/randutil"
)

// script replays queued decisions per seat, checking/calling once a
// queue runs dry.
type script map[int][]Decision

func (s script) Decide(_ context.Context, _ Agent, req DecisionRequest) Decision {
	q := s[req.Seat]
	if len(q) == 0 {
		return Decision{Action: Action{Type: CheckCall}}
	}
	d := q[0]
	s[req.Seat] = q[1:]
	return d
}

func fold() Decision    { return Decision{Action: Action{Type: Fold}} }
func call() Decision    { return Decision{Action: Action{Type: CheckCall}} }
func raise(to int) Decision {
	return Decision{Action: Action{Type: RaiseTo, Amount: to}}
}

func totalChips(players []*Player) int {
	total := 0
	for _, p := range players {
		total += p.Chips
	}
	return total
}

func runHand(t *testing.T, players []*Player, button int, decider Decider, rec *Recorder) *Result {
	t.Helper()
	h, err := NewHand(players, button, 5, 10, deck.New(randutil.New(1)), decider, WithSink(rec))
	require.NoError(t, err)
	res, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseDone, h.Phase())
	return res
}

func TestFoldsEndHandWithoutShowdown(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	rec := &Recorder{}

	// Button folds, small blind folds; the big blind wins the blinds
	// without showing.
	res := runHand(t, players, 0, script{0: {fold()}, 1: {fold()}}, rec)

	assert.Empty(t, res.Ranks)
	assert.Equal(t, map[int]int{2: 15}, res.Payouts)
	assert.Equal(t, 1000, players[0].Chips)
	assert.Equal(t, 995, players[1].Chips)
	assert.Equal(t, 1005, players[2].Chips)
	assert.Empty(t, rec.ByType(EventShowdown))
	assert.True(t, res.Continuable)
}

func TestCheckedDownHandReachesShowdown(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	rec := &Recorder{}
	res := runHand(t, players, 0, script{}, rec)

	assert.Len(t, res.Ranks, 3)
	assert.Len(t, rec.ByType(EventShowdown), 3)

	// Preflop everyone calls 10, then checks down. 30 chips move and
	// none are created.
	paid := 0
	for _, won := range res.Payouts {
		paid += won
	}
	assert.Equal(t, 30, paid)
	assert.Equal(t, 3000, totalChips(players))

	// All four streets were dealt.
	deals := rec.ByType(EventStreetDealt)
	require.Len(t, deals, 3)
	assert.Len(t, deals[len(deals)-1].Cards, 5)
}

func TestHeadsUpAllInRunsOutTheBoard(t *testing.T) {
	t.Parallel()

	players := testPlayers(100, 100)
	rec := &Recorder{}

	// Heads-up the button posts the small blind and acts first.
	res := runHand(t, players, 0, script{
		0: {raise(100)},
		1: {call()},
	}, rec)

	assert.Len(t, res.Ranks, 2)
	assert.Equal(t, 200, totalChips(players))

	deals := rec.ByType(EventStreetDealt)
	require.Len(t, deals, 3, "flop, turn and river dealt despite no betting")

	won := 0
	for _, amount := range res.Payouts {
		won += amount
	}
	assert.Equal(t, 200, won)
}

func TestShortBlindPostsAllIn(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 3, 1000)
	rec := &Recorder{}
	runHand(t, players, 0, script{0: {call()}, 2: {call()}}, rec)

	blinds := rec.ByType(EventBlindPosted)
	require.Len(t, blinds, 2)
	assert.Equal(t, 1, blinds[0].Seat)
	assert.Equal(t, 3, blinds[0].Amount, "small blind capped at the stack")
	assert.True(t, blinds[0].Forced)
	assert.Equal(t, 10, blinds[1].Amount)

	assert.Equal(t, 2003, totalChips(players))
}

func TestSidePotsPayTheRightWinners(t *testing.T) {
	t.Parallel()

	// Seat 1 is all-in for 50 into a pot where seats 0 and 2 keep
	// betting; whatever happens, chips are conserved and seat 1 can
	// win at most 150.
	players := testPlayers(1000, 50, 1000)
	rec := &Recorder{}
	res := runHand(t, players, 0, script{
		0: {raise(200), call()},
		1: {call()},
		2: {call(), call()},
	}, rec)

	assert.Equal(t, 2050, totalChips(players))
	assert.LessOrEqual(t, res.Payouts[1], 150)
}

func TestDisqualificationForfeitsStack(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	rec := &Recorder{}
	res := runHand(t, players, 0, script{
		1: {{Action: Action{Type: Fold}, Fault: FaultMemory, Disqualify: true}},
	}, rec)

	assert.Equal(t, []int{1}, res.Disqualified)
	assert.Equal(t, StatusDisqualified, players[1].Status)
	assert.Equal(t, 0, players[1].Chips)
	assert.NotContains(t, res.Payouts, 1)

	// The forfeited stack went to the surviving seats.
	assert.Equal(t, 3000, totalChips(players))

	dq := rec.ByType(EventDisqualified)
	require.Len(t, dq, 1)
	assert.Equal(t, 1, dq[0].Seat)
}

func TestSubstitutedActionsAreFlagged(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	rec := &Recorder{}
	runHand(t, players, 0, script{
		0: {{Action: Action{Type: Fold}, Fault: FaultTimeout}},
		1: {{Action: Action{Type: Fold}, Fault: FaultError}},
	}, rec)

	var faults []FaultKind
	for _, ev := range rec.ByType(EventAction) {
		if ev.Fault != FaultNone {
			faults = append(faults, ev.Fault)
		}
	}
	assert.Equal(t, []FaultKind{FaultTimeout, FaultError}, faults)
}

func TestEliminationAndContinuability(t *testing.T) {
	t.Parallel()

	// Heads-up for stacks; the loser is eliminated and the hand
	// reports the session cannot continue.
	players := testPlayers(100, 100)
	res := runHand(t, players, 0, script{
		0: {raise(100)},
		1: {call()},
	}, &Recorder{})

	if len(res.Eliminated) == 0 {
		// A chopped board keeps both alive.
		assert.True(t, res.Continuable)
		return
	}
	assert.False(t, res.Continuable)
	assert.Len(t, res.Eliminated, 1)
	loser := res.Eliminated[0]
	assert.Equal(t, StatusEliminated, players[loser].Status)
	assert.Equal(t, 200, players[1-loser].Chips)
}

func TestDeterministicReplay(t *testing.T) {
	t.Parallel()

	run := func() (*Result, []int) {
		players := testPlayers(1000, 1000, 1000, 1000)
		h, err := NewHand(players, 1, 5, 10, deck.New(randutil.New(99)), script{
			0: {raise(30)},
			2: {call(), raise(80)},
		}, WithSink(NopSink{}))
		require.NoError(t, err)
		res, err := h.Run(context.Background())
		require.NoError(t, err)
		chips := make([]int, len(players))
		for i, p := range players {
			chips[i] = p.Chips
		}
		return res, chips
	}

	res1, chips1 := run()
	res2, chips2 := run()
	assert.Equal(t, res1.Payouts, res2.Payouts)
	assert.Equal(t, res1.Ranks, res2.Ranks)
	assert.Equal(t, chips1, chips2)
}

func TestCancelledContextAbortsHand(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	decider := DeciderFunc(func(context.Context, Agent, DecisionRequest) Decision {
		cancel()
		return Decision{Action: Action{Type: CheckCall}}
	})

	players := testPlayers(1000, 1000)
	h, err := NewHand(players, 0, 5, 10, deck.New(randutil.New(1)), decider)
	require.NoError(t, err)

	_, err = h.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, PhaseDone, h.Phase())
}

func TestNewHandValidation(t *testing.T) {
	t.Parallel()

	d := deck.New(randutil.New(1))

	_, err := NewHand(testPlayers(100), 0, 5, 10, d, script{})
	assert.Error(t, err, "one player")

	_, err = NewHand(testPlayers(100, 100), 5, 5, 10, d, script{})
	assert.Error(t, err, "button out of range")

	_, err = NewHand(testPlayers(100, 100), 0, 10, 5, d, script{})
	assert.Error(t, err, "small blind above big blind")
}
