package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-arena/internal/deck"
	"github.com/lox/holdem-arena/internal/game"
	"github.com/lox/holdem-arena/internal/randutil"
)

func req(toCall int) game.DecisionRequest {
	return game.DecisionRequest{
		Street:     game.Flop,
		Stack:      1000,
		CurrentBet: toCall,
		ToCall:     toCall,
		MinRaiseTo: toCall + 10,
		MaxRaiseTo: 1000 + toCall,
		BigBlind:   10,
	}
}

func TestNewBuildsEveryKind(t *testing.T) {
	t.Parallel()

	rng := randutil.New(1)
	for _, kind := range Kinds() {
		agent, err := New(kind, "x", rng)
		require.NoError(t, err, kind)
		assert.Equal(t, "x", agent.Name())
	}

	_, err := New("psychic", "x", rng)
	assert.Error(t, err)
}

func TestFolderOnlyPaysBlinds(t *testing.T) {
	t.Parallel()

	b, err := New("folder", "f", nil)
	require.NoError(t, err)

	a, err := b.Decide(context.Background(), req(50))
	require.NoError(t, err)
	assert.Equal(t, game.Fold, a.Type)

	a, err = b.Decide(context.Background(), req(0))
	require.NoError(t, err)
	assert.Equal(t, game.CheckCall, a.Type)
}

func TestRaiserAlwaysMinRaises(t *testing.T) {
	t.Parallel()

	b, err := New("raiser", "r", nil)
	require.NoError(t, err)

	a, err := b.Decide(context.Background(), req(50))
	require.NoError(t, err)
	assert.Equal(t, game.Action{Type: game.RaiseTo, Amount: 60}, a)

	// No chips behind: nothing to raise with.
	r := req(50)
	r.MaxRaiseTo = r.CurrentBet
	a, err = b.Decide(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, game.CheckCall, a.Type)
}

func TestTightPlaysOnlyStrongHands(t *testing.T) {
	t.Parallel()

	b, err := New("tight", "t", nil)
	require.NoError(t, err)

	junk := req(50)
	junk.Street = game.Preflop
	junk.HoleCards = []deck.Card{
		deck.NewCard(deck.Seven, deck.Spades),
		deck.NewCard(deck.Two, deck.Hearts),
	}
	a, err := b.Decide(context.Background(), junk)
	require.NoError(t, err)
	assert.Equal(t, game.Fold, a.Type)

	pair := junk
	pair.HoleCards = []deck.Card{
		deck.NewCard(deck.Nine, deck.Spades),
		deck.NewCard(deck.Nine, deck.Hearts),
	}
	a, err = b.Decide(context.Background(), pair)
	require.NoError(t, err)
	assert.Equal(t, game.RaiseTo, a.Type)

	// Free to see a card with junk.
	free := junk
	free.ToCall = 0
	a, err = b.Decide(context.Background(), free)
	require.NoError(t, err)
	assert.Equal(t, game.CheckCall, a.Type)
}

func TestRandomOnlyPlaysLegalActions(t *testing.T) {
	t.Parallel()

	b, err := New("random", "rnd", randutil.New(9))
	require.NoError(t, err)

	for range 100 {
		a, err := b.Decide(context.Background(), req(20))
		require.NoError(t, err)
		switch a.Type {
		case game.Fold, game.CheckCall:
		case game.RaiseTo:
			assert.Equal(t, 30, a.Amount)
		default:
			t.Fatalf("illegal action %v", a)
		}
	}
}
