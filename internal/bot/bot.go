// Package bot provides the built-in agents. They exist to exercise the
// engine, not to play well: each one is a couple of lines of policy
// over the DecisionRequest the engine hands it.
package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/holdem-arena/internal/deck"
	"github.com/lox/holdem-arena/internal/game"
)

// New builds a named agent of the given kind. The RNG is only used by
// kinds with randomised policies; deterministic kinds ignore it.
func New(kind, name string, rng *rand.Rand) (game.Agent, error) {
	switch kind {
	case "caller":
		return &Caller{name: name}, nil
	case "folder":
		return &Folder{name: name}, nil
	case "random":
		return &Random{name: name, rng: rng}, nil
	case "raiser":
		return &Raiser{name: name}, nil
	case "tight":
		return &Tight{name: name}, nil
	default:
		return nil, fmt.Errorf("bot: unknown kind %q", kind)
	}
}

// Kinds lists the agent kinds New accepts.
func Kinds() []string {
	return []string{"caller", "folder", "random", "raiser", "tight"}
}

// Caller checks or calls everything.
type Caller struct {
	name string
}

func (b *Caller) Name() string { return b.name }

func (b *Caller) Decide(_ context.Context, _ game.DecisionRequest) (game.Action, error) {
	return game.Action{Type: game.CheckCall}, nil
}

// Folder folds whenever calling costs chips and checks otherwise.
type Folder struct {
	name string
}

func (b *Folder) Name() string { return b.name }

func (b *Folder) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	if req.ToCall > 0 {
		return game.Action{Type: game.Fold}, nil
	}
	return game.Action{Type: game.CheckCall}, nil
}

// Random picks uniformly between checking/calling and a minimum raise,
// folding a tenth of the time when facing a bet.
type Random struct {
	name string
	rng  *rand.Rand
}

func (b *Random) Name() string { return b.name }

func (b *Random) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	if req.ToCall > 0 && b.rng.IntN(10) == 0 {
		return game.Action{Type: game.Fold}, nil
	}
	if b.rng.IntN(2) == 0 && req.MaxRaiseTo > req.CurrentBet {
		return game.Action{Type: game.RaiseTo, Amount: req.MinRaiseTo}, nil
	}
	return game.Action{Type: game.CheckCall}, nil
}

// Raiser min-raises at every opportunity and calls when it cannot.
type Raiser struct {
	name string
}

func (b *Raiser) Name() string { return b.name }

func (b *Raiser) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	if req.MaxRaiseTo > req.CurrentBet {
		return game.Action{Type: game.RaiseTo, Amount: req.MinRaiseTo}, nil
	}
	return game.Action{Type: game.CheckCall}, nil
}

// Tight plays only strong starting hands: it raises pairs and two
// broadway cards preflop, calls small bets with them postflop, and
// folds everything else that costs chips.
type Tight struct {
	name string
}

func (b *Tight) Name() string { return b.name }

func (b *Tight) Decide(_ context.Context, req game.DecisionRequest) (game.Action, error) {
	if !b.strong(req.HoleCards) {
		if req.ToCall > 0 {
			return game.Action{Type: game.Fold}, nil
		}
		return game.Action{Type: game.CheckCall}, nil
	}
	if req.Street == game.Preflop && req.MaxRaiseTo > req.CurrentBet {
		return game.Action{Type: game.RaiseTo, Amount: req.MinRaiseTo}, nil
	}
	if req.ToCall > req.Stack/2 {
		return game.Action{Type: game.Fold}, nil
	}
	return game.Action{Type: game.CheckCall}, nil
}

func (b *Tight) strong(hole []deck.Card) bool {
	if len(hole) != 2 {
		return false
	}
	if hole[0].Rank == hole[1].Rank {
		return true
	}
	return hole[0].Rank >= deck.Ten && hole[1].Rank >= deck.Ten
}
