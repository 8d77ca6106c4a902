package game

import (
	"context"
	"fmt"

	"github.com/lox/holdem-arena/internal/deck"
)

// ActionType enumerates the three things a player can do when asked.
type ActionType uint8

const (
	// Fold surrenders the hand. Always legal.
	Fold ActionType = iota
	// CheckCall checks when nothing is owed and calls (possibly
	// all-in for less) otherwise.
	CheckCall
	// RaiseTo raises so the player's total street bet becomes Amount.
	RaiseTo
)

func (t ActionType) String() string {
	switch t {
	case Fold:
		return "fold"
	case CheckCall:
		return "check/call"
	case RaiseTo:
		return "raise"
	default:
		return "unknown"
	}
}

// Action is an agent's answer to a decision request. Amount is only
// meaningful for RaiseTo and names the raise-to total, not the
// increment.
type Action struct {
	Type   ActionType
	Amount int
}

func (a Action) String() string {
	if a.Type == RaiseTo {
		return fmt.Sprintf("raise to %d", a.Amount)
	}
	return a.Type.String()
}

// DecisionRequest is the read-only view of the table an agent decides
// from. Every slice is a defensive copy; agents can mutate their view
// freely without touching engine state.
type DecisionRequest struct {
	Seat       int
	Street     Street
	HoleCards  []deck.Card
	Community  []deck.Card
	Stack      int
	Pot        int
	CurrentBet int
	ToCall     int
	MinRaiseTo int
	MaxRaiseTo int
	BigBlind   int
	Opponents  int
}

// Agent decides actions for a seat. Decide is called once per turn and
// must honour ctx cancellation; the engine enforces its own deadline
// and discards late answers.
type Agent interface {
	Name() string
	Decide(ctx context.Context, req DecisionRequest) (Action, error)
}

// FaultKind classifies why the engine substituted an action for the
// one the agent (never) returned.
type FaultKind uint8

const (
	FaultNone FaultKind = iota
	// FaultTimeout: the agent missed its deadline and a random legal
	// action was played instead.
	FaultTimeout
	// FaultError: the agent returned an error or panicked; folded.
	FaultError
	// FaultMemory: the agent breached the memory ceiling; disqualified.
	FaultMemory
)

func (k FaultKind) String() string {
	switch k {
	case FaultNone:
		return "none"
	case FaultTimeout:
		return "timeout"
	case FaultError:
		return "error"
	case FaultMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Decision is what the sandbox hands back to the orchestrator: the
// action to apply plus the fault, if any, that produced it.
type Decision struct {
	Action     Action
	Fault      FaultKind
	Disqualify bool
}

// Decider sits between the orchestrator and agents. The production
// implementation is the sandbox; tests swap in scripted deciders.
type Decider interface {
	Decide(ctx context.Context, agent Agent, req DecisionRequest) Decision
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, agent Agent, req DecisionRequest) Decision

func (f DeciderFunc) Decide(ctx context.Context, agent Agent, req DecisionRequest) Decision {
	return f(ctx, agent, req)
}
