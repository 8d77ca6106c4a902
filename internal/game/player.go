package game

import (
	"github.com/lox/holdem-arena/internal/deck"
)

// Status tracks a player's standing within the current hand and across
// the session.
type Status uint8

const (
	// StatusActive players can still be asked for actions.
	StatusActive Status = iota
	// StatusFolded players are out of the current hand only.
	StatusFolded
	// StatusAllIn players stay in contention but take no further
	// actions this hand.
	StatusAllIn
	// StatusEliminated players have zero chips and sit out permanently.
	StatusEliminated
	// StatusDisqualified players breached a sandbox limit. Their stack
	// is forfeited and they never play again.
	StatusDisqualified
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusEliminated:
		return "eliminated"
	case StatusDisqualified:
		return "disqualified"
	default:
		return "unknown"
	}
}

// Player is a seat at the table. All chip accounting for the hand in
// progress lives here: Bet is the commitment on the current street,
// TotalBet the commitment across the whole hand.
type Player struct {
	Seat      int
	Name      string
	Chips     int
	HoleCards []deck.Card
	Status    Status
	Bet       int
	TotalBet  int

	agent Agent
}

// NewPlayer seats an agent with a starting stack.
func NewPlayer(seat int, name string, chips int, agent Agent) *Player {
	return &Player{
		Seat:   seat,
		Name:   name,
		Chips:  chips,
		Status: StatusActive,
		agent:  agent,
	}
}

// Agent returns the decision-maker bound to this seat.
func (p *Player) Agent() Agent {
	return p.agent
}

// InHand reports whether the player still contends for the pot.
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the player can be asked for an action.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive && p.Chips > 0
}

// Pay moves up to amount chips from the stack into the current street
// bet and returns how much was actually paid. Paying the whole stack
// marks the player all-in.
func (p *Player) Pay(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}

// ResetForHand clears per-hand state ahead of a new deal. Eliminated
// and disqualified players keep their status.
func (p *Player) ResetForHand() {
	p.HoleCards = nil
	p.Bet = 0
	p.TotalBet = 0
	switch p.Status {
	case StatusEliminated, StatusDisqualified:
		return
	}
	if p.Chips == 0 {
		p.Status = StatusEliminated
		return
	}
	p.Status = StatusActive
}
