package game

import (
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/deck"
	"github.com/lox/holdem-arena/internal/evaluator"
)

// EventType identifies what happened at the table.
type EventType uint8

const (
	EventHandStart EventType = iota
	EventBlindPosted
	EventStreetDealt
	EventAction
	EventShowdown
	EventPayout
	EventDisqualified
	EventEliminated
	EventHandDone
)

// Event is one entry in a hand's history. Which fields are meaningful
// depends on Type: blind posts carry Seat and Amount with Forced set,
// actions carry the clamped Action plus the Fault that coerced it (if
// any), street deals carry the new community Cards, showdowns carry a
// seat's revealed Cards and Rank, payouts carry Seat and Amount.
type Event struct {
	Type   EventType
	Seat   int
	Name   string
	Street Street
	Action Action
	Amount int
	Forced bool
	Fault  FaultKind
	Cards  []deck.Card
	Rank   evaluator.HandRank
}

// Sink receives table events as they happen. Implementations must not
// retain Cards slices past the call.
type Sink interface {
	Emit(Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// LogSink narrates events to a structured logger.
type LogSink struct {
	Log *log.Logger
}

func (s LogSink) Emit(ev Event) {
	switch ev.Type {
	case EventHandStart:
		s.Log.Info("hand start", "players", ev.Amount)
	case EventBlindPosted:
		s.Log.Info("blind posted", "seat", ev.Seat, "player", ev.Name, "amount", ev.Amount)
	case EventStreetDealt:
		s.Log.Info("street dealt", "street", ev.Street, "cards", deck.Strings(ev.Cards))
	case EventAction:
		if ev.Fault != FaultNone {
			s.Log.Warn("action substituted",
				"seat", ev.Seat, "player", ev.Name, "street", ev.Street,
				"action", ev.Action, "fault", ev.Fault)
			return
		}
		s.Log.Info("action",
			"seat", ev.Seat, "player", ev.Name, "street", ev.Street,
			"action", ev.Action, "paid", ev.Amount)
	case EventShowdown:
		s.Log.Info("showdown",
			"seat", ev.Seat, "player", ev.Name,
			"cards", deck.Strings(ev.Cards), "rank", ev.Rank)
	case EventPayout:
		s.Log.Info("payout", "seat", ev.Seat, "player", ev.Name, "amount", ev.Amount)
	case EventDisqualified:
		s.Log.Warn("disqualified", "seat", ev.Seat, "player", ev.Name, "forfeited", ev.Amount)
	case EventEliminated:
		s.Log.Info("eliminated", "seat", ev.Seat, "player", ev.Name)
	case EventHandDone:
		s.Log.Info("hand done")
	}
}

// Recorder keeps the full event history in memory, primarily for
// tests and post-hand inspection.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.Events = append(r.Events, ev)
}

// ByType returns the recorded events of one type, in order.
func (r *Recorder) ByType(t EventType) []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
