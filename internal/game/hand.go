package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/deck"
	"github.com/lox/holdem-arena/internal/evaluator"
)

// Phase is where a hand is in its lifecycle. Phases only ever advance;
// a hand that stops before PhaseDone was aborted by a structural error
// and its results must be discarded.
type Phase uint8

const (
	PhaseSetup Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhasePayout
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhasePayout:
		return "payout"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrChipConservation reports that chips were created or destroyed
// during a hand. It is always an engine bug and aborts the hand.
var ErrChipConservation = errors.New("game: chip conservation violated")

// ErrNoContenders reports that every seat left the hand through
// disqualification, leaving no one to pay the pot to.
var ErrNoContenders = errors.New("game: no contenders remain")

// Hand runs a single hand of hold'em from deal to payout. It owns the
// deck, the community cards and the contribution ledger; players are
// shared with the session that seats them, and their stacks are the
// only state that survives the hand.
type Hand struct {
	players    []*Player
	button     int
	smallBlind int
	bigBlind   int
	deck       *deck.Deck
	decider    Decider
	sink       Sink
	log        *log.Logger

	phase     Phase
	community []deck.Card
	pot       *PotManager
}

// Option configures a Hand.
type Option func(*Hand)

// WithSink directs table events to sink.
func WithSink(sink Sink) Option {
	return func(h *Hand) { h.sink = sink }
}

// WithLogger sets the hand's logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Hand) { h.log = logger }
}

// NewHand prepares a hand. players must be in seat order; button is an
// index into players. The decider is invoked for every turn and is
// expected to always come back with a playable decision.
func NewHand(players []*Player, button, smallBlind, bigBlind int, d *deck.Deck, decider Decider, opts ...Option) (*Hand, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("game: need at least 2 players, got %d", len(players))
	}
	if button < 0 || button >= len(players) {
		return nil, fmt.Errorf("game: button %d out of range", button)
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, fmt.Errorf("game: bad blinds %d/%d", smallBlind, bigBlind)
	}
	h := &Hand{
		players:    players,
		button:     button,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		deck:       d,
		decider:    decider,
		sink:       NopSink{},
		log:        log.New(io.Discard),
		pot:        NewPotManager(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Phase returns how far the hand has progressed.
func (h *Hand) Phase() Phase {
	return h.phase
}

// Community returns the board as dealt so far.
func (h *Hand) Community() []deck.Card {
	return h.community
}

// Result is the outcome of a completed hand.
type Result struct {
	// Payouts maps seat to chips won. Seats that won nothing are
	// absent.
	Payouts map[int]int
	// Ranks maps seat to showdown rank for every contender revealed.
	// Empty when the hand ended by everyone else folding.
	Ranks map[int]evaluator.HandRank
	// Eliminated lists seats that ran out of chips this hand.
	Eliminated []int
	// Disqualified lists seats removed for sandbox breaches.
	Disqualified []int
	// Continuable reports whether at least two players can still be
	// dealt another hand.
	Continuable bool
}

// Run plays the hand to completion. Any returned error means the hand
// was structurally broken (deck underflow, chip leak, cancelled
// context) and its partial effects must not be trusted.
func (h *Hand) Run(ctx context.Context) (*Result, error) {
	h.phase = PhaseSetup

	active := 0
	chipsBefore := 0
	for _, p := range h.players {
		p.ResetForHand()
		chipsBefore += p.Chips
		if p.Status == StatusActive {
			active++
		}
	}
	if active < 2 {
		return nil, fmt.Errorf("game: need at least 2 active players, got %d", active)
	}
	h.sink.Emit(Event{Type: EventHandStart, Amount: active})

	h.postBlinds()
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	result := &Result{}
	streets := []struct {
		street Street
		phase  Phase
		cards  int
	}{
		{Preflop, PhasePreflop, 0},
		{Flop, PhaseFlop, 3},
		{Turn, PhaseTurn, 1},
		{River, PhaseRiver, 1},
	}
	for _, s := range streets {
		h.phase = s.phase
		if s.cards > 0 {
			cards, err := h.deck.Draw(s.cards)
			if err != nil {
				return nil, err
			}
			h.community = append(h.community, cards...)
			h.sink.Emit(Event{Type: EventStreetDealt, Street: s.street, Cards: h.community})
		}
		if err := h.runStreet(ctx, s.street, result); err != nil {
			return nil, err
		}
		if h.contenders() <= 1 {
			break
		}
	}

	ranks, err := h.showdown()
	if err != nil {
		return nil, err
	}
	result.Ranks = ranks

	h.phase = PhasePayout
	if err := h.payout(ranks, result); err != nil {
		return nil, err
	}

	chipsAfter := 0
	for _, p := range h.players {
		if p.Chips == 0 {
			switch p.Status {
			case StatusEliminated, StatusDisqualified:
			default:
				p.Status = StatusEliminated
				result.Eliminated = append(result.Eliminated, p.Seat)
				h.sink.Emit(Event{Type: EventEliminated, Seat: p.Seat, Name: p.Name})
			}
		}
		chipsAfter += p.Chips
	}
	if chipsAfter != chipsBefore {
		return nil, fmt.Errorf("%w: started with %d, ended with %d",
			ErrChipConservation, chipsBefore, chipsAfter)
	}

	playable := 0
	for _, p := range h.players {
		if p.Chips > 0 && p.Status != StatusDisqualified {
			playable++
		}
	}
	result.Continuable = playable >= 2

	h.phase = PhaseDone
	h.sink.Emit(Event{Type: EventHandDone})
	return result, nil
}

// postBlinds takes the forced bets. A short stack posts what it has
// and is all-in; the big blind amount remains the preflop price for
// everyone else regardless.
func (h *Hand) postBlinds() {
	n := len(h.players)
	sbSeat := (h.button + 1) % n
	if n == 2 {
		sbSeat = h.button
	}
	bbSeat := (sbSeat + 1) % n

	for _, post := range []struct {
		idx    int
		amount int
	}{
		{sbSeat, h.smallBlind},
		{bbSeat, h.bigBlind},
	} {
		p := h.players[post.idx]
		paid := p.Pay(post.amount)
		h.sink.Emit(Event{
			Type:   EventBlindPosted,
			Seat:   p.Seat,
			Name:   p.Name,
			Amount: paid,
			Forced: true,
		})
	}
}

func (h *Hand) dealHoleCards() error {
	for _, p := range h.players {
		if !p.InHand() {
			continue
		}
		cards, err := h.deck.Draw(2)
		if err != nil {
			return err
		}
		p.HoleCards = cards
	}
	return nil
}

// runStreet runs one betting round and sweeps the street bets into the
// pot. Betting is skipped when fewer than two players can still act;
// the remaining streets are then dealt out for the all-in showdown.
func (h *Hand) runStreet(ctx context.Context, street Street, result *Result) error {
	defer h.sweepBets()

	canAct := 0
	for _, p := range h.players {
		if p.CanAct() {
			canAct++
		}
	}
	if canAct < 2 || h.contenders() <= 1 {
		return nil
	}

	currentBet := 0
	if street == Preflop {
		currentBet = h.bigBlind
	}
	round := NewRound(h.players, street, h.button, h.bigBlind, currentBet)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, ok := round.Next()
		if !ok {
			return nil
		}

		req := h.decisionRequest(p, street, round)
		decision := h.decider.Decide(ctx, p.Agent(), req)

		if decision.Disqualify {
			h.disqualify(p, result)
			continue
		}

		action, paid := round.Apply(p, decision.Action)
		h.sink.Emit(Event{
			Type:   EventAction,
			Seat:   p.Seat,
			Name:   p.Name,
			Street: street,
			Action: action,
			Amount: paid,
			Fault:  decision.Fault,
		})
	}
}

func (h *Hand) decisionRequest(p *Player, street Street, round *Round) DecisionRequest {
	hole := make([]deck.Card, len(p.HoleCards))
	copy(hole, p.HoleCards)
	community := make([]deck.Card, len(h.community))
	copy(community, h.community)

	streetBets := 0
	for _, q := range h.players {
		streetBets += q.Bet
	}

	return DecisionRequest{
		Seat:       p.Seat,
		Street:     street,
		HoleCards:  hole,
		Community:  community,
		Stack:      p.Chips,
		Pot:        h.pot.Total() + streetBets,
		CurrentBet: round.CurrentBet(),
		ToCall:     round.ToCall(p),
		MinRaiseTo: round.MinRaiseTo(),
		MaxRaiseTo: round.MaxRaiseTo(p),
		BigBlind:   h.bigBlind,
		Opponents:  h.contenders() - 1,
	}
}

// disqualify removes a player mid-hand. The stack is forfeited into
// the pot so the hand's chips still balance; the seat can win nothing.
func (h *Hand) disqualify(p *Player, result *Result) {
	p.Status = StatusDisqualified
	forfeited := p.Chips
	h.pot.Contribute(p.Seat, forfeited)
	p.TotalBet += forfeited
	p.Chips = 0
	result.Disqualified = append(result.Disqualified, p.Seat)
	h.sink.Emit(Event{
		Type:   EventDisqualified,
		Seat:   p.Seat,
		Name:   p.Name,
		Amount: forfeited,
	})
	h.log.Warn("player disqualified", "seat", p.Seat, "player", p.Name, "forfeited", forfeited)
}

func (h *Hand) sweepBets() {
	for _, p := range h.players {
		h.pot.Contribute(p.Seat, p.Bet)
		p.Bet = 0
	}
}

func (h *Hand) contenders() int {
	count := 0
	for _, p := range h.players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// showdown evaluates every remaining contender. With one contender
// the hand ended on folds and no cards are revealed.
func (h *Hand) showdown() (map[int]evaluator.HandRank, error) {
	if h.contenders() <= 1 {
		return nil, nil
	}
	h.phase = PhaseShowdown

	ranks := make(map[int]evaluator.HandRank)
	for _, i := range h.orderFromButton() {
		p := h.players[i]
		if !p.InHand() {
			continue
		}
		rank, err := evaluator.Evaluate(append(p.HoleCards[:len(p.HoleCards):len(p.HoleCards)], h.community...))
		if err != nil {
			return nil, err
		}
		ranks[p.Seat] = rank
		h.sink.Emit(Event{
			Type:  EventShowdown,
			Seat:  p.Seat,
			Name:  p.Name,
			Cards: p.HoleCards,
			Rank:  rank,
		})
	}
	return ranks, nil
}

func (h *Hand) payout(ranks map[int]evaluator.HandRank, result *Result) error {
	eligible := func(seat int) bool {
		for _, p := range h.players {
			if p.Seat == seat {
				return p.InHand()
			}
		}
		return false
	}

	var payouts map[int]int
	if len(ranks) == 0 {
		winner := h.lastContender()
		if winner == nil {
			return ErrNoContenders
		}
		payouts = map[int]int{winner.Seat: h.pot.Total()}
	} else {
		seatOrder := make([]int, 0, len(h.players))
		for _, i := range h.orderFromButton() {
			seatOrder = append(seatOrder, h.players[i].Seat)
		}
		payouts = h.pot.Award(h.pot.Pots(eligible), ranks, seatOrder)
	}

	for _, p := range h.players {
		won, ok := payouts[p.Seat]
		if !ok {
			continue
		}
		p.Chips += won
		h.sink.Emit(Event{Type: EventPayout, Seat: p.Seat, Name: p.Name, Amount: won})
	}
	result.Payouts = payouts
	return nil
}

func (h *Hand) lastContender() *Player {
	for _, p := range h.players {
		if p.InHand() {
			return p
		}
	}
	return nil
}

// orderFromButton returns player indices starting left of the button,
// the order used for showdown reveals and odd-chip placement.
func (h *Hand) orderFromButton() []int {
	n := len(h.players)
	order := make([]int, 0, n)
	for off := 1; off <= n; off++ {
		order = append(order, (h.button+off)%n)
	}
	return order
}
