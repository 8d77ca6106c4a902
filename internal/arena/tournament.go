// Package arena runs multi-hand tournaments between sandboxed agents.
package arena

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-arena/internal/bot"
	"github.com/lox/holdem-arena/internal/deck"
	"github.com/lox/holdem-arena/internal/game"
	"github.com/lox/holdem-arena/internal/randutil"
	"github.com/lox/holdem-arena/internal/sandbox"
)

// DeciderFactory builds the decider for one hand. The RNG is the
// hand's seeded stream, so substituted actions are part of the replay.
type DeciderFactory func(rng *rand.Rand) game.Decider

// Tournament plays hands until the hand cap is reached or fewer than
// two players can continue. Everything is derived from the config
// seed: the same config produces the same tournament, bot policies and
// sandbox substitutions included.
type Tournament struct {
	cfg      *Config
	log      *log.Logger
	sink     game.Sink
	agents   []game.Agent
	deciders DeciderFactory
}

// TournamentOption configures a Tournament.
type TournamentOption func(*Tournament)

// WithLogger sets the tournament logger.
func WithLogger(logger *log.Logger) TournamentOption {
	return func(t *Tournament) { t.log = logger }
}

// WithSink directs per-hand table events to sink.
func WithSink(sink game.Sink) TournamentOption {
	return func(t *Tournament) { t.sink = sink }
}

// WithAgents seats the given agents instead of building them from the
// config's agent blocks. Their count must still match the config.
func WithAgents(agents []game.Agent) TournamentOption {
	return func(t *Tournament) { t.agents = agents }
}

// WithDeciderFactory replaces the sandbox, mostly for tests that need
// scripted decisions.
func WithDeciderFactory(f DeciderFactory) TournamentOption {
	return func(t *Tournament) { t.deciders = f }
}

// NewTournament builds a tournament from a validated config.
func NewTournament(cfg *Config, opts ...TournamentOption) (*Tournament, error) {
	t := &Tournament{
		cfg:  cfg,
		log:  log.New(io.Discard),
		sink: game.NopSink{},
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.agents == nil {
		agentRNG := randutil.New(randutil.Derive(cfg.Seed, -1))
		for _, ac := range cfg.Agents {
			agent, err := bot.New(ac.Kind, ac.Name, agentRNG)
			if err != nil {
				return nil, err
			}
			t.agents = append(t.agents, agent)
		}
	}
	if len(t.agents) != len(cfg.Agents) {
		return nil, fmt.Errorf("arena: %d agents for %d configured seats",
			len(t.agents), len(cfg.Agents))
	}

	if t.deciders == nil {
		t.deciders = func(rng *rand.Rand) game.Decider {
			return sandbox.New(rng,
				sandbox.WithDeadline(cfg.DecisionDeadline()),
				sandbox.WithMemoryLimit(cfg.MemoryLimit()),
				sandbox.WithLogger(t.log),
			)
		}
	}
	return t, nil
}

// Standing is one row of the final table, after sorting.
type Standing struct {
	Seat     int
	Name     string
	Chips    int
	Status   game.Status
	HandsWon int
}

// Result summarises a finished tournament.
type Result struct {
	// HandsPlayed counts completed hands.
	HandsPlayed int
	// Standings is sorted by chips descending, seat ascending.
	Standings []Standing
	// Champion is the name of the chip leader when play stopped.
	Champion string
}

// Run plays the tournament. An error means a hand broke structurally
// and the tournament was abandoned; standings up to that point are
// not returned.
func (t *Tournament) Run(ctx context.Context) (*Result, error) {
	players := make([]*game.Player, len(t.agents))
	for i, agent := range t.agents {
		players[i] = game.NewPlayer(i, agent.Name(), t.cfg.StartingChips, agent)
	}
	wins := make(map[int]int)

	played := 0
	buttonSeat := -1
	for handNum := 1; handNum <= t.cfg.Hands; handNum++ {
		live := livePlayers(players)
		if len(live) < 2 {
			break
		}
		button := nextButton(live, buttonSeat)
		buttonSeat = live[button].Seat

		seed := randutil.Derive(t.cfg.Seed, handNum)
		rng := randutil.New(seed)
		handLog := t.log.With("hand", handNum)

		hand, err := game.NewHand(
			live, button, t.cfg.SmallBlind, t.cfg.BigBlind,
			deck.New(rng), t.deciders(rng),
			game.WithSink(t.sink), game.WithLogger(handLog),
		)
		if err != nil {
			return nil, err
		}

		res, err := hand.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", handNum, err)
		}
		played++

		for seat, won := range res.Payouts {
			if won > 0 {
				wins[seat]++
			}
		}
		for _, seat := range res.Eliminated {
			handLog.Info("player eliminated", "seat", seat)
		}
		if !res.Continuable {
			break
		}
	}

	standings := make([]Standing, len(players))
	for i, p := range players {
		standings[i] = Standing{
			Seat:     p.Seat,
			Name:     p.Name,
			Chips:    p.Chips,
			Status:   p.Status,
			HandsWon: wins[p.Seat],
		}
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Chips != standings[j].Chips {
			return standings[i].Chips > standings[j].Chips
		}
		return standings[i].Seat < standings[j].Seat
	})

	return &Result{
		HandsPlayed: played,
		Standings:   standings,
		Champion:    standings[0].Name,
	}, nil
}

// livePlayers returns the players who can be dealt in, seat order
// preserved.
func livePlayers(players []*game.Player) []*game.Player {
	var live []*game.Player
	for _, p := range players {
		if p.Chips > 0 && p.Status != game.StatusDisqualified && p.Status != game.StatusEliminated {
			live = append(live, p)
		}
	}
	return live
}

// nextButton returns the index in live of the first seat after
// lastSeat, wrapping. The button thus passes over busted seats.
func nextButton(live []*game.Player, lastSeat int) int {
	for i, p := range live {
		if p.Seat > lastSeat {
			return i
		}
	}
	return 0
}
