// Package sandbox isolates agent decision calls from the engine.
// Agents run in their own goroutine against a deadline; a slow agent
// gets a random legal action played for it, a failing agent folds, and
// an agent that blows the memory ceiling is disqualified outright.
// Answers that arrive after the engine has moved on are discarded.
package sandbox

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-arena/internal/game"
)

const (
	// DefaultDeadline is how long an agent has to answer.
	DefaultDeadline = 3 * time.Second
	// DefaultMemoryLimit is the heap growth ceiling per decision.
	DefaultMemoryLimit = 1 << 30
	// defaultPollInterval is how often the watchdog samples the heap.
	defaultPollInterval = 50 * time.Millisecond
)

// Sandbox mediates every agent call. It implements game.Decider.
type Sandbox struct {
	rng      *rand.Rand
	clock    quartz.Clock
	deadline time.Duration
	memLimit uint64
	poll     time.Duration
	memProbe func() uint64
	log      *log.Logger
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithClock substitutes the clock, letting tests drive deadlines
// without sleeping.
func WithClock(clock quartz.Clock) Option {
	return func(s *Sandbox) { s.clock = clock }
}

// WithDeadline overrides the per-decision deadline.
func WithDeadline(d time.Duration) Option {
	return func(s *Sandbox) { s.deadline = d }
}

// WithMemoryLimit overrides the heap growth ceiling.
func WithMemoryLimit(limit uint64) Option {
	return func(s *Sandbox) { s.memLimit = limit }
}

// WithMemProbe substitutes the heap usage sampler, letting tests
// simulate runaway allocation.
func WithMemProbe(probe func() uint64) Option {
	return func(s *Sandbox) { s.memProbe = probe }
}

// WithLogger sets the sandbox logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Sandbox) { s.log = logger }
}

// New builds a sandbox. The RNG drives the timeout fallback and must
// be the hand's seeded stream so substituted actions replay.
func New(rng *rand.Rand, opts ...Option) *Sandbox {
	s := &Sandbox{
		rng:      rng,
		clock:    quartz.NewReal(),
		deadline: DefaultDeadline,
		memLimit: DefaultMemoryLimit,
		poll:     defaultPollInterval,
		memProbe: heapInUse,
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func heapInUse() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

// Decide calls the agent and maps whatever happens to a playable
// decision. Fault precedence when several things go wrong in the same
// call: memory beats error beats timeout.
func (s *Sandbox) Decide(ctx context.Context, agent game.Agent, req game.DecisionRequest) game.Decision {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	baseline := s.memProbe()
	breached := make(chan struct{})
	watchDone := make(chan struct{})
	defer close(watchDone)
	go s.watchMemory(baseline, breached, watchDone)

	type answer struct {
		action game.Action
		err    error
	}
	// Buffered so an abandoned agent goroutine can always complete;
	// the late answer just never gets read.
	answers := make(chan answer, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				answers <- answer{err: fmt.Errorf("agent panicked: %v", r)}
			}
		}()
		action, err := agent.Decide(callCtx, req)
		answers <- answer{action: action, err: err}
	}()

	timer := s.clock.NewTimer(s.deadline)
	defer timer.Stop()

	select {
	case <-breached:
		return s.disqualify(agent)

	case ans := <-answers:
		select {
		case <-breached:
			return s.disqualify(agent)
		default:
		}
		if ans.err != nil {
			s.log.Warn("agent failed, folding", "agent", agent.Name(), "err", ans.err)
			return game.Decision{Action: game.Action{Type: game.Fold}, Fault: game.FaultError}
		}
		return game.Decision{Action: ans.action}

	case <-timer.C:
		select {
		case <-breached:
			return s.disqualify(agent)
		default:
		}
		fallback := s.randomLegal(req)
		s.log.Warn("agent timed out, substituting",
			"agent", agent.Name(), "deadline", s.deadline, "action", fallback)
		return game.Decision{Action: fallback, Fault: game.FaultTimeout}

	case <-ctx.Done():
		return game.Decision{Action: game.Action{Type: game.Fold}, Fault: game.FaultError}
	}
}

func (s *Sandbox) watchMemory(baseline uint64, breached, done chan struct{}) {
	ticker := s.clock.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			used := s.memProbe()
			if used > baseline && used-baseline > s.memLimit {
				close(breached)
				return
			}
		}
	}
}

func (s *Sandbox) disqualify(agent game.Agent) game.Decision {
	s.log.Error("agent breached memory limit, disqualifying",
		"agent", agent.Name(), "limit", s.memLimit)
	return game.Decision{
		Action:     game.Action{Type: game.Fold},
		Fault:      game.FaultMemory,
		Disqualify: true,
	}
}

// randomLegal picks uniformly among the legal options of fold,
// check/call and a minimum raise.
func (s *Sandbox) randomLegal(req game.DecisionRequest) game.Action {
	actions := []game.Action{
		{Type: game.Fold},
		{Type: game.CheckCall},
	}
	if req.MaxRaiseTo > req.CurrentBet {
		actions = append(actions, game.Action{Type: game.RaiseTo, Amount: req.MinRaiseTo})
	}
	return actions[s.rng.IntN(len(actions))]
}
