package game

// Street identifies which betting round of the hand is in progress.
type Street uint8

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// Round runs one street of betting. It owns turn order, the current
// bet to match, and the bookkeeping that decides when the street is
// over: every player still able to act has acted since the last bet
// increase and has matched the current bet.
//
// Agents never interact with Round directly. The orchestrator asks
// Next for the player to act, builds a DecisionRequest from the
// round's view, and feeds the answer back through Apply, which clamps
// illegal amounts rather than rejecting them.
type Round struct {
	players    []*Player
	street     Street
	bigBlind   int
	currentBet int
	pending    []bool
	cursor     int
}

// NewRound starts a street. currentBet is non-zero only preflop, where
// the big blind sets the price of entry. Players who posted blinds are
// still owed an action: posting is not acting, which is what gives the
// big blind its option when everyone just calls.
func NewRound(players []*Player, street Street, button, bigBlind, currentBet int) *Round {
	r := &Round{
		players:    players,
		street:     street,
		bigBlind:   bigBlind,
		currentBet: currentBet,
		pending:    make([]bool, len(players)),
	}
	for i, p := range players {
		r.pending[i] = p.CanAct()
	}
	r.cursor = r.firstToAct(button)
	return r
}

func (r *Round) firstToAct(button int) int {
	n := len(r.players)
	if r.street != Preflop {
		return (button + 1) % n
	}
	// Preflop action starts left of the big blind. Heads-up the
	// button posts the small blind, so the blind seats shift by one.
	bb := (button + 2) % n
	if n == 2 {
		bb = (button + 1) % n
	}
	return (bb + 1) % n
}

// CurrentBet returns the street bet every active player must match.
func (r *Round) CurrentBet() int {
	return r.currentBet
}

// ToCall returns how much p owes to stay in, capped at p's stack.
func (r *Round) ToCall(p *Player) int {
	owed := r.currentBet - p.Bet
	if owed < 0 {
		owed = 0
	}
	if owed > p.Chips {
		owed = p.Chips
	}
	return owed
}

// MinRaiseTo returns the smallest legal raise-to total: the current
// bet plus one big blind.
func (r *Round) MinRaiseTo() int {
	return r.currentBet + r.bigBlind
}

// MaxRaiseTo returns the largest total p can put in, i.e. all-in.
func (r *Round) MaxRaiseTo(p *Player) int {
	return p.Bet + p.Chips
}

// Next returns the player whose turn it is, or ok=false when the
// street is finished. The street ends early when at most one player
// remains in contention.
func (r *Round) Next() (*Player, bool) {
	if r.contenders() <= 1 {
		return nil, false
	}
	n := len(r.players)
	for off := range n {
		i := (r.cursor + off) % n
		if r.pending[i] && r.players[i].CanAct() {
			r.cursor = (i + 1) % n
			return r.players[i], true
		}
	}
	return nil, false
}

func (r *Round) contenders() int {
	count := 0
	for _, p := range r.players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// Apply plays a's intent for p, clamping it to a legal action first:
// an unaffordable call becomes an all-in call, a raise below the
// minimum (that is not itself all-in) becomes a check/call, and a
// raise beyond the stack is capped at all-in. It returns the action
// actually taken and the chips paid.
func (r *Round) Apply(p *Player, a Action) (Action, int) {
	idx := r.index(p)
	r.pending[idx] = false

	switch a.Type {
	case Fold:
		p.Status = StatusFolded
		return Action{Type: Fold}, 0

	case RaiseTo:
		target := a.Amount
		maxTo := r.MaxRaiseTo(p)
		if target > maxTo {
			target = maxTo
		}
		if target <= r.currentBet || (target < r.MinRaiseTo() && target < maxTo) {
			break // downgrade to check/call
		}
		paid := p.Pay(target - p.Bet)
		if p.Bet > r.currentBet {
			r.currentBet = p.Bet
			r.reopen(idx)
		}
		return Action{Type: RaiseTo, Amount: p.Bet}, paid
	}

	paid := p.Pay(r.ToCall(p))
	return Action{Type: CheckCall}, paid
}

// reopen gives every other player still able to act another turn
// after a bet increase.
func (r *Round) reopen(raiser int) {
	for i, p := range r.players {
		if i != raiser && p.CanAct() {
			r.pending[i] = true
		}
	}
}

func (r *Round) index(p *Player) int {
	for i, q := range r.players {
		if q == p {
			return i
		}
	}
	panic("game: player not in round")
}
