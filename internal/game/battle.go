package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/peterkuimelis/orderflag/internal/log"
)

// LookaheadMargin is added to the party size to get the stack size at or
// below which the next stack is reserved when a turn ends.
const LookaheadMargin = 3

var (
	ErrFlagUnavailable = errors.New("flag not available in stack")
	ErrHandIndex       = errors.New("hand index out of range")
)

// ContractError is the panic value raised when a caller asks for something
// the battle cannot do: drawing a flag that is not in the stack, or changing
// a hand slot that does not exist. Commit and Predict turn it into an error.
type ContractError struct {
	Op    string
	Flag  Flag
	Index int
	Err   error
}

func (e *ContractError) Error() string {
	if errors.Is(e.Err, ErrHandIndex) {
		return fmt.Sprintf("%s: %v: %d", e.Op, e.Err, e.Index)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Flag)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// BattleConfig holds configuration for creating a new battle.
type BattleConfig struct {
	Flags  []Flag          // every flag of the party
	Logger log.EventLogger // optional
}

// FlagsView is the read-only view of a battle's stack, graveyard and reserve.
type FlagsView interface {
	Stack() ZoneReader
	Graveyard() ZoneReader
	Reserved() ZoneReader
	IsReserved() bool
	Seed() []Flag
}

type flagsView struct {
	m *FlagManager
}

func (v flagsView) Stack() ZoneReader     { return v.m.stack }
func (v flagsView) Graveyard() ZoneReader { return v.m.graveyard }
func (v flagsView) Reserved() ZoneReader  { return v.m.reserve }
func (v flagsView) IsReserved() bool      { return v.m.IsReserved() }
func (v flagsView) Seed() []Flag          { return v.m.Seed() }

// Battle tracks the order flags of one battle turn by turn.
//
// The expected call order within a turn is DrawHand, any number of
// OrderChange, any number of DrawBonus, then TurnEnd. Battle does not
// enforce the order.
type Battle struct {
	flags     *FlagManager
	hand      []Flag
	bonus     []Flag
	snapshots []*Battle
	turn      int
	partySize int
	logger    log.EventLogger
}

// NewBattle starts a battle at turn 1 with every flag in the stack.
// The party size is the flag count divided by five.
func NewBattle(cfg BattleConfig) *Battle {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Battle{
		flags:     NewFlagManager(cfg.Flags),
		turn:      1,
		partySize: len(cfg.Flags) / 5,
		logger:    logger,
	}
}

// DrawHand draws flags from the stack into the hand, in order.
// It panics with a *ContractError if a flag is not available.
func (b *Battle) DrawHand(flags ...Flag) {
	for _, f := range flags {
		b.hand = append(b.hand, b.draw("draw hand", f))
		b.logger.Log(log.NewDrawEvent(b.turn, f.String(), b.flags.stack.Count()))
	}
}

// DrawBonus draws flags gained as a side effect of an action. They are kept
// apart from the hand and discarded with it at turn end.
func (b *Battle) DrawBonus(flags ...Flag) {
	for _, f := range flags {
		b.bonus = append(b.bonus, b.draw("draw bonus", f))
		b.logger.Log(log.NewBonusDrawEvent(b.turn, f.String(), b.flags.stack.Count()))
	}
}

// OrderChange discards the hand flag at index and replaces it with f drawn
// from the stack. The discard lands before any renewal so the discarded flag
// can be part of the renewed stack.
func (b *Battle) OrderChange(index int, f Flag) {
	if index < 0 || index >= len(b.hand) {
		panic(&ContractError{Op: "order change", Flag: f, Index: index, Err: ErrHandIndex})
	}

	old := b.hand[index]
	b.flags.graveyard.Add(old)
	b.logger.Log(log.NewDiscardEvent(b.turn, old.String(), b.flags.stack.Count()))

	if b.flags.stack.IsEmpty() {
		b.renew()
	}

	b.hand[index] = b.draw("order change", f)
	b.logger.Log(log.NewOrderChangeEvent(b.turn, index, old.String(), f.String(), b.flags.stack.Count()))
}

// TurnEnd discards hand and bonus flags, renews an empty stack, records a
// snapshot and advances the turn. When the new turn starts with at most
// party size + LookaheadMargin flags in the stack and nothing is reserved
// yet, the graveyard is reserved as the next stack right away.
func (b *Battle) TurnEnd() {
	discarded := len(b.hand) + len(b.bonus)
	for _, f := range b.hand {
		b.flags.graveyard.Add(f)
	}
	for _, f := range b.bonus {
		b.flags.graveyard.Add(f)
	}

	if b.flags.stack.IsEmpty() {
		b.renew()
	}

	snap := b.Clone()
	snap.snapshots = nil
	b.snapshots = append(b.snapshots, snap)
	b.logger.Log(log.NewTurnEndEvent(b.turn, discarded, b.flags.stack.Count()))

	b.hand = nil
	b.bonus = nil
	b.turn++
	b.logger.Log(log.NewTurnEvent(b.turn, b.flags.stack.Count()))

	if b.needsReserve() {
		b.flags.Reserve()
		b.logger.Log(log.NewReserveEvent(b.turn, b.flags.reserve.Count(), b.flags.stack.Count()))
	}
}

// draw takes f out of the stack, renewing an empty stack first.
func (b *Battle) draw(op string, f Flag) Flag {
	if b.flags.stack.IsEmpty() {
		b.renew()
	}
	if !b.flags.stack.Remove(f) {
		panic(&ContractError{Op: op, Flag: f, Index: -1, Err: ErrFlagUnavailable})
	}
	return f
}

func (b *Battle) renew() {
	fromReserve := b.flags.IsReserved()
	b.flags.Renew()
	b.logger.Log(log.NewRenewEvent(b.turn, fromReserve, b.flags.stack.Count()))
}

func (b *Battle) needsReserve() bool {
	return !b.flags.IsReserved() && b.flags.stack.Count() <= b.partySize+LookaheadMargin
}

// Hand returns a copy of the flags drawn into the hand this turn.
func (b *Battle) Hand() []Flag {
	return slices.Clone(b.hand)
}

// Bonus returns a copy of the bonus flags drawn this turn.
func (b *Battle) Bonus() []Flag {
	return slices.Clone(b.bonus)
}

// Turn returns the current turn number, starting at 1.
func (b *Battle) Turn() int {
	return b.turn
}

func (b *Battle) PartySize() int {
	return b.partySize
}

// Flags returns a read-only view of the stack, graveyard and reserve.
func (b *Battle) Flags() FlagsView {
	return flagsView{m: b.flags}
}

// Drawable returns the zone the next draw takes from: the stack, or when it
// is empty, the zone the stack would be renewed from.
func (b *Battle) Drawable() ZoneReader {
	switch {
	case !b.flags.stack.IsEmpty():
		return b.flags.stack
	case b.flags.IsReserved():
		return b.flags.reserve
	default:
		return b.flags.graveyard
	}
}

// FlagCount returns every flag the battle accounts for, in any zone or hand.
// It always equals the seed size.
func (b *Battle) FlagCount() int {
	return b.flags.Total() + len(b.hand) + len(b.bonus)
}

// Snapshots returns copies of the state recorded at each turn end.
func (b *Battle) Snapshots() []*Battle {
	out := make([]*Battle, len(b.snapshots))
	for i, s := range b.snapshots {
		out[i] = s.Clone()
	}
	return out
}

// Clone returns a fully independent copy. The copy does not log.
func (b *Battle) Clone() *Battle {
	c := NewBattle(BattleConfig{})
	c.flags = b.flags.Clone()
	c.hand = slices.Clone(b.hand)
	c.bonus = slices.Clone(b.bonus)
	c.snapshots = slices.Clone(b.snapshots)
	c.turn = b.turn
	c.partySize = b.partySize
	return c
}

// Commit runs fn against a copy of the battle and adopts the result only if
// fn completes. A *ContractError raised by fn is returned and leaves the
// battle as it was; any other panic propagates.
func (b *Battle) Commit(fn func(*Battle)) error {
	buf := log.NewMemoryLogger()
	next, err := b.try(fn, buf)
	if err != nil {
		return err
	}
	for _, e := range buf.Events() {
		b.logger.Log(e)
	}
	next.logger = b.logger
	*b = *next
	return nil
}

// Predict runs fn against a copy of the battle and returns that copy. The
// battle itself is never modified.
func (b *Battle) Predict(fn func(*Battle)) (*Battle, error) {
	return b.try(fn, log.NopLogger{})
}

func (b *Battle) try(fn func(*Battle), logger log.EventLogger) (next *Battle, err error) {
	next = b.Clone()
	next.logger = logger
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*ContractError)
			if !ok {
				panic(r)
			}
			next, err = nil, ce
		}
	}()
	fn(next)
	return next, nil
}
