package net

import (
	"errors"
	"fmt"
	"sync"

	"github.com/peterkuimelis/orderflag/internal/game"
	"github.com/peterkuimelis/orderflag/internal/log"
)

var (
	ErrNoBattle    = errors.New("no battle started")
	ErrUnknownType = errors.New("unknown message type")
	ErrEmptyPlan   = errors.New("predict needs at least one step")
)

// Session holds one battle and applies client messages to it. Every
// mutating message goes through Battle.Commit, so a rejected message leaves
// the battle untouched. Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	battle  *game.Battle
	logger  log.EventLogger
	seen    int
	parties string
	newLog  func() log.EventLogger
}

// SessionConfig holds configuration for a new session.
type SessionConfig struct {
	PartiesFile string                 // presets file for "start" with a party number
	NewLogger   func() log.EventLogger // optional, one logger per battle
}

func NewSession(cfg SessionConfig) *Session {
	newLog := cfg.NewLogger
	if newLog == nil {
		newLog = func() log.EventLogger { return log.NewMemoryLogger() }
	}
	return &Session{parties: cfg.PartiesFile, newLog: newLog}
}

// Battle returns a copy of the current battle, or nil before "start".
func (s *Session) Battle() *game.Battle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battle == nil {
		return nil
	}
	return s.battle.Clone()
}

// Handle applies msg and returns the reply. Failures are reported as an
// "error" reply; the returned error mirrors it for callers that log.
func (s *Session) Handle(msg ClientMessage) (ServerMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.handle(msg)
	if err != nil {
		return ServerMessage{Type: MsgError, Error: err.Error()}, err
	}
	return reply, nil
}

func (s *Session) handle(msg ClientMessage) (ServerMessage, error) {
	switch msg.Type {
	case MsgStart:
		return s.start(msg)
	case MsgState:
		if s.battle == nil {
			return ServerMessage{}, ErrNoBattle
		}
		return ServerMessage{Type: MsgUpdate, State: BuildStateView(s.battle)}, nil
	case MsgPredict:
		return s.predict(msg.Steps)
	}

	if s.battle == nil {
		return ServerMessage{}, ErrNoBattle
	}
	op, err := compile(msg)
	if err != nil {
		return ServerMessage{}, err
	}
	if err := s.battle.Commit(op); err != nil {
		return ServerMessage{}, fmt.Errorf("%s: %w", msg.Type, err)
	}
	return ServerMessage{Type: MsgUpdate, State: BuildStateView(s.battle), Events: s.drainEvents()}, nil
}

func (s *Session) start(msg ClientMessage) (ServerMessage, error) {
	seed, err := s.seed(msg)
	if err != nil {
		return ServerMessage{}, fmt.Errorf("start: %w", err)
	}
	s.logger = s.newLog()
	s.seen = 0
	s.battle = game.NewBattle(game.BattleConfig{Flags: seed, Logger: s.logger})
	return ServerMessage{Type: MsgUpdate, State: BuildStateView(s.battle)}, nil
}

// seed picks the battle's flags from an explicit list, a preset number or
// the per-kind counts, in that order of precedence.
func (s *Session) seed(msg ClientMessage) ([]game.Flag, error) {
	switch {
	case len(msg.Flags) > 0:
		flags, err := parseFlags(msg.Flags)
		if err != nil {
			return nil, err
		}
		z := game.NewZone(flags...)
		if err := game.ValidateCounts(z.CountOf(game.KindBeat), z.CountOf(game.KindAction), z.CountOf(game.KindTry)); err != nil {
			return nil, err
		}
		return flags, nil
	case msg.Party > 0:
		if s.parties == "" {
			return nil, errors.New("no party presets configured")
		}
		_, flags, err := game.SetupByNumber(s.parties, msg.Party)
		return flags, err
	default:
		if err := game.ValidateCounts(msg.Beat, msg.Action, msg.Try); err != nil {
			return nil, err
		}
		return game.SeedFlags(msg.Beat, msg.Action, msg.Try), nil
	}
}

func (s *Session) predict(steps []ClientMessage) (ServerMessage, error) {
	if s.battle == nil {
		return ServerMessage{}, ErrNoBattle
	}
	if len(steps) == 0 {
		return ServerMessage{}, ErrEmptyPlan
	}
	ops := make([]func(*game.Battle), 0, len(steps))
	for i, step := range steps {
		op, err := compile(step)
		if err != nil {
			return ServerMessage{}, fmt.Errorf("predict step %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}
	next, err := s.battle.Predict(func(b *game.Battle) {
		for _, op := range ops {
			op(b)
		}
	})
	if err != nil {
		return ServerMessage{}, fmt.Errorf("predict: %w", err)
	}
	return ServerMessage{Type: MsgPrediction, State: BuildStateView(next)}, nil
}

// drainEvents returns the events logged since the last call.
func (s *Session) drainEvents() []EventView {
	all := s.logger.Events()
	var out []EventView
	for _, e := range all[s.seen:] {
		out = append(out, EventView{
			Turn:    e.Turn,
			Type:    e.Type.String(),
			Flag:    e.Flag,
			Stack:   e.Stack,
			Details: e.Details,
		})
	}
	s.seen = len(all)
	return out
}

// compile turns a mutating message into a battle operation. Flag parsing
// happens here so bad input is rejected before the battle is touched.
func compile(msg ClientMessage) (func(*game.Battle), error) {
	switch msg.Type {
	case MsgDrawHand, MsgDrawBonus:
		flags, err := parseFlags(msg.Flags)
		if err != nil {
			return nil, err
		}
		if msg.Type == MsgDrawHand {
			return func(b *game.Battle) { b.DrawHand(flags...) }, nil
		}
		return func(b *game.Battle) { b.DrawBonus(flags...) }, nil
	case MsgOrderChange:
		f, err := game.ParseFlag(msg.Flag)
		if err != nil {
			return nil, err
		}
		return func(b *game.Battle) { b.OrderChange(msg.Index, f) }, nil
	case MsgTurnEnd:
		return func(b *game.Battle) { b.TurnEnd() }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
}

func parseFlags(names []string) ([]game.Flag, error) {
	flags := make([]game.Flag, 0, len(names))
	for _, n := range names {
		f, err := game.ParseFlag(n)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, nil
}

// BuildStateView creates a StateView of b.
func BuildStateView(b *game.Battle) *StateView {
	v := b.Flags()
	return &StateView{
		Turn:       b.Turn(),
		PartySize:  b.PartySize(),
		Hand:       flagNames(b.Hand()),
		Bonus:      flagNames(b.Bonus()),
		Stack:      NewZoneView(v.Stack()),
		Graveyard:  NewZoneView(v.Graveyard()),
		Reserved:   NewZoneView(v.Reserved()),
		IsReserved: v.IsReserved(),
		Drawable:   NewZoneView(b.Drawable()),
	}
}

// NewZoneView counts z by kind.
func NewZoneView(z game.ZoneReader) ZoneView {
	return ZoneView{
		Total:  z.Count(),
		Beat:   z.CountOf(game.KindBeat),
		Action: z.CountOf(game.KindAction),
		Try:    z.CountOf(game.KindTry),
		Flags:  flagNames(z.Flags()),
	}
}

func flagNames(flags []game.Flag) []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.String()
	}
	return out
}
