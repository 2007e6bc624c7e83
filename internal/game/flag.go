package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --- Enums ---

type FlagKind int

const (
	KindBeat FlagKind = iota
	KindAction
	KindTry
)

func (k FlagKind) String() string {
	switch k {
	case KindBeat:
		return "Beat"
	case KindAction:
		return "Action"
	case KindTry:
		return "Try"
	default:
		return "Unknown"
	}
}

// Kinds lists every flag kind in display order.
var Kinds = []FlagKind{KindBeat, KindAction, KindTry}

var (
	ErrUnknownKind = errors.New("unknown flag kind")
	ErrBeatNumber  = errors.New("beat flags carry no number")
)

// Flag is one order flag. Two flags are the same flag iff kind and number
// match, so Flag values compare with ==.
type Flag struct {
	kind   FlagKind
	number int
}

// Beat returns a Beat flag. Beat flags never carry a number.
func Beat() Flag {
	return Flag{kind: KindBeat}
}

// Action returns an Action flag tagged with n.
func Action(n int) Flag {
	return Flag{kind: KindAction, number: n}
}

// Try returns a Try flag tagged with n.
func Try(n int) Flag {
	return Flag{kind: KindTry, number: n}
}

// NewFlag builds a flag of the given kind, rejecting a Beat with a number.
func NewFlag(kind FlagKind, number int) (Flag, error) {
	switch kind {
	case KindBeat:
		if number != 0 {
			return Flag{}, fmt.Errorf("%w: got %d", ErrBeatNumber, number)
		}
		return Beat(), nil
	case KindAction, KindTry:
		return Flag{kind: kind, number: number}, nil
	default:
		return Flag{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

func (f Flag) Kind() FlagKind {
	return f.kind
}

func (f Flag) Number() int {
	return f.number
}

func (f Flag) String() string {
	if f.kind == KindBeat || f.number == 0 {
		return f.kind.String()
	}
	return fmt.Sprintf("%s(%d)", f.kind, f.number)
}

// ParseKind accepts a kind name or its first letter, case-insensitively.
func ParseKind(s string) (FlagKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "beat":
		return KindBeat, nil
	case "a", "action":
		return KindAction, nil
	case "t", "try":
		return KindTry, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// ParseFlag parses forms like "B", "beat", "A", "A3", "action:3", "try2"
// and the String form "Action(3)".
func ParseFlag(s string) (Flag, error) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutSuffix(s, ")"); ok {
		s = strings.Replace(inner, "(", ":", 1)
	}
	name, num, hasNum := strings.Cut(s, ":")
	if !hasNum {
		i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' || r == '-' })
		if i > 0 {
			name, num, hasNum = s[:i], s[i:], true
		}
	}

	kind, err := ParseKind(name)
	if err != nil {
		return Flag{}, err
	}
	number := 0
	if hasNum {
		number, err = strconv.Atoi(num)
		if err != nil {
			return Flag{}, fmt.Errorf("parse flag %q: %w", s, err)
		}
	}
	return NewFlag(kind, number)
}

// ParseFlags parses every whitespace separated field of s.
func ParseFlags(s string) ([]Flag, error) {
	var flags []Flag
	for _, field := range strings.Fields(s) {
		f, err := ParseFlag(field)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
	}
	return flags, nil
}

// Repeat returns n copies of f.
func Repeat(f Flag, n int) []Flag {
	flags := make([]Flag, 0, max(n, 0))
	for i := 0; i < n; i++ {
		flags = append(flags, f)
	}
	return flags
}
