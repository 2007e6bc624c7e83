package game

// FlagManager owns the stack (deck) and graveyard (discard pile) plus the
// reserve, a future stack captured from the graveyard ahead of time.
//
// Stack and Graveyard hand out the live zones; Battle mutates them directly
// and keeps the bookkeeping consistent.
type FlagManager struct {
	seed      []Flag
	stack     *Zone
	graveyard *Zone
	reserve   *Zone
}

// NewFlagManager starts with every seed flag in the stack.
func NewFlagManager(seed []Flag) *FlagManager {
	s := make([]Flag, len(seed))
	copy(s, seed)
	return &FlagManager{
		seed:      s,
		stack:     NewZone(s...),
		graveyard: NewZone(),
		reserve:   NewZone(),
	}
}

// Renew rebuilds the stack. A pending reserve becomes the new stack and the
// graveyard is left alone; otherwise the graveyard becomes the stack and is
// emptied.
func (m *FlagManager) Renew() {
	if m.reserve.IsEmpty() {
		m.stack = m.graveyard.Clone()
		m.graveyard = NewZone()
		return
	}
	m.stack = m.reserve.Clone()
	m.reserve = NewZone()
}

// Reserve freezes the current graveyard as the source of the next Renew and
// empties the graveyard. The stack is not touched.
func (m *FlagManager) Reserve() {
	m.reserve = m.graveyard.Clone()
	m.graveyard = NewZone()
}

// IsReserved reports whether a reserve is waiting for the next Renew.
func (m *FlagManager) IsReserved() bool {
	return !m.reserve.IsEmpty()
}

func (m *FlagManager) Stack() *Zone {
	return m.stack
}

func (m *FlagManager) Graveyard() *Zone {
	return m.graveyard
}

func (m *FlagManager) Reserved() *Zone {
	return m.reserve
}

// Seed returns a copy of the flags the manager was created with.
func (m *FlagManager) Seed() []Flag {
	out := make([]Flag, len(m.seed))
	copy(out, m.seed)
	return out
}

// Total returns the number of flags held across stack, graveyard and reserve.
func (m *FlagManager) Total() int {
	return m.stack.Count() + m.graveyard.Count() + m.reserve.Count()
}

// Clone returns a deep copy.
func (m *FlagManager) Clone() *FlagManager {
	c := NewFlagManager(m.seed)
	c.stack = m.stack.Clone()
	c.graveyard = m.graveyard.Clone()
	c.reserve = m.reserve.Clone()
	return c
}
