package game

// ZoneReader is the read-only side of a Zone handed out to callers of Battle.
type ZoneReader interface {
	Count() int
	IsEmpty() bool
	CountOf(kind FlagKind) int
	OfKind(kind FlagKind) []Flag
	Contains(f Flag) bool
	Flags() []Flag
	Clone() *Zone
}

// Zone holds the flags of a deck or a discard pile. Order carries no rule
// meaning but is kept so listings are reproducible.
type Zone struct {
	flags []Flag
}

// NewZone creates a zone seeded with a copy of flags.
func NewZone(flags ...Flag) *Zone {
	z := &Zone{flags: make([]Flag, len(flags))}
	copy(z.flags, flags)
	return z
}

// Add puts one flag into the zone. There is no upper bound.
func (z *Zone) Add(f Flag) {
	z.flags = append(z.flags, f)
}

// Remove takes out the first flag equal to f. It reports false and leaves the
// zone untouched when no such flag is present.
func (z *Zone) Remove(f Flag) bool {
	for i, c := range z.flags {
		if c == f {
			z.flags = append(z.flags[:i], z.flags[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the total number of flags.
func (z *Zone) Count() int {
	return len(z.flags)
}

func (z *Zone) IsEmpty() bool {
	return z.Count() == 0
}

// Contains reports whether at least one flag equal to f is present.
func (z *Zone) Contains(f Flag) bool {
	for _, c := range z.flags {
		if c == f {
			return true
		}
	}
	return false
}

// OfKind returns the flags of one kind in insertion order.
func (z *Zone) OfKind(kind FlagKind) []Flag {
	var result []Flag
	for _, c := range z.flags {
		if c.kind == kind {
			result = append(result, c)
		}
	}
	return result
}

// CountOf returns how many flags of one kind the zone holds.
func (z *Zone) CountOf(kind FlagKind) int {
	count := 0
	for _, c := range z.flags {
		if c.kind == kind {
			count++
		}
	}
	return count
}

func (z *Zone) Beats() []Flag   { return z.OfKind(KindBeat) }
func (z *Zone) Actions() []Flag { return z.OfKind(KindAction) }
func (z *Zone) Tries() []Flag   { return z.OfKind(KindTry) }

// Flags returns a copy of every flag in the zone.
func (z *Zone) Flags() []Flag {
	out := make([]Flag, len(z.flags))
	copy(out, z.flags)
	return out
}

// Clone returns an independent copy of the zone.
func (z *Zone) Clone() *Zone {
	return NewZone(z.flags...)
}
