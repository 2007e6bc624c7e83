package log

// EventType enumerates all observable battle events.
type EventType int

const (
	EventDraw EventType = iota
	EventBonusDraw
	EventOrderChange
	EventDiscard
	EventRenew
	EventReserve
	EventTurnEnd
	EventNewTurn
)

func (e EventType) String() string {
	switch e {
	case EventDraw:
		return "Draw"
	case EventBonusDraw:
		return "BonusDraw"
	case EventOrderChange:
		return "OrderChange"
	case EventDiscard:
		return "Discard"
	case EventRenew:
		return "Renew"
	case EventReserve:
		return "Reserve"
	case EventTurnEnd:
		return "TurnEnd"
	case EventNewTurn:
		return "NewTurn"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a battle.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Type    EventType // event type
	Flag    string    // flag name (if applicable)
	Stack   int       // stack size after the event
	Details string    // human-readable detail string
}
