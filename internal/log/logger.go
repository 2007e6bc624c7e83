package log

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// EventLogger is the interface for logging battle events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- NopLogger: drops everything ---

type NopLogger struct{}

func (NopLogger) Log(GameEvent)       {}
func (NopLogger) Events() []GameEvent { return nil }

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- ZapLogger: forwards events to a structured zap logger ---

type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	l.z.Debug(event.Details,
		zap.String("event", event.Type.String()),
		zap.Int("turn", event.Turn),
		zap.String("flag", event.Flag),
		zap.Int("stack", event.Stack),
	)
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("T%-2d %-11s| %s", e.Turn, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewDrawEvent(turn int, flag string, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventDraw,
		Flag:    flag,
		Stack:   stack,
		Details: fmt.Sprintf("draws %s into hand (stack %d)", flag, stack),
	}
}

func NewBonusDrawEvent(turn int, flag string, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventBonusDraw,
		Flag:    flag,
		Stack:   stack,
		Details: fmt.Sprintf("draws %s as a bonus (stack %d)", flag, stack),
	}
}

func NewOrderChangeEvent(turn int, index int, oldFlag, newFlag string, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventOrderChange,
		Flag:    newFlag,
		Stack:   stack,
		Details: fmt.Sprintf("order change at slot %d: %s → %s", index+1, oldFlag, newFlag),
	}
}

func NewDiscardEvent(turn int, flag string, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventDiscard,
		Flag:    flag,
		Stack:   stack,
		Details: fmt.Sprintf("%s goes to the graveyard", flag),
	}
}

func NewRenewEvent(turn int, fromReserve bool, stack int) GameEvent {
	source := "graveyard"
	if fromReserve {
		source = "reserve"
	}
	return GameEvent{
		Turn:    turn,
		Type:    EventRenew,
		Stack:   stack,
		Details: fmt.Sprintf("stack renewed from %s (%d flags)", source, stack),
	}
}

func NewReserveEvent(turn int, reserved int, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventReserve,
		Stack:   stack,
		Details: fmt.Sprintf("graveyard reserved as next stack (%d flags, stack %d)", reserved, stack),
	}
}

func NewTurnEndEvent(turn int, discarded int, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventTurnEnd,
		Stack:   stack,
		Details: fmt.Sprintf("turn ends, %d flags discarded", discarded),
	}
}

func NewTurnEvent(turn int, stack int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventNewTurn,
		Stack:   stack,
		Details: fmt.Sprintf("=== Turn %d ===", turn),
	}
}
