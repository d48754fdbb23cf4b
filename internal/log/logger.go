package log

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MarshalJSON emits the event type name rather than its ordinal, so feed
// consumers don't depend on constant ordering.
func (e EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// EventLogger is the interface for logging store mutations.
type EventLogger interface {
	Log(event StoreEvent)
	Events() []StoreEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []StoreEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event StoreEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []StoreEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []StoreEvent {
	var result []StoreEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() StoreEvent {
	if len(l.events) == 0 {
		return StoreEvent{}
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

func (l *TextLogger) Log(event StoreEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(l.MemoryLogger.LastEvent()))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e StoreEvent) string {
	kind := e.Type.String()
	// Pad type to 20 chars for alignment
	for len(kind) < 20 {
		kind += " "
	}
	return fmt.Sprintf("#%-4d %s| %s", e.Seq, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []StoreEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewCardAddedEvent(id, name string) StoreEvent {
	return StoreEvent{
		Type:    EventCardAdded,
		Entity:  "card",
		ID:      id,
		Details: fmt.Sprintf("card %q added (%s)", name, id),
	}
}

func NewCardUpdatedEvent(id, name string) StoreEvent {
	return StoreEvent{
		Type:    EventCardUpdated,
		Entity:  "card",
		ID:      id,
		Details: fmt.Sprintf("card %q updated (%s)", name, id),
	}
}

func NewCardDeletedEvent(id string) StoreEvent {
	return StoreEvent{
		Type:    EventCardDeleted,
		Entity:  "card",
		ID:      id,
		Details: fmt.Sprintf("card %s deleted (membership cascaded)", id),
	}
}

func NewSetAddedEvent(id, name string) StoreEvent {
	return StoreEvent{
		Type:    EventSetAdded,
		Entity:  "set",
		ID:      id,
		Details: fmt.Sprintf("set %q added (%s)", name, id),
	}
}

func NewSetUpdatedEvent(id, name string) StoreEvent {
	return StoreEvent{
		Type:    EventSetUpdated,
		Entity:  "set",
		ID:      id,
		Details: fmt.Sprintf("set %q updated (%s)", name, id),
	}
}

func NewSetDeletedEvent(id string, themesRemoved int) StoreEvent {
	return StoreEvent{
		Type:    EventSetDeleted,
		Entity:  "set",
		ID:      id,
		Details: fmt.Sprintf("set %s deleted (%d themes cascaded)", id, themesRemoved),
	}
}

func NewCardAddedToSetEvent(setID, cardID string) StoreEvent {
	return StoreEvent{
		Type:    EventCardAddedToSet,
		Entity:  "set",
		ID:      setID,
		Member:  cardID,
		Details: fmt.Sprintf("card %s added to set %s", cardID, setID),
	}
}

func NewCardRemovedFromSetEvent(setID, cardID string) StoreEvent {
	return StoreEvent{
		Type:    EventCardRemovedFromSet,
		Entity:  "set",
		ID:      setID,
		Member:  cardID,
		Details: fmt.Sprintf("card %s removed from set %s", cardID, setID),
	}
}

func NewThemeAddedEvent(id, name string) StoreEvent {
	return StoreEvent{
		Type:    EventThemeAdded,
		Entity:  "theme",
		ID:      id,
		Details: fmt.Sprintf("theme %q added (%s)", name, id),
	}
}

func NewThemeUpdatedEvent(id, name string) StoreEvent {
	return StoreEvent{
		Type:    EventThemeUpdated,
		Entity:  "theme",
		ID:      id,
		Details: fmt.Sprintf("theme %q updated (%s)", name, id),
	}
}

func NewThemeDeletedEvent(id string) StoreEvent {
	return StoreEvent{
		Type:    EventThemeDeleted,
		Entity:  "theme",
		ID:      id,
		Details: fmt.Sprintf("theme %s deleted", id),
	}
}

func NewCardAddedToThemeEvent(themeID, cardID string) StoreEvent {
	return StoreEvent{
		Type:    EventCardAddedToTheme,
		Entity:  "theme",
		ID:      themeID,
		Member:  cardID,
		Details: fmt.Sprintf("card %s added to theme %s", cardID, themeID),
	}
}

func NewCardRemovedFromThemeEvent(themeID, cardID string) StoreEvent {
	return StoreEvent{
		Type:    EventCardRemovedFromTheme,
		Entity:  "theme",
		ID:      themeID,
		Member:  cardID,
		Details: fmt.Sprintf("card %s removed from theme %s", cardID, themeID),
	}
}

func NewImportEvent(cards, sets, themes int) StoreEvent {
	return StoreEvent{
		Type:    EventImport,
		Entity:  "store",
		Details: fmt.Sprintf("snapshot imported (%d cards, %d sets, %d themes)", cards, sets, themes),
	}
}

func NewClearEvent() StoreEvent {
	return StoreEvent{
		Type:    EventClear,
		Entity:  "store",
		Details: "store cleared",
	}
}
