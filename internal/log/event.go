package log

// EventType enumerates all observable store mutations.
type EventType int

const (
	EventCardAdded EventType = iota
	EventCardUpdated
	EventCardDeleted
	EventSetAdded
	EventSetUpdated
	EventSetDeleted
	EventCardAddedToSet
	EventCardRemovedFromSet
	EventThemeAdded
	EventThemeUpdated
	EventThemeDeleted
	EventCardAddedToTheme
	EventCardRemovedFromTheme
	EventImport
	EventClear
)

func (e EventType) String() string {
	switch e {
	case EventCardAdded:
		return "CardAdded"
	case EventCardUpdated:
		return "CardUpdated"
	case EventCardDeleted:
		return "CardDeleted"
	case EventSetAdded:
		return "SetAdded"
	case EventSetUpdated:
		return "SetUpdated"
	case EventSetDeleted:
		return "SetDeleted"
	case EventCardAddedToSet:
		return "CardAddedToSet"
	case EventCardRemovedFromSet:
		return "CardRemovedFromSet"
	case EventThemeAdded:
		return "ThemeAdded"
	case EventThemeUpdated:
		return "ThemeUpdated"
	case EventThemeDeleted:
		return "ThemeDeleted"
	case EventCardAddedToTheme:
		return "CardAddedToTheme"
	case EventCardRemovedFromTheme:
		return "CardRemovedFromTheme"
	case EventImport:
		return "Import"
	case EventClear:
		return "Clear"
	default:
		return "Unknown"
	}
}

// StoreEvent represents a single observable mutation of the store.
type StoreEvent struct {
	Seq     int       `json:"seq"`              // monotonic sequence number, assigned by the logger
	Type    EventType `json:"type"`             // machine-readable event kind
	Entity  string    `json:"entity"`           // "card", "set", "theme" or "store"
	ID      string    `json:"id,omitempty"`     // primary entity id, if any
	Member  string    `json:"member,omitempty"` // member card id for membership events
	Details string    `json:"details"`          // human-readable description
}
