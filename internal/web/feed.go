package web

import (
	"sync"

	"github.com/peterkuimelis/cardsmith/internal/log"
)

// Feed is an EventLogger that fans store events out to websocket
// subscribers while keeping the full history in memory. It is the one
// place in the app where store events cross a goroutine boundary, so it
// carries its own lock.
type Feed struct {
	mu   sync.Mutex
	mem  *log.MemoryLogger
	subs map[chan log.StoreEvent]bool
}

func NewFeed() *Feed {
	return &Feed{
		mem:  log.NewMemoryLogger(),
		subs: make(map[chan log.StoreEvent]bool),
	}
}

func (f *Feed) Log(event log.StoreEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mem.Log(event)
	stamped := f.mem.LastEvent()
	for ch := range f.subs {
		// Drop rather than block: a stalled browser must not wedge the
		// mutation path.
		select {
		case ch <- stamped:
		default:
		}
	}
}

func (f *Feed) Events() []log.StoreEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mem.Events()
}

// Subscribe registers a new listener channel.
func (f *Feed) Subscribe() chan log.StoreEvent {
	ch := make(chan log.StoreEvent, 64)
	f.mu.Lock()
	f.subs[ch] = true
	f.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel.
func (f *Feed) Unsubscribe(ch chan log.StoreEvent) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}
