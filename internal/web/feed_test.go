package web

import (
	"testing"

	"github.com/peterkuimelis/cardsmith/internal/log"
)

func TestFeedDeliversToSubscribers(t *testing.T) {
	feed := NewFeed()
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)

	feed.Log(log.NewCardAddedEvent("c1", "Storm Drake"))

	select {
	case ev := <-ch:
		if ev.Type != log.EventCardAdded || ev.ID != "c1" {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.Seq == 0 {
			t.Error("event delivered without a sequence number")
		}
	default:
		t.Fatal("no event delivered")
	}

	if events := feed.Events(); len(events) != 1 {
		t.Errorf("expected 1 event in history, got %d", len(events))
	}
}

func TestFeedDropsWhenSubscriberIsFull(t *testing.T) {
	feed := NewFeed()
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)

	// Overfill the buffer; Log must not block and history must keep
	// every event.
	for i := 0; i < 100; i++ {
		feed.Log(log.NewClearEvent())
	}
	if got := len(feed.Events()); got != 100 {
		t.Errorf("expected 100 events in history, got %d", got)
	}
	if got := len(ch); got != cap(ch) {
		t.Errorf("expected subscriber buffer full at %d, got %d", cap(ch), got)
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	feed := NewFeed()
	ch := feed.Subscribe()
	feed.Unsubscribe(ch)

	feed.Log(log.NewClearEvent())
	if len(ch) != 0 {
		t.Error("event delivered after unsubscribe")
	}
}
