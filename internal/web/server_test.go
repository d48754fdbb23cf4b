package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/peterkuimelis/cardsmith/internal/booster"
	"github.com/peterkuimelis/cardsmith/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	feed := NewFeed()
	st := store.New(store.Config{Logger: feed})
	gen := &booster.Generator{Rand: rand.New(rand.NewSource(1))}
	return NewServer(st, gen, feed), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCardCRUD(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	w := doJSON(t, h, "POST", "/api/cards", store.CardInput{
		Name:   "Storm Drake",
		Type:   "Creature",
		Rarity: store.RarityUncommon,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add card: status %d", w.Code)
	}
	var created map[string]string
	decodeInto(t, w, &created)
	id := created["id"]
	if id == "" {
		t.Fatal("add card returned no id")
	}

	w = doJSON(t, h, "GET", "/api/cards", nil)
	var cards []store.Card
	decodeInto(t, w, &cards)
	if len(cards) != 1 || cards[0].Name != "Storm Drake" {
		t.Fatalf("unexpected card list: %+v", cards)
	}

	w = doJSON(t, h, "PUT", "/api/cards/"+id, store.Card{Name: "Storm Drake, Ascendant", Type: "Creature", Rarity: store.RarityRare})
	if w.Code != http.StatusNoContent {
		t.Fatalf("update card: status %d", w.Code)
	}
	card, ok := st.CardByID(id)
	if !ok || card.Name != "Storm Drake, Ascendant" {
		t.Fatalf("update not applied: %+v", card)
	}

	w = doJSON(t, h, "DELETE", "/api/cards/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete card: status %d", w.Code)
	}
	if _, ok := st.CardByID(id); ok {
		t.Fatal("card still present after delete")
	}
}

func TestSetMembershipEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	var created map[string]string
	decodeInto(t, doJSON(t, h, "POST", "/api/sets", store.SetInput{Name: "Alpha", Abbreviation: "ALP"}), &created)
	setID := created["id"]
	decodeInto(t, doJSON(t, h, "POST", "/api/cards", store.CardInput{Name: "Card A", Type: "Creature", Rarity: store.RarityCommon}), &created)
	cardID := created["id"]

	if w := doJSON(t, h, "POST", "/api/sets/"+setID+"/cards/"+cardID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("add to set: status %d", w.Code)
	}
	set, _ := st.SetByID(setID)
	if !set.Contains(cardID) {
		t.Fatal("card not added to set")
	}

	if w := doJSON(t, h, "DELETE", "/api/sets/"+setID+"/cards/"+cardID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("remove from set: status %d", w.Code)
	}
	set, _ = st.SetByID(setID)
	if set.Contains(cardID) {
		t.Fatal("card still in set after removal")
	}
}

func TestThemeEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	var created map[string]string
	decodeInto(t, doJSON(t, h, "POST", "/api/sets", store.SetInput{Name: "Alpha"}), &created)
	setID := created["id"]

	// setId is required up front.
	if w := doJSON(t, h, "POST", "/api/themes", store.ThemeInput{Name: "Skies"}); w.Code != http.StatusBadRequest {
		t.Fatalf("theme without setId: status %d", w.Code)
	}

	decodeInto(t, doJSON(t, h, "POST", "/api/themes", store.ThemeInput{Name: "Skies", Element: "Air", SetID: setID}), &created)
	themeID := created["id"]

	decodeInto(t, doJSON(t, h, "POST", "/api/cards", store.CardInput{Name: "Wind Rider", Type: "Creature", Rarity: store.RarityCommon}), &created)
	cardID := created["id"]

	if w := doJSON(t, h, "POST", "/api/themes/"+themeID+"/cards/"+cardID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("add to theme: status %d", w.Code)
	}
	// Joining a theme also joins the owning set.
	set, _ := st.SetByID(setID)
	if !set.Contains(cardID) {
		t.Fatal("card joined the theme but not its owning set")
	}

	w := doJSON(t, h, "GET", "/api/sets/"+setID+"/themes", nil)
	var themes []store.JumpstartTheme
	decodeInto(t, w, &themes)
	if len(themes) != 1 || themes[0].ID != themeID {
		t.Fatalf("unexpected themes for set: %+v", themes)
	}

	if w := doJSON(t, h, "GET", "/api/sets/missing/themes", nil); w.Code != http.StatusNotFound {
		t.Fatalf("themes for unknown set: status %d", w.Code)
	}

	if w := doJSON(t, h, "DELETE", "/api/themes/"+themeID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete theme: status %d", w.Code)
	}
	if len(st.Themes()) != 0 {
		t.Fatal("theme still present after delete")
	}
}

func TestDeleteNoneSetForbidden(t *testing.T) {
	srv, st := newTestServer(t)

	w := doJSON(t, srv.Handler(), "DELETE", "/api/sets/"+store.NoneSetID, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if _, ok := st.SetByID(store.NoneSetID); !ok {
		t.Fatal("none set missing")
	}
}

func TestBoosterEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	setID := st.AddSet(store.SetInput{Name: "Alpha", Abbreviation: "ALP"})
	for i := 0; i < 8; i++ {
		id := st.AddCard(store.CardInput{Name: fmt.Sprintf("Common %d", i), Type: "Creature", Rarity: store.RarityCommon})
		st.AddCardToSet(setID, id)
	}

	w := doJSON(t, h, "GET", "/api/sets/"+setID+"/booster", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("booster: status %d", w.Code)
	}
	var drafted []booster.DraftedCard
	decodeInto(t, w, &drafted)
	if len(drafted) != booster.CommonSlots+booster.WildcardSlots {
		t.Fatalf("expected %d slots from a commons-only pool, got %d", booster.CommonSlots+booster.WildcardSlots, len(drafted))
	}

	if w := doJSON(t, h, "GET", "/api/sets/missing/booster", nil); w.Code != http.StatusNotFound {
		t.Fatalf("booster for unknown set: status %d", w.Code)
	}

	// An empty pool yields an empty array, not null.
	emptyID := st.AddSet(store.SetInput{Name: "Empty"})
	w = doJSON(t, h, "GET", "/api/sets/"+emptyID+"/booster", nil)
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("empty pool booster body = %q, expected []", body)
	}
}

func TestBoosterEndpointParallelRequests(t *testing.T) {
	// The generator is shared across handlers and its rand source is
	// seeded lazily; parallel draws must be safe. Under the race
	// detector this doubles as a data-race check.
	srv, st := newTestServer(t)
	h := srv.Handler()

	setID := st.AddSet(store.SetInput{Name: "Alpha"})
	for i := 0; i < 8; i++ {
		id := st.AddCard(store.CardInput{Name: fmt.Sprintf("Common %d", i), Type: "Creature", Rarity: store.RarityCommon})
		st.AddCardToSet(setID, id)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				req := httptest.NewRequest("GET", "/api/sets/"+setID+"/booster", nil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				if w.Code != http.StatusOK {
					t.Errorf("booster: status %d", w.Code)
					return
				}
				var drafted []booster.DraftedCard
				if err := json.NewDecoder(w.Body).Decode(&drafted); err != nil {
					t.Errorf("decode booster: %v", err)
					return
				}
				if len(drafted) != booster.CommonSlots+booster.WildcardSlots {
					t.Errorf("expected %d slots, got %d", booster.CommonSlots+booster.WildcardSlots, len(drafted))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSnapshotEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	cardID := st.AddCard(store.CardInput{Name: "Keeper", Type: "Creature", Rarity: store.RarityRare})

	w := doJSON(t, h, "GET", "/api/snapshot", nil)
	var snap store.Snapshot
	decodeInto(t, w, &snap)
	if len(snap.Cards) != 1 || snap.Cards[0].ID != cardID {
		t.Fatalf("unexpected export: %+v", snap)
	}

	// Malformed import is rejected and leaves the store untouched.
	req := httptest.NewRequest("POST", "/api/snapshot", strings.NewReader(`{"cards": [}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed import: status %d", rec.Code)
	}
	if _, ok := st.CardByID(cardID); !ok {
		t.Fatal("store was modified by a rejected import")
	}

	// A good import replaces the state wholesale.
	snap.Cards = nil
	if w := doJSON(t, h, "POST", "/api/snapshot", snap); w.Code != http.StatusNoContent {
		t.Fatalf("import: status %d", w.Code)
	}
	if len(st.Cards()) != 0 {
		t.Fatal("import did not replace card collection")
	}

	if w := doJSON(t, h, "POST", "/api/clear", nil); w.Code != http.StatusNoContent {
		t.Fatalf("clear: status %d", w.Code)
	}
	if sets := st.Sets(); len(sets) != 1 || sets[0].ID != store.NoneSetID {
		t.Fatalf("clear did not reset to the initial state: %+v", sets)
	}
}

func TestIndexServed(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv.Handler(), "GET", "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("index: status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("index content type %q", ct)
	}

	if w := doJSON(t, srv.Handler(), "GET", "/no-such-page", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown path: status %d", w.Code)
	}
}
