package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/cardsmith/internal/booster"
	applog "github.com/peterkuimelis/cardsmith/internal/log"
	"github.com/peterkuimelis/cardsmith/internal/store"
)

//go:embed static
var staticFiles embed.FS

// Server is the cardsmith web server: a JSON API over the store, an
// embedded single-page UI, and a websocket change feed.
//
// The store itself is single-owner and unsynchronized, so every handler
// takes the server's mutex for the duration of its store access: the
// cascade operations read then write several collections and must not
// interleave.
type Server struct {
	mu    sync.Mutex
	store *store.Store
	gen   *booster.Generator
	feed  *Feed
	mux   *http.ServeMux
}

// NewServer creates a web server over the given store. The feed must be
// the store's event logger for the /ws change feed to see mutations.
func NewServer(st *store.Store, gen *booster.Generator, feed *Feed) *Server {
	s := &Server{
		store: st,
		gen:   gen,
		feed:  feed,
		mux:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Cards
	s.mux.HandleFunc("GET /api/cards", s.handleListCards)
	s.mux.HandleFunc("POST /api/cards", s.handleAddCard)
	s.mux.HandleFunc("PUT /api/cards/{id}", s.handleUpdateCard)
	s.mux.HandleFunc("DELETE /api/cards/{id}", s.handleDeleteCard)

	// Sets
	s.mux.HandleFunc("GET /api/sets", s.handleListSets)
	s.mux.HandleFunc("POST /api/sets", s.handleAddSet)
	s.mux.HandleFunc("PUT /api/sets/{id}", s.handleUpdateSet)
	s.mux.HandleFunc("DELETE /api/sets/{id}", s.handleDeleteSet)
	s.mux.HandleFunc("POST /api/sets/{id}/cards/{cardID}", s.handleAddCardToSet)
	s.mux.HandleFunc("DELETE /api/sets/{id}/cards/{cardID}", s.handleRemoveCardFromSet)
	s.mux.HandleFunc("GET /api/sets/{id}/themes", s.handleSetThemes)
	s.mux.HandleFunc("GET /api/sets/{id}/booster", s.handleBooster)

	// Themes
	s.mux.HandleFunc("GET /api/themes", s.handleListThemes)
	s.mux.HandleFunc("POST /api/themes", s.handleAddTheme)
	s.mux.HandleFunc("PUT /api/themes/{id}", s.handleUpdateTheme)
	s.mux.HandleFunc("DELETE /api/themes/{id}", s.handleDeleteTheme)
	s.mux.HandleFunc("POST /api/themes/{id}/cards/{cardID}", s.handleAddCardToTheme)
	s.mux.HandleFunc("DELETE /api/themes/{id}/cards/{cardID}", s.handleRemoveCardFromTheme)

	// Snapshot
	s.mux.HandleFunc("GET /api/snapshot", s.handleExport)
	s.mux.HandleFunc("POST /api/snapshot", s.handleImport)
	s.mux.HandleFunc("POST /api/clear", s.handleClear)

	// Change feed
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the server's root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "malformed request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// --- Card handlers ---

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cards := s.store.Cards()
	s.mu.Unlock()
	writeJSON(w, cards)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var in store.CardInput
	if !decodeBody(w, r, &in) {
		return
	}
	s.mu.Lock()
	id := s.store.AddCard(in)
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var card store.Card
	if !decodeBody(w, r, &card) {
		return
	}
	card.ID = r.PathValue("id")
	s.mu.Lock()
	s.store.UpdateCard(card)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.DeleteCard(r.PathValue("id"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// --- Set handlers ---

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sets := s.store.Sets()
	s.mu.Unlock()
	writeJSON(w, sets)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	var in store.SetInput
	if !decodeBody(w, r, &in) {
		return
	}
	s.mu.Lock()
	id := s.store.AddSet(in)
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var set store.CardSet
	if !decodeBody(w, r, &set) {
		return
	}
	set.ID = r.PathValue("id")
	s.mu.Lock()
	s.store.UpdateSet(set)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == store.NoneSetID {
		// The store would no-op anyway; surface the refusal so the UI
		// doesn't offer the action twice.
		http.Error(w, "the none set cannot be deleted", http.StatusForbidden)
		return
	}
	s.mu.Lock()
	s.store.DeleteSet(id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCardToSet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.AddCardToSet(r.PathValue("id"), r.PathValue("cardID"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCardFromSet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.RemoveCardFromSet(r.PathValue("id"), r.PathValue("cardID"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetThemes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.store.SetByID(id)
	themes := s.store.ThemesBySetID(id)
	s.mu.Unlock()
	if !ok {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	}
	if themes == nil {
		themes = []store.JumpstartTheme{}
	}
	writeJSON(w, themes)
}

func (s *Server) handleBooster(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.store.SetByID(id)
	pool := s.store.SetPool(id)
	s.mu.Unlock()
	if !ok {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	}
	drafted := s.gen.Generate(pool)
	if drafted == nil {
		drafted = []booster.DraftedCard{}
	}
	writeJSON(w, drafted)
}

// --- Theme handlers ---

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	themes := s.store.Themes()
	s.mu.Unlock()
	writeJSON(w, themes)
}

func (s *Server) handleAddTheme(w http.ResponseWriter, r *http.Request) {
	var in store.ThemeInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.SetID == "" {
		http.Error(w, "setId is required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	id := s.store.AddTheme(in)
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var theme store.JumpstartTheme
	if !decodeBody(w, r, &theme) {
		return
	}
	theme.ID = r.PathValue("id")
	s.mu.Lock()
	s.store.UpdateTheme(theme)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.DeleteTheme(r.PathValue("id"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCardToTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.AddCardToTheme(r.PathValue("id"), r.PathValue("cardID"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCardFromTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.RemoveCardFromTheme(r.PathValue("id"), r.PathValue("cardID"))
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// --- Snapshot handlers ---

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.store.Snapshot()
	s.mu.Unlock()
	writeJSON(w, snap)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	snap, err := store.ParseSnapshot(data)
	if err != nil {
		// Parse is the all-or-nothing stage; the store is untouched.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.store.Import(snap)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.Clear()
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// --- Change feed ---

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	ch := s.feed.Subscribe()
	defer s.feed.Unsubscribe(ch)

	// Drain client messages so pings are answered and closure is noticed.
	go func() {
		for {
			if _, _, err := wsConn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("WebSocket marshal error: %v", err)
				continue
			}
			if err := wsConn.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

var _ applog.EventLogger = (*Feed)(nil)
