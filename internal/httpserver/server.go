// internal/httpserver/server.go
//
// HTTP server wiring for the Battleship backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints under /api/games:
//       POST /api/games                 → 201 {id}
//       GET  /api/games                 → recent game history
//       GET  /api/games/{id}            → state read model
//       POST /api/games/{id}/shots      → {hit, sunk, victory}
//
// Notes:
//   - Errors use the envelope {result, errors, timeGenerated, success}.
//   - Invalid/missing coordinate → 400, unknown game → 404, duplicate shot → 409.
//   - A shot against a finished game is not an error: it answers victory.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/board"
	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/service"
	"github.com/robalobadob/battleship/internal/store"
)

// Options configure the transport.
type Options struct {
	ClientOrigin   string        // allowed CORS origin
	RequestTimeout time.Duration // handler deadline; 10s when zero
}

// Server bundles router and game service.
type Server struct {
	r   *chi.Mux
	svc *service.Service
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *service.Service, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), svc: svc}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // one zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"battleship-go","endpoints":["/health","POST /api/games","GET /api/games/{id}","POST /api/games/{id}/shots"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api/games", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleRecent)
		r.Get("/{id}", s.handleState)
		r.Post("/{id}/shots", s.handleShot)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found: "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return s
}

// Router exposes the internal router for http.Server and tests.
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------ GAME ---------------------------------------

type createRes struct {
	ID string `json:"id"`
}

// handleCreate places a new fleet and persists the game.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Create(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not create game.")
		return
	}
	w.Header().Set("Location", "/api/games/"+g.ID())
	writeJSON(w, http.StatusCreated, createRes{ID: g.ID()})
}

// handleState returns the player-facing read model.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := s.svc.State(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Game "+id+" not found.")
			return
		}
		log.Error().Err(err).Str("gameId", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "An error occurred while processing your request.")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleRecent lists recent games. ?limit=N (default 20, max 100).
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 100)
	}
	rows, err := s.svc.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list games")
		writeError(w, http.StatusInternalServerError, "An error occurred while processing your request.")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// shotReq/Res payloads for POST /api/games/{id}/shots.
type shotReq struct {
	Coordinate string `json:"coordinate"`
}
type shotRes struct {
	Hit     bool `json:"hit"`
	Sunk    bool `json:"sunk"`
	Victory bool `json:"victory"`
}

// shotResponse maps a registered outcome to the wire shape.
// Victory and game-over both answer hit+sunk+victory.
func shotResponse(o game.Outcome) shotRes {
	switch o {
	case game.OutcomeHit:
		return shotRes{Hit: true}
	case game.OutcomeSunk:
		return shotRes{Hit: true, Sunk: true}
	case game.OutcomeVictory, game.OutcomeGameOver:
		return shotRes{Hit: true, Sunk: true, Victory: true}
	default:
		return shotRes{}
	}
}

// handleShot fires at the requested coordinate.
func (s *Server) handleShot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req shotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	out, err := s.svc.Shoot(r.Context(), id, req.Coordinate)
	switch {
	case errors.Is(err, service.ErrCoordinateRequired):
		writeError(w, http.StatusBadRequest, "Coordinate is required in the request body.")
		return
	case errors.Is(err, board.ErrInvalidCoordinate):
		writeError(w, http.StatusBadRequest, "Invalid coordinate. Use A1–J10.")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Game "+id+" not found.")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "An error occurred while processing your request.")
		return
	}

	if out == game.OutcomeDuplicate {
		writeError(w, http.StatusConflict, "Coordinate already shot.")
		return
	}
	writeJSON(w, http.StatusOK, shotResponse(out))
}

// ------------------------------ encoding -----------------------------------

// envelope is the error body shape shared with the web client.
type envelope struct {
	Result        any       `json:"result"`
	Errors        []string  `json:"errors"`
	TimeGenerated time.Time `json:"timeGenerated"`
	Success       bool      `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{
		Errors:        []string{msg},
		TimeGenerated: time.Now().UTC(),
		Success:       false,
	})
}
