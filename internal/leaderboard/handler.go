package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// boardMessage is the body of GET /api/leaderboard and of every feed push.
type boardMessage struct {
	Entries []Entry `json:"entries"`
	Plays   int64   `json:"plays"`
}

type playsMessage struct {
	Plays int64 `json:"plays"`
}

type errorMessage struct {
	Error string `json:"error"`
}

// maxSubmissionBytes bounds POST /api/scores bodies.
const maxSubmissionBytes = 4 << 10

// Handler serves a Service over HTTP:
//
//	GET  /api/leaderboard  board and play count
//	POST /api/scores       submit a Submission, returns the Entry
//	GET  /api/plays        play count
//	POST /api/plays        count a started game
//	GET  /ws               websocket feed of the board
type Handler struct {
	svc    Service
	hub    *Hub
	logger *log.Logger
	mux    *http.ServeMux
}

// NewHandler wires the API routes. hub may be nil to disable the feed.
func NewHandler(svc Service, hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Handler{svc: svc, hub: hub, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /api/leaderboard", h.getLeaderboard)
	h.mux.HandleFunc("POST /api/scores", h.postScore)
	h.mux.HandleFunc("GET /api/plays", h.getPlays)
	h.mux.HandleFunc("POST /api/plays", h.postPlays)
	if hub != nil {
		h.mux.HandleFunc("GET /ws", h.serveFeed)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	msg, err := h.board(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *Handler) postScore(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage{Error: "malformed submission"})
		return
	}

	entry, err := h.svc.SubmitScore(r.Context(), sub)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
	h.push()
}

func (h *Handler) getPlays(w http.ResponseWriter, r *http.Request) {
	plays, err := h.svc.FetchPlayCount(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playsMessage{Plays: plays})
}

func (h *Handler) postPlays(w http.ResponseWriter, r *http.Request) {
	plays, err := h.svc.IncrementPlayCount(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playsMessage{Plays: plays})
}

func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request) {
	var initial []byte
	if msg, err := h.board(r.Context()); err == nil {
		initial, _ = json.Marshal(msg)
	}
	h.hub.ServeWS(w, r, initial)
}

// push broadcasts the current board to the feed.
func (h *Handler) push() {
	if h.hub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := h.board(ctx)
	if err != nil {
		h.logger.Warn("board push failed", "err", err)
		return
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("board push failed", "err", err)
		return
	}
	h.hub.Broadcast(raw)
}

func (h *Handler) board(ctx context.Context) (boardMessage, error) {
	entries, err := h.svc.FetchLeaderboard(ctx)
	if err != nil {
		return boardMessage{}, err
	}
	plays, err := h.svc.FetchPlayCount(ctx)
	if err != nil {
		return boardMessage{}, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return boardMessage{Entries: entries, Plays: plays}, nil
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidEntry) {
		writeJSON(w, http.StatusBadRequest, errorMessage{Error: err.Error()})
		return
	}
	h.logger.Error("leaderboard request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errorMessage{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
