package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reelbox/reelbox/player"
	"github.com/reelbox/reelbox/storage"
)

// Library lists the playable clips on the mounted volume.
type Library interface {
	Clips(exts ...string) ([]storage.Entry, error)
}

// Handler exposes a player over HTTP.
type Handler struct {
	player  player.Player
	library Library
	exts    []string
}

// NewHandler wires the HTTP handlers to p. Clips are listed from library,
// filtered by the given extensions.
func NewHandler(p player.Player, library Library, exts ...string) *Handler {
	return &Handler{player: p, library: library, exts: exts}
}

type playRequest struct {
	Path string `json:"path"`
}

type loopRequest struct {
	Enabled *bool `json:"enabled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Play handles POST /api/play.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.player.Play(r.Context(), req.Path); err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	writeJSON(w, http.StatusOK, h.player.Status())
}

// Stop handles POST /api/stop.
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Stop(r.Context()); err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	writeJSON(w, http.StatusOK, h.player.Status())
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.player.Status())
}

// Loop handles PUT /api/loop.
func (h *Handler) Loop(w http.ResponseWriter, r *http.Request) {
	var req loopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, errors.New(`missing "enabled"`))
		return
	}

	h.player.SetLoop(*req.Enabled)
	writeJSON(w, http.StatusOK, h.player.Status())
}

// Clips handles GET /api/clips.
func (h *Handler) Clips(w http.ResponseWriter, _ *http.Request) {
	clips, err := h.library.Clips(h.exts...)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	if clips == nil {
		clips = []storage.Entry{}
	}
	writeJSON(w, http.StatusOK, clips)
}

// statusOf maps controller errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, player.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, player.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, player.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, player.ErrStartFailed), errors.Is(err, player.ErrStopFailed):
		return http.StatusBadGateway
	case errors.Is(err, player.ErrNotInitialized), errors.Is(err, storage.ErrNotMounted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		logger.WithError(err).Errorf("request failed with %d", code)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}
