package server

import (
	"github.com/gorilla/mux"
)

// NewRouter configures the control API routes.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/play", handler.Play).Methods("POST")
	r.HandleFunc("/api/stop", handler.Stop).Methods("POST")
	r.HandleFunc("/api/status", handler.Status).Methods("GET")
	r.HandleFunc("/api/loop", handler.Loop).Methods("PUT")
	r.HandleFunc("/api/clips", handler.Clips).Methods("GET")
	return r
}
