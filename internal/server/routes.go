package server

import (
	"net/http"

	"github.com/haskel/sysbar/internal/server/middleware"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /history/{metric}", s.handleHistory)
	mux.HandleFunc("GET /interval", s.handleGetInterval)
	mux.Handle("PUT /interval", middleware.MaxBody(0)(http.HandlerFunc(s.handleSetInterval)))
	mux.HandleFunc("GET /disk", s.handleDisk)
	mux.HandleFunc("GET /alerts", s.handleAlerts)
	mux.HandleFunc("GET /stream", s.handleStream)

	return mux
}
