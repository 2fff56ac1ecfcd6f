package web

import (
    "log"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/search"
)

// Options tunes the HTTP layer.
type Options struct {
    // Heartbeat is the keep-alive interval for SSE and websocket streams.
    Heartbeat time.Duration
    // Cache, when set, is reported on /stats.
    Cache *search.Cache
}

const defaultHeartbeat = 15 * time.Second

var logf = log.Printf

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service) http.Handler {
    return NewServerWithOptions(s, Options{})
}

// NewServerWithOptions is NewServer with explicit options.
func NewServerWithOptions(s *app.Service, opts Options) http.Handler {
    if opts.Heartbeat <= 0 {
        opts.Heartbeat = defaultHeartbeat
    }
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(middleware.Logger)
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates(), cache: opts.Cache, heartbeat: opts.Heartbeat}
    r.Get("/", h.index)
    r.Get("/stats", h.stats)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/reset", h.reset)
        r.Post("/mode", h.mode)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}
