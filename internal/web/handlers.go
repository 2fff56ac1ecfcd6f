package web

import (
    "encoding/json"
    "errors"
    "html/template"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/search"
)

type handlers struct {
    svc       *app.Service
    tpl       *templates
    cache     *search.Cache
    heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    mode := app.ModePvP
    if v := r.Form.Get("mode"); v != "" {
        m, err := app.ParseMode(v)
        if err != nil {
            http.Error(w, "unknown mode", http.StatusBadRequest)
            return
        }
        mode = m
    }
    gs, err := h.svc.CreateGame(mode)
    if err != nil {
        logf("[web] create game: %v", err)
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        ID        string
        BoardHTML template.HTML
    }{ID: gs.ID, BoardHTML: template.HTML(h.renderBoard(*gs, ""))}

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, "")
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, errR := strconv.Atoi(r.Form.Get("r"))
    ci, errC := strconv.Atoi(r.Form.Get("c"))
    var gs *app.GameState
    var err error
    if errR != nil || errC != nil {
        err = domain.ErrOutOfBounds
    } else {
        gs, err = h.svc.Play(id, pid, ri, ci)
    }
    h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Reset(id)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) mode(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    gs, err := h.svc.SetMode(id, app.Mode(r.Form.Get("mode")))
    h.respond(w, r, id, gs, err)
}

// respond renders the board fragment, with a message when err is set.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok {
                gs = g
            }
        }
        errMsg = errorMessage(err)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, errMsg)
}

func errorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, app.ErrComputerSeat):
        return "That seat belongs to the computer"
    case errors.Is(err, app.ErrInvalidMode):
        return "Unknown game mode"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    default:
        logf("[web] unexpected error: %v", err)
        return "Invalid move"
    }
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            writeSSE(w, "board", h.renderBoard(gs, ""))
            flusher.Flush()
        }
    }
}

// writeSSE frames a multi-line payload as one event.
func writeSSE(w io.Writer, event string, payload []byte) {
    var b strings.Builder
    b.WriteString("event: " + event + "\n")
    for _, line := range strings.Split(strings.TrimSpace(string(payload)), "\n") {
        b.WriteString("data: " + line + "\n")
    }
    b.WriteString("\n")
    _, _ = io.WriteString(w, b.String())
}

type statsResponse struct {
    Results app.Totals         `json:"results"`
    Cache   *search.CacheStats `json:"cache,omitempty"`
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
    totals, err := h.svc.Totals(r.Context())
    if err != nil {
        logf("[web] totals: %v", err)
        writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
        return
    }
    resp := statsResponse{Results: totals}
    if h.cache != nil {
        st := h.cache.Stats()
        resp.Cache = &st
    }
    writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}
