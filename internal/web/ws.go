package web

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
    "github.com/jaminalder/tictactoe-ai/internal/app"
)

type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

// wsCommand is what clients send: "request_status", or "play" with a cell.
type wsCommand struct {
    Type  string `json:"type"`
    Index int    `json:"index"`
}

type boardPayload struct {
    ID     string    `json:"id"`
    Board  [9]string `json:"board"`
    Turn   string    `json:"turn"`
    Status string    `json:"status"`
    Winner string    `json:"winner,omitempty"`
    Mode   string    `json:"mode"`
    Moves  int       `json:"moves"`
    Text   string    `json:"text"`
    Error  string    `json:"error,omitempty"`
}

func newBoardPayload(gs app.GameState, errMsg string) boardPayload {
    out := gs.Game.Outcome()
    p := boardPayload{
        ID:     gs.ID,
        Turn:   gs.Game.Turn.String(),
        Status: out.Status.String(),
        Winner: out.Winner.String(),
        Mode:   string(gs.Mode),
        Moves:  gs.Game.Moves,
        Text:   gs.Game.Status(),
        Error:  errMsg,
    }
    for i, c := range gs.Game.Board {
        p.Board[i] = c.String()
    }
    return p
}

func mustMarshal(v any) []byte {
    b, err := json.Marshal(v)
    if err != nil {
        panic(err)
    }
    return b
}

func boardMessage(gs app.GameState, errMsg string) []byte {
    return mustMarshal(wsMessage{Type: "board", Payload: mustMarshal(newBoardPayload(gs, errMsg))})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams board updates as JSON and accepts moves over the same socket.
// The player is identified by the cookie set when the game page was viewed.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    pid := playerFromCookie(r)
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()

    send := make(chan []byte, 16)
    send <- boardMessage(*gs, "")
    enqueue := func(msg []byte) bool {
        select {
        case send <- msg:
            return true
        case <-ctx.Done():
            return false
        }
    }

    go func() {
        for st := range updates {
            if !enqueue(boardMessage(st, "")) {
                return
            }
        }
    }()
    go func() {
        defer cancel()
        // closing unblocks the read loop below
        defer conn.Close()
        _ = writeWSWithHeartbeat(ctx, conn, send, h.heartbeat)
    }()

    for {
        _, data, err := conn.ReadMessage()
        if err != nil {
            return
        }
        var cmd wsCommand
        if err := json.Unmarshal(data, &cmd); err != nil {
            continue
        }
        switch cmd.Type {
        case "request_status":
            if st, ok := h.svc.Get(id); ok {
                enqueue(boardMessage(*st, ""))
            }
        case "play":
            // the resulting state reaches this client through the subscription
            if _, err := h.svc.Play(id, pid, cmd.Index/3, cmd.Index%3); err != nil {
                if st, ok := h.svc.Get(id); ok {
                    enqueue(boardMessage(*st, errorMessage(err)))
                }
            }
        }
    }
}

func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, send <-chan []byte, interval time.Duration) error {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    lastWrite := time.Now()
    pingPayload := mustMarshal(wsMessage{Type: "ping"})

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case msg := <-send:
            if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
                return err
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < interval {
                continue
            }
            if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
                return err
            }
            lastWrite = time.Now()
        }
    }
}
