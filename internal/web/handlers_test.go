package web

import (
    "io"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"

    "github.com/jaminalder/tictactoe-ai/internal/app"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
    t.Helper()
    s := app.NewService()
    h := NewServer(s)
    return s, h
}

func TestIndexPage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
        t.Fatalf("index should contain create form; got body: %q", body)
    }
}

func TestCreateRedirectsToGame(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("POST", "/game", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusSeeOther && rr.Code != http.StatusFound {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    loc := rr.Result().Header.Get("Location")
    if !strings.HasPrefix(loc, "/game/") {
        t.Fatalf("expected redirect to /game/{id}, got %q", loc)
    }
}

func TestGamePageSetsCookieAndAutoClaims(t *testing.T) {
    svc, h := newTestServer(t)
    // Create a game via service to know ID
    gs, _ := svc.CreateGame(app.ModePvP)

    req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    // Cookie set
    cookies := rr.Result().Cookies()
    var playerID string
    for _, c := range cookies {
        if c.Name == "player_id" {
            playerID = c.Value
            break
        }
    }
    if playerID == "" {
        t.Fatalf("expected player_id cookie to be set")
    }
    // Auto-claimed seat
    latest, ok := svc.Get(gs.ID)
    if !ok || (latest.X != playerID && latest.O != playerID) {
        t.Fatalf("expected auto-claim X or O; have X=%q O=%q pid=%q", latest.X, latest.O, playerID)
    }
    // SSE wiring present
    body := rr.Body.String()
    if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
        t.Fatalf("expected SSE wiring in page; got body: %q", body)
    }
}

func TestJoinEndpointReturnsBoardFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.ModePvP)
    // First GET to auto-claim X for p1
    req1 := httptest.NewRequest("GET", "/game/"+gs.ID, nil)
    rr1 := httptest.NewRecorder()
    h.ServeHTTP(rr1, req1)
    // Extract cookie for second player
    p2 := &http.Cookie{Name: "player_id", Value: "p2"}
    form := url.Values{}
    req := httptest.NewRequest("POST", "/game/"+gs.ID+"/join", strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    req.AddCookie(p2)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.O != "p2" && latest.X != "p2" { // allow if X was free
        t.Fatalf("expected seat for p2, got X=%q O=%q", latest.X, latest.O)
    }
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.ModePvP)
    // Assign X and O
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")

    form := url.Values{"r": {"0"}, "c": {"0"}, "side": {"X"}}
    req := httptest.NewRequest("POST", "/game/"+gs.ID+"/play", strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    req.AddCookie(&http.Cookie{Name: "player_id", Value: "p1"})
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Game.Moves != 1 {
        t.Fatalf("expected move applied, moves=%d", latest.Game.Moves)
    }
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
    _, h := newTestServer(t)
    // create a game via POST
    reqCreate := httptest.NewRequest("POST", "/game", nil)
    rrCreate := httptest.NewRecorder()
    h.ServeHTTP(rrCreate, reqCreate)
    loc := rrCreate.Result().Header.Get("Location")
    if loc == "" {
        t.Fatalf("missing redirect location")
    }
    // Request SSE
    req := httptest.NewRequest("GET", loc+"/events", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    ct := rr.Result().Header.Get("Content-Type")
    if !strings.HasPrefix(ct, "text/event-stream") {
        io.Copy(io.Discard, rr.Result().Body)
        t.Fatalf("expected text/event-stream, got %q", ct)
    }
}


func postForm(t *testing.T, h http.Handler, path string, form url.Values, player string) *httptest.ResponseRecorder {
    t.Helper()
    req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    if player != "" {
        req.AddCookie(&http.Cookie{Name: "player_id", Value: player})
    }
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

func TestCreateVersusComputer(t *testing.T) {
    svc, h := newTestServer(t)
    rr := postForm(t, h, "/game", url.Values{"mode": {"pve"}}, "")
    if rr.Code != http.StatusSeeOther {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    id := strings.TrimPrefix(rr.Result().Header.Get("Location"), "/game/")
    gs, ok := svc.Get(id)
    if !ok || gs.Mode != app.ModePvE || gs.O != app.ComputerPlayer {
        t.Fatalf("expected pve game with computer on O, got %+v", gs)
    }

    rr = postForm(t, h, "/game", url.Values{"mode": {"solo"}}, "")
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("expected 400 for unknown mode, got %d", rr.Code)
    }
}

func TestPlayAgainstComputerShowsReply(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.ModePvE)
    svc.Join(gs.ID, "p1")

    rr := postForm(t, h, "/game/"+gs.ID+"/play", url.Values{"r": {"0"}, "c": {"0"}}, "p1")
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "Next player: X") {
        t.Fatalf("expected status line after computer reply, got %q", body)
    }
    if strings.Count(body, ">O</button>") != 1 || strings.Count(body, ">X</button>") != 1 {
        t.Fatalf("expected one X and one O on the board, got %q", body)
    }
}

func TestPlayErrorsAreRendered(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.ModePvP)
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")

    rr := postForm(t, h, "/game/"+gs.ID+"/play", url.Values{"r": {"0"}, "c": {"0"}}, "p2")
    if !strings.Contains(rr.Body.String(), "Not your turn") {
        t.Fatalf("expected turn error, got %q", rr.Body.String())
    }
    rr = postForm(t, h, "/game/"+gs.ID+"/play", url.Values{"r": {"x"}, "c": {"0"}}, "p1")
    if !strings.Contains(rr.Body.String(), "Out of bounds") {
        t.Fatalf("expected bounds error, got %q", rr.Body.String())
    }
    rr = postForm(t, h, "/game/missing/play", url.Values{"r": {"0"}, "c": {"0"}}, "p1")
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404 for missing game, got %d", rr.Code)
    }
}

func TestResetAndModeEndpoints(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.ModePvP)
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")
    svc.Play(gs.ID, "p1", 1, 1)

    rr := postForm(t, h, "/game/"+gs.ID+"/reset", nil, "p1")
    if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Next player: O") {
        t.Fatalf("expected O to open after reset, got %d %q", rr.Code, rr.Body.String())
    }

    rr = postForm(t, h, "/game/"+gs.ID+"/mode", url.Values{"mode": {"pve"}}, "p1")
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Mode != app.ModePvE || latest.Game.Moves != 1 || latest.Game.Turn.String() != "X" {
        t.Fatalf("expected computer to open as O, got mode=%s moves=%d turn=%v", latest.Mode, latest.Game.Moves, latest.Game.Turn)
    }

    rr = postForm(t, h, "/game/"+gs.ID+"/mode", url.Values{"mode": {"bogus"}}, "p1")
    if !strings.Contains(rr.Body.String(), "Unknown game mode") {
        t.Fatalf("expected mode error, got %q", rr.Body.String())
    }
}

func TestStatsEndpoint(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.ModePvP)
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")
    for i, m := range [][3]any{{"p1", 0, 0}, {"p2", 1, 0}, {"p1", 0, 1}, {"p2", 1, 1}, {"p1", 0, 2}} {
        if _, err := svc.Play(gs.ID, m[0].(string), m[1].(int), m[2].(int)); err != nil {
            t.Fatalf("move %d: %v", i, err)
        }
    }
    req := httptest.NewRequest("GET", "/stats", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, `"games":1`) || !strings.Contains(body, `"x_wins":1`) {
        t.Fatalf("unexpected stats body %q", body)
    }
}

func TestWriteSSEFramesEveryLine(t *testing.T) {
    var b strings.Builder
    writeSSE(&b, "board", []byte("\n<div>\n  <p>x</p>\n</div>\n"))
    want := "event: board\ndata: <div>\ndata:   <p>x</p>\ndata: </div>\n\n"
    if b.String() != want {
        t.Fatalf("unexpected frame %q", b.String())
    }
}
