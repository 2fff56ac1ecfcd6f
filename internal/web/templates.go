package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"
    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "eq":  func(a, b any) bool { return a == b },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>TicTacToe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe</h1>
<form action="/game" method="post"><input type="hidden" name="mode" value="pvp"><button>Player vs Player</button></form>
<form action="/game" method="post"><input type="hidden" name="mode" value="pve"><button>Player vs AI</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board" hx-swap="outerHTML" hx-target="#board">{{.BoardHTML}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    var err error
    if name == "" {
        err = t.Execute(&buf, data)
    } else {
        err = t.ExecuteTemplate(&buf, name, data)
    }
    if err != nil {
        logf("[web] render %s: %v", t.Name(), err)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <div class="status">{{.Status}}</div>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit">{{cellSymbol (index $.Board (add (mul $r 3) $c))}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Reset Game</button></form>
  <form hx-post="/game/{{.ID}}/mode" hx-target="#board" hx-swap="outerHTML" method="post">
    <input type="hidden" name="mode" value="{{if eq .Mode "pve"}}pvp{{else}}pve{{end}}">
    <button>{{if eq .Mode "pve"}}Player vs Player{{else}}Player vs AI{{end}}</button>
  </form>
</div>
`

// boardView is the data behind the board fragment.
type boardView struct {
    ID     string
    Board  domain.Board
    Status string
    Mode   string
    Error  string
}

func newBoardView(gs app.GameState, errMsg string) boardView {
    return boardView{
        ID:     gs.ID,
        Board:  gs.Game.Board,
        Status: gs.Game.Status(),
        Mode:   string(gs.Mode),
        Error:  errMsg,
    }
}

const playerCookie = "player_id"

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if pid := playerFromCookie(r); pid != "" {
        return pid
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/"})
    return v
}

func playerFromCookie(r *http.Request) string {
    if c, err := r.Cookie(playerCookie); err == nil {
        return c.Value
    }
    return ""
}
