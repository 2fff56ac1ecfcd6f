// Package cli runs a game in the terminal.
package cli

import (
    "bufio"
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/search"
    "github.com/muesli/termenv"
)

// Options configures a terminal session.
type Options struct {
    Mode     app.Mode
    Computer domain.Cell
    Color    bool
    Searcher *search.Searcher
}

// Session is one terminal player (or two sharing a keyboard).
type Session struct {
    opts Options
    game domain.Game
    in   *bufio.Scanner
    out  io.Writer
    term *termenv.Output
}

// New prepares a session reading commands from in and drawing to out.
func New(in io.Reader, out io.Writer, opts Options) *Session {
    if opts.Mode == "" {
        opts.Mode = app.ModePvE
    }
    if opts.Computer != domain.X {
        opts.Computer = domain.O
    }
    if opts.Searcher == nil {
        opts.Searcher = search.NewSearcher(search.NewCache())
    }
    s := &Session{opts: opts, game: domain.New(), in: bufio.NewScanner(in), out: out}
    if opts.Color {
        s.term = termenv.NewOutput(out)
    }
    return s
}

// Run plays until the input ends or the user quits.
func (s *Session) Run() error {
    s.printf("Tic-tac-toe (%s). Cells are 1-9; r resets, h hints, q quits.\n", s.opts.Mode)
    for {
        if err := s.advance(); err != nil {
            return err
        }
        s.draw()
        if s.game.Outcome().Over() {
            s.printf("%s  Press r for a new round or q to quit.\n", s.status())
        } else {
            s.printf("%s> ", s.status())
        }
        if !s.in.Scan() {
            return s.in.Err()
        }
        quit, err := s.handle(strings.TrimSpace(s.in.Text()))
        if err != nil {
            return err
        }
        if quit {
            return nil
        }
    }
}

// advance lets the computer move while it is its turn.
func (s *Session) advance() error {
    for s.opts.Mode == app.ModePvE && !s.game.Outcome().Over() && s.game.Turn == s.opts.Computer {
        idx, err := s.opts.Searcher.BestMove(s.game.Board, s.opts.Computer)
        if err != nil {
            return fmt.Errorf("computer move: %w", err)
        }
        if err := s.game.PlayIndex(idx); err != nil {
            return fmt.Errorf("computer move %d: %w", idx+1, err)
        }
        s.printf("Computer (%s) plays %d\n", s.opts.Computer, idx+1)
    }
    return nil
}

func (s *Session) handle(cmd string) (bool, error) {
    switch strings.ToLower(cmd) {
    case "":
        return false, nil
    case "q", "quit":
        return true, nil
    case "r", "reset":
        s.game.Reset()
        return false, nil
    case "h", "hint":
        if s.game.Outcome().Over() {
            s.printf("No moves left.\n")
            return false, nil
        }
        idx, err := s.opts.Searcher.BestMove(s.game.Board, s.game.Turn)
        if err != nil {
            return false, err
        }
        s.printf("Hint: %d\n", idx+1)
        return false, nil
    }
    n, err := strconv.Atoi(cmd)
    if err != nil {
        s.printf("Unknown command %q\n", cmd)
        return false, nil
    }
    if err := s.game.PlayIndex(n - 1); err != nil {
        s.printf("Cannot play %d: %v\n", n, err)
    }
    return false, nil
}

func (s *Session) status() string {
    return s.game.Status()
}

func (s *Session) draw() {
    var b strings.Builder
    for r := 0; r < 3; r++ {
        if r > 0 {
            b.WriteString("---+---+---\n")
        }
        for c := 0; c < 3; c++ {
            if c > 0 {
                b.WriteString("|")
            }
            b.WriteString(" " + s.cell(r*3+c) + " ")
        }
        b.WriteString("\n")
    }
    s.printf("%s", b.String())
}

func (s *Session) cell(idx int) string {
    switch c := s.game.Board[idx]; c {
    case domain.X:
        return s.paint(c.String(), "#E06C75")
    case domain.O:
        return s.paint(c.String(), "#61AFEF")
    default:
        if s.term == nil {
            return strconv.Itoa(idx + 1)
        }
        return s.term.String(strconv.Itoa(idx + 1)).Faint().String()
    }
}

func (s *Session) paint(text, color string) string {
    if s.term == nil {
        return text
    }
    return s.term.String(text).Foreground(s.term.Color(color)).Bold().String()
}

func (s *Session) printf(format string, args ...any) {
    _, _ = fmt.Fprintf(s.out, format, args...)
}
