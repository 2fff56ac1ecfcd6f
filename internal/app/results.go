package app

import (
    "context"
    "sync"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Result is the record of one finished round.
type Result struct {
    GameID   string
    Mode     Mode
    Computer domain.Cell
    Status   domain.Status
    Winner   domain.Cell
    Moves    int
    Board    domain.Board
    Finished time.Time
}

// Totals aggregates recorded results.
type Totals struct {
    Games        int `json:"games"`
    XWins        int `json:"x_wins"`
    OWins        int `json:"o_wins"`
    Draws        int `json:"draws"`
    ComputerWins int `json:"computer_wins"`
}

// Add folds r into t.
func (t *Totals) Add(r Result) {
    t.Games++
    switch {
    case r.Status == domain.Draw:
        t.Draws++
    case r.Winner == domain.X:
        t.XWins++
    case r.Winner == domain.O:
        t.OWins++
    }
    if r.Status == domain.Win && r.Computer != domain.Empty && r.Winner == r.Computer {
        t.ComputerWins++
    }
}

// ResultRecorder stores finished rounds.
type ResultRecorder interface {
    Record(ctx context.Context, r Result) error
    Totals(ctx context.Context) (Totals, error)
}

func resultOf(gs *GameState, out domain.Outcome) Result {
    return Result{
        GameID:   gs.ID,
        Mode:     gs.Mode,
        Computer: gs.Computer,
        Status:   out.Status,
        Winner:   out.Winner,
        Moves:    gs.Game.Moves,
        Board:    gs.Game.Board,
        Finished: time.Now(),
    }
}

// MemoryResults keeps results in process memory.
type MemoryResults struct {
    mu      sync.Mutex
    results []Result
}

func NewMemoryResults() *MemoryResults { return &MemoryResults{} }

func (m *MemoryResults) Record(_ context.Context, r Result) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.results = append(m.results, r)
    return nil
}

func (m *MemoryResults) Totals(_ context.Context) (Totals, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    var t Totals
    for _, r := range m.results {
        t.Add(r)
    }
    return t, nil
}

// Results returns a copy of everything recorded so far.
func (m *MemoryResults) Results() []Result {
    m.mu.Lock()
    defer m.mu.Unlock()
    return append([]Result(nil), m.results...)
}

// Totals returns the aggregate of recorded results.
func (s *Service) Totals(ctx context.Context) (Totals, error) {
    return s.recorder.Totals(ctx)
}
