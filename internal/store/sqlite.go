// Package store persists finished rounds in SQLite.
package store

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    _ "github.com/mattn/go-sqlite3"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id TEXT NOT NULL,
    mode TEXT NOT NULL,
    computer TEXT NOT NULL,
    status TEXT NOT NULL,
    winner TEXT NOT NULL,
    moves INTEGER NOT NULL,
    board TEXT NOT NULL,
    finished_at INTEGER NOT NULL
);`

// Results is an app.ResultRecorder backed by a SQLite database.
type Results struct {
    db *sql.DB
}

var _ app.ResultRecorder = (*Results)(nil)

// Open opens (creating if needed) the database at path. ":memory:" works for
// tests; the pool is then pinned to one connection so every query sees the
// same in-memory database.
func Open(path string) (*Results, error) {
    dsn := path
    if path != ":memory:" {
        dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
    }
    db, err := sql.Open("sqlite3", dsn)
    if err != nil {
        return nil, fmt.Errorf("open %s: %w", path, err)
    }
    if path == ":memory:" {
        db.SetMaxOpenConns(1)
    } else {
        db.SetMaxOpenConns(25)
        db.SetMaxIdleConns(5)
    }
    if _, err := db.Exec(schema); err != nil {
        db.Close()
        return nil, fmt.Errorf("create schema: %w", err)
    }
    return &Results{db: db}, nil
}

// Close closes the underlying database.
func (r *Results) Close() error { return r.db.Close() }

// Record inserts one finished round.
func (r *Results) Record(ctx context.Context, res app.Result) error {
    finished := res.Finished
    if finished.IsZero() {
        finished = time.Now()
    }
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO results(game_id, mode, computer, status, winner, moves, board, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        res.GameID, string(res.Mode), res.Computer.String(), res.Status.String(),
        res.Winner.String(), res.Moves, res.Board.String(), finished.UnixMilli(),
    )
    if err != nil {
        return fmt.Errorf("insert result: %w", err)
    }
    return nil
}

// Totals aggregates every stored round.
func (r *Results) Totals(ctx context.Context) (app.Totals, error) {
    var t app.Totals
    err := r.db.QueryRowContext(ctx, `SELECT
        COUNT(*),
        COALESCE(SUM(CASE WHEN status = 'win' AND winner = 'X' THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN status = 'win' AND winner = 'O' THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN status = 'draw' THEN 1 ELSE 0 END), 0),
        COALESCE(SUM(CASE WHEN status = 'win' AND computer != '' AND winner = computer THEN 1 ELSE 0 END), 0)
        FROM results`).Scan(&t.Games, &t.XWins, &t.OWins, &t.Draws, &t.ComputerWins)
    if err != nil {
        return app.Totals{}, fmt.Errorf("query totals: %w", err)
    }
    return t, nil
}

// Recent returns up to limit rounds, newest first.
func (r *Results) Recent(ctx context.Context, limit int) ([]app.Result, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT game_id, mode, computer, status, winner, moves, board, finished_at
        FROM results ORDER BY id DESC LIMIT ?`, limit)
    if err != nil {
        return nil, fmt.Errorf("query recent: %w", err)
    }
    defer rows.Close()

    var out []app.Result
    for rows.Next() {
        var (
            res                                   app.Result
            mode, computer, status, winner, board string
            finished                              int64
        )
        if err := rows.Scan(&res.GameID, &mode, &computer, &status, &winner, &res.Moves, &board, &finished); err != nil {
            return nil, fmt.Errorf("scan result: %w", err)
        }
        res.Mode = app.Mode(mode)
        res.Computer, _ = domain.ParseCell(computer)
        res.Winner, _ = domain.ParseCell(winner)
        res.Status = parseStatus(status)
        res.Board, _ = domain.ParseBoard(board)
        res.Finished = time.UnixMilli(finished)
        out = append(out, res)
    }
    return out, rows.Err()
}

func parseStatus(s string) domain.Status {
    switch s {
    case "win":
        return domain.Win
    case "draw":
        return domain.Draw
    }
    return domain.InProgress
}
