package domain

import "errors"

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
    Board   Board
    Turn    Cell
    Starter Cell
    Moves   int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
)

// New returns a new game with X to move.
func New() Game {
    return NewWithStarter(X)
}

// NewWithStarter returns a new game where p moves first.
func NewWithStarter(p Cell) Game {
    if p != O {
        p = X
    }
    return Game{Turn: p, Starter: p}
}

// Outcome evaluates the current board.
func (g *Game) Outcome() Outcome {
    return Evaluate(g.Board)
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return ErrOutOfBounds
    }
    return g.PlayIndex(r*3 + c)
}

// PlayIndex places the current turn's mark at idx (0..8) and passes the turn
// unless the move ended the game.
func (g *Game) PlayIndex(idx int) error {
    if g.Outcome().Over() {
        return ErrGameOver
    }
    if idx < 0 || idx >= len(g.Board) {
        return ErrOutOfBounds
    }
    if g.Board[idx] != Empty {
        return ErrOccupied
    }

    g.Board[idx] = g.Turn
    g.Moves++

    if g.Outcome().Over() {
        return nil
    }
    g.Turn = g.Turn.Opponent()
    return nil
}

// Reset clears the board and hands the first move to the player who did not
// start the previous game.
func (g *Game) Reset() {
    *g = NewWithStarter(g.Starter.Opponent())
}

// Status renders the one-line game status shown to players.
func (g *Game) Status() string {
    out := g.Outcome()
    switch out.Status {
    case Win:
        return "Winner: " + out.Winner.String()
    case Draw:
        return "The game is a draw!"
    default:
        return "Next player: " + g.Turn.String()
    }
}
