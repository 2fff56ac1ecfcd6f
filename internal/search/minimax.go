// Package search picks moves for the automated player by exhaustive minimax
// over the 3x3 board.
package search

import (
    "errors"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Scores assigned to terminal positions from the maximizing player's view.
// Depth is not weighted: a quick win and a slow win score the same.
const (
    WinScore  = 10
    LossScore = -10
    DrawScore = 0
)

var (
    ErrNoMoves       = errors.New("search: no empty cell")
    ErrInvalidPlayer = errors.New("search: player must be X or O")
)

// Searcher runs minimax, optionally memoising ply scores in a Cache.
type Searcher struct {
    cache *Cache
}

// NewSearcher returns a searcher; cache may be nil.
func NewSearcher(cache *Cache) *Searcher {
    return &Searcher{cache: cache}
}

var plain = &Searcher{}

// BestMove returns the cell the maximizing player should take on b. Among
// cells with the greatest score the lowest index wins.
func BestMove(b domain.Board, maximizing domain.Cell) (int, error) {
    return plain.BestMove(b, maximizing)
}

// Score returns the minimax value of b when maximizing is about to move.
func Score(b domain.Board, maximizing domain.Cell) (int, error) {
    return plain.Score(b, maximizing)
}

// BestMove is the cached variant of the package-level BestMove.
func (s *Searcher) BestMove(b domain.Board, maximizing domain.Cell) (int, error) {
    move, _, err := s.root(b, maximizing)
    return move, err
}

// Score is the cached variant of the package-level Score.
func (s *Searcher) Score(b domain.Board, maximizing domain.Cell) (int, error) {
    _, score, err := s.root(b, maximizing)
    return score, err
}

// root works on its own copy of the board, so the caller's value is never
// touched even though plies place and undo marks in place.
func (s *Searcher) root(b domain.Board, maximizing domain.Cell) (int, int, error) {
    if maximizing != domain.X && maximizing != domain.O {
        return -1, 0, ErrInvalidPlayer
    }
    best, bestScore := -1, LossScore-1
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = maximizing
        score := s.minimax(&b, maximizing, false)
        b[i] = domain.Empty
        if score > bestScore {
            best, bestScore = i, score
        }
    }
    if best < 0 {
        return -1, 0, ErrNoMoves
    }
    return best, bestScore, nil
}

func (s *Searcher) minimax(b *domain.Board, maximizing domain.Cell, maxTurn bool) int {
    switch out := domain.Evaluate(*b); out.Status {
    case domain.Win:
        if out.Winner == maximizing {
            return WinScore
        }
        return LossScore
    case domain.Draw:
        return DrawScore
    }

    key := cacheKey(*b, maximizing, maxTurn)
    if s.cache != nil {
        if score, ok := s.cache.get(key); ok {
            return score
        }
    }

    mark := maximizing
    best := LossScore - 1
    if !maxTurn {
        mark = maximizing.Opponent()
        best = WinScore + 1
    }
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = mark
        score := s.minimax(b, maximizing, !maxTurn)
        b[i] = domain.Empty
        if maxTurn && score > best || !maxTurn && score < best {
            best = score
        }
    }

    if s.cache != nil {
        s.cache.put(key, best)
    }
    return best
}
