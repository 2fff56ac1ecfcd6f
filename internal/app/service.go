package app

import (
    "context"
    "errors"
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/search"
)

// Errors exposed by the service layer.
var (
    ErrNotFound     = errors.New("game not found")
    ErrNotYourTurn  = errors.New("not your turn")
    ErrNotAPlayer   = errors.New("not a player")
    ErrComputerSeat = errors.New("seat belongs to the computer")
    ErrInvalidMode  = errors.New("invalid game mode")
)

// ComputerPlayer is the seat holder used for the automated side.
const ComputerPlayer = "computer"

// Mode selects who plays the second seat.
type Mode string

const (
    ModePvP Mode = "pvp"
    ModePvE Mode = "pve"
)

// ParseMode accepts "pvp" or "pve".
func ParseMode(s string) (Mode, error) {
    switch Mode(s) {
    case ModePvP, ModePvE:
        return Mode(s), nil
    }
    return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID       string
    Game     domain.Game
    Mode     Mode
    Computer domain.Cell
    X        string
    O        string
    Created  time.Time
    Updated  time.Time

    recorded bool
}

// Seat returns the mark held by playerID, or Empty for spectators.
func (gs *GameState) Seat(playerID string) domain.Cell {
    switch playerID {
    case "":
        return domain.Empty
    case gs.X:
        return domain.X
    case gs.O:
        return domain.O
    }
    return domain.Empty
}

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
    // ComputerSide is the mark the computer plays in ModePvE (default O).
    ComputerSide domain.Cell
    Searcher     *search.Searcher
    Recorder     ResultRecorder
    Logger       *log.Logger
}

// Service manages games and subscribers.
type Service struct {
    mu       sync.Mutex
    games    map[string]*GameState
    subs     map[string]map[*subscriber]struct{}
    computer domain.Cell
    searcher *search.Searcher
    recorder ResultRecorder
    log      *log.Logger
}

// NewService creates a service with an uncached searcher and in-memory results.
func NewService() *Service { return NewServiceWithOptions(Options{}) }

// NewServiceWithOptions creates a service from opts.
func NewServiceWithOptions(opts Options) *Service {
    if opts.ComputerSide != domain.X {
        opts.ComputerSide = domain.O
    }
    if opts.Searcher == nil {
        opts.Searcher = search.NewSearcher(nil)
    }
    if opts.Recorder == nil {
        opts.Recorder = NewMemoryResults()
    }
    if opts.Logger == nil {
        opts.Logger = log.Default()
    }
    return &Service{
        games:    make(map[string]*GameState),
        subs:     make(map[string]map[*subscriber]struct{}),
        computer: opts.ComputerSide,
        searcher: opts.Searcher,
        recorder: opts.Recorder,
        log:      opts.Logger,
    }
}

// ComputerSide reports the mark the computer plays in ModePvE.
func (s *Service) ComputerSide() domain.Cell { return s.computer }

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(mode Mode) (*GameState, error) {
    if _, err := ParseMode(string(mode)); err != nil {
        return nil, err
    }
    now := time.Now()
    gs := &GameState{ID: uuid.NewString(), Game: domain.New(), Created: now, Updated: now}

    s.mu.Lock()
    s.applyModeLocked(gs, mode)
    if err := s.advanceLocked(gs); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    s.games[gs.ID] = gs
    cp := *gs
    s.mu.Unlock()
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join assigns a seat to the player if available; returns Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
    if playerID == ComputerPlayer {
        return domain.Empty, nil, ErrComputerSeat
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    side := domain.Empty
    if gs.X == "" || gs.X == playerID {
        gs.X = playerID
        side = domain.X
    } else if gs.O == "" || gs.O == playerID {
        gs.O = playerID
        side = domain.O
    }
    gs.Updated = time.Now()
    cp := *gs
    return side, &cp, nil
}

// Play validates seat and turn, applies a move, lets the computer answer,
// updates timestamps, and broadcasts.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
    if playerID == ComputerPlayer {
        return nil, ErrComputerSeat
    }
    return s.update(id, func(gs *GameState) error {
        seat := gs.Seat(playerID)
        if seat == domain.Empty {
            return ErrNotAPlayer
        }
        if seat != gs.Game.Turn {
            return ErrNotYourTurn
        }
        return gs.Game.Play(r, c)
    })
}

// Reset starts a new round on the same seats; the other player opens.
func (s *Service) Reset(id string) (*GameState, error) {
    return s.update(id, func(gs *GameState) error {
        gs.Game.Reset()
        gs.recorded = false
        return nil
    })
}

// SetMode switches between two humans and human versus computer. The board
// is kept; in ModePvE the computer takes over its seat.
func (s *Service) SetMode(id string, mode Mode) (*GameState, error) {
    if _, err := ParseMode(string(mode)); err != nil {
        return nil, err
    }
    return s.update(id, func(gs *GameState) error {
        s.applyModeLocked(gs, mode)
        return nil
    })
}

// update runs fn on the game under the lock, then the turn loop, then fans
// out the new state.
func (s *Service) update(id string, fn func(gs *GameState) error) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if err := fn(gs); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    if err := s.advanceLocked(gs); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Updated = time.Now()

    var result *Result
    if out := gs.Game.Outcome(); out.Over() && !gs.recorded {
        gs.recorded = true
        r := resultOf(gs, out)
        result = &r
    }

    // Snapshot state and subscribers
    cp := *gs
    subs := s.copySubsLocked(id)
    s.mu.Unlock()

    if result != nil {
        if err := s.recorder.Record(context.Background(), *result); err != nil {
            s.log.Printf("[app] record result for %s: %v", id, err)
        }
    }
    s.publish(id, subs, cp)
    return &cp, nil
}

// advanceLocked is the turn loop: while the game is in progress and the
// computer is to move, search and commit its move.
func (s *Service) advanceLocked(gs *GameState) error {
    for gs.Mode == ModePvE {
        if gs.Game.Outcome().Over() || gs.Game.Turn != gs.Computer {
            return nil
        }
        idx, err := s.searcher.BestMove(gs.Game.Board, gs.Computer)
        if err != nil {
            return fmt.Errorf("computer move: %w", err)
        }
        if err := gs.Game.PlayIndex(idx); err != nil {
            return fmt.Errorf("computer move %d: %w", idx, err)
        }
    }
    return nil
}

func (s *Service) applyModeLocked(gs *GameState, mode Mode) {
    if gs.X == ComputerPlayer {
        gs.X = ""
    }
    if gs.O == ComputerPlayer {
        gs.O = ""
    }
    gs.Mode = mode
    gs.Computer = domain.Empty
    if mode != ModePvE {
        return
    }
    gs.Computer = s.computer
    if s.computer == domain.X {
        // a human already on X moves over to O when it is free
        if gs.X != "" && gs.O == "" {
            gs.O = gs.X
        }
        gs.X = ComputerPlayer
    } else {
        if gs.O != "" && gs.X == "" {
            gs.X = gs.O
        }
        gs.O = ComputerPlayer
    }
}

// publish fans out to subscribers; slow ones are closed and dropped.
func (s *Service) publish(id string, subs map[*subscriber]struct{}, cp GameState) {
    var toDrop []*subscriber
    for sub := range subs {
        select {
        case sub.ch <- cp:
        default:
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
                if len(set) == 0 {
                    delete(s.subs, id)
                }
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
