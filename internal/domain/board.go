package domain

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other mark; Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// ParseCell maps "X"/"O" (either case) to a mark.
func ParseCell(s string) (Cell, bool) {
    switch s {
    case "X", "x":
        return X, true
    case "O", "o":
        return O, true
    }
    return Empty, false
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Lines are the eight winning triples, scanned in this order.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Empty returns the indexes of empty cells in ascending order.
func (b Board) Empty() []int {
    out := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// Full reports whether no cell is empty.
func (b Board) Full() bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// Status is the coarse state of a board.
type Status uint8

const (
    InProgress Status = iota
    Win
    Draw
)

func (s Status) String() string {
    switch s {
    case Win:
        return "win"
    case Draw:
        return "draw"
    default:
        return "in_progress"
    }
}

// Outcome is derived from a board; Winner is set only when Status is Win.
type Outcome struct {
    Status Status
    Winner Cell
}

// Over reports whether the outcome is terminal.
func (o Outcome) Over() bool { return o.Status != InProgress }

// Evaluate returns the outcome of b. The first completed line in Lines order
// decides the winner; a full board without one is a draw.
func Evaluate(b Board) Outcome {
    for _, ln := range Lines {
        c := b[ln[0]]
        if c != Empty && b[ln[1]] == c && b[ln[2]] == c {
            return Outcome{Status: Win, Winner: c}
        }
    }
    if b.Full() {
        return Outcome{Status: Draw}
    }
    return Outcome{Status: InProgress}
}

// ParseBoard reads nine cells from s, using 'X', 'O' and '.' (or '-', ' ')
// for empty. It is meant for fixtures and the terminal client.
func ParseBoard(s string) (Board, bool) {
    var b Board
    if len(s) != len(b) {
        return b, false
    }
    for i := 0; i < len(s); i++ {
        switch s[i] {
        case 'X', 'x':
            b[i] = X
        case 'O', 'o':
            b[i] = O
        case '.', '-', ' ':
            b[i] = Empty
        default:
            return Board{}, false
        }
    }
    return b, true
}

// String is the inverse of ParseBoard.
func (b Board) String() string {
    buf := make([]byte, len(b))
    for i, c := range b {
        switch c {
        case X:
            buf[i] = 'X'
        case O:
            buf[i] = 'O'
        default:
            buf[i] = '.'
        }
    }
    return string(buf)
}
