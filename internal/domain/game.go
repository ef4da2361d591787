package domain

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	Computer
	Human
)

// Other returns the opposing player. Empty has no opponent and maps to itself.
func (c Cell) Other() Cell {
	switch c {
	case Computer:
		return Human
	case Human:
		return Computer
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case Computer:
		return "X"
	case Human:
		return "O"
	default:
		return "-"
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

func index(r, c int) int { return r*3 + c }

// At returns the cell at row r, column c (0..2).
func (b Board) At(r, c int) Cell { return b[index(r, c)] }

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// winsAt reports whether p owns a completed line through (r,c). Only lines
// through the just-played cell can have become complete.
func (b Board) winsAt(p Cell, r, c int) bool {
	if b.At(r, 0) == p && b.At(r, 1) == p && b.At(r, 2) == p {
		return true
	}
	if b.At(0, c) == p && b.At(1, c) == p && b.At(2, c) == p {
		return true
	}
	if r == c && b.At(0, 0) == p && b.At(1, 1) == p && b.At(2, 2) == p {
		return true
	}
	if r+c == 2 && b.At(0, 2) == p && b.At(1, 1) == p && b.At(2, 0) == p {
		return true
	}
	return false
}

// PhaseKind enumerates the positions of the game state machine.
type PhaseKind uint8

const (
	Ready PhaseKind = iota
	Playing
	Retry
	Won
	Draw
)

// Phase is the game's state machine position. Player identifies whose move is
// next for Playing and Retry, and the winner for Won; it is Empty otherwise.
type Phase struct {
	Kind   PhaseKind
	Player Cell
}

// Playable reports whether the game accepts move input.
func (p Phase) Playable() bool { return p.Kind == Playing || p.Kind == Retry }

// Finished reports whether the game reached a terminal phase.
func (p Phase) Finished() bool { return p.Kind == Won || p.Kind == Draw }

// Game holds the board and phase of a Tic-Tac-Toe match.
type Game struct {
	board Board
	phase Phase
}

// New returns a game in Ready phase with an empty board.
func New() Game { return Game{} }

// Board returns a snapshot of the current board.
func (g *Game) Board() Board { return g.board }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Start moves the game from Ready into play with first to move. It does
// nothing in any other phase, and Empty cannot be a first mover.
func (g *Game) Start(first Cell) {
	if g.phase.Kind != Ready || first == Empty {
		return
	}
	g.phase = Phase{Kind: Playing, Player: first}
}

// Reset returns a fresh game in Ready phase. The receiver is left untouched;
// callers replace their handle.
func (g *Game) Reset() Game { return New() }

// Play attempts the active player's move at row r, column c (0..2).
//
// Outside a playable phase, or outside the grid, the call is ignored. An
// occupied target moves the game to Retry for the same player without
// touching the board. An accepted move places the mark and settles the
// outcome: Won on a completed line, Draw on a full board, otherwise the
// opponent is up next.
func (g *Game) Play(r, c int) {
	if !g.phase.Playable() {
		return
	}
	if r < 0 || r > 2 || c < 0 || c > 2 {
		return
	}
	p := g.phase.Player
	if g.board.At(r, c) != Empty {
		g.phase = Phase{Kind: Retry, Player: p}
		return
	}
	g.board[index(r, c)] = p

	switch {
	case g.board.winsAt(p, r, c):
		g.phase = Phase{Kind: Won, Player: p}
	case g.board.Full():
		g.phase = Phase{Kind: Draw}
	default:
		g.phase = Phase{Kind: Playing, Player: p.Other()}
	}
}
