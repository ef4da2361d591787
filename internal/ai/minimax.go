// Package ai implements the automated opponent: exhaustive minimax search
// with alpha-beta pruning over the 3x3 board.
package ai

import (
	"math"

	"github.com/romancitodev/tic-tac-toe-go/internal/domain"
)

// Leaf values fold the search depth into the ±1/0 utility: a win at depth d
// scores terminalBase-d and a loss d-terminalBase. That makes the search
// prefer faster wins and, when every line loses, the longest resistance,
// while keeping wins, draws and losses strictly ordered (depth never
// exceeds 9).
const terminalBase = 10

// All eight winning lines as board indices, row-major.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Engine computes optimal moves for one side of the board. It holds no state
// across calls; every search runs on its own scratch copy of the snapshot.
type Engine struct {
	side  domain.Cell
	rival domain.Cell
}

// New returns an engine playing for side.
func New(side domain.Cell) Engine {
	return Engine{side: side, rival: side.Other()}
}

// BestMove returns the coordinates of the optimal move for the engine's side
// on b, assuming the opponent plays optimally from there on. Ties between
// equally good moves go to the first in row-major order.
//
// b must contain at least one empty cell; asking for a move on a full board
// is a caller bug and panics.
func (e Engine) BestMove(b domain.Board) (row, col int) {
	bestScore := math.MinInt
	best := -1

	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = e.side
		score := e.minimax(&b, e.rival, math.MinInt, math.MaxInt, 1)
		b[i] = domain.Empty

		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		panic("ai: no empty cell to move to")
	}
	return best / 3, best % 3
}

// minimax returns the value of the position with player to move. Trial moves
// are placed on the shared scratch board and undone before returning, so the
// board is restored for the caller's remaining siblings. alpha and beta carry
// the usual pruning bounds; once beta <= alpha the remaining siblings cannot
// change the parent's choice and are skipped.
func (e Engine) minimax(b *domain.Board, player domain.Cell, alpha, beta, depth int) int {
	if score, terminal := e.evaluate(b, depth); terminal {
		return score
	}

	if player == e.side {
		best := math.MinInt
		for i := range b {
			if b[i] != domain.Empty {
				continue
			}
			b[i] = player
			if value := e.minimax(b, e.rival, alpha, beta, depth+1); value > best {
				best = value
			}
			b[i] = domain.Empty
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for i := range b {
		if b[i] != domain.Empty {
			continue
		}
		b[i] = player
		if value := e.minimax(b, e.side, alpha, beta, depth+1); value < best {
			best = value
		}
		b[i] = domain.Empty
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

// evaluate scores b if it is terminal: positive when the engine's side owns a
// completed line, negative when the rival does, 0 on a full board with no
// line. The magnitude carries the depth preference.
func (e Engine) evaluate(b *domain.Board, depth int) (int, bool) {
	switch {
	case hasLine(b, e.side):
		return terminalBase - depth, true
	case hasLine(b, e.rival):
		return depth - terminalBase, true
	case b.Full():
		return 0, true
	}
	return 0, false
}

func hasLine(b *domain.Board, p domain.Cell) bool {
	for _, ln := range lines {
		if b[ln[0]] == p && b[ln[1]] == p && b[ln[2]] == p {
			return true
		}
	}
	return false
}
