package strategy

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// MiniMax searches Depth plies ahead with alpha-beta pruning.
type MiniMax struct {
	Depth int
}

func NewMiniMax(depth int) *MiniMax {
	return &MiniMax{Depth: depth}
}

func (that *MiniMax) Name() string {
	return fmt.Sprintf("MiniMax AI (depth %d)", that.Depth)
}

func (that *MiniMax) DetermineMove(board *othello.Board, mark othello.Mark) int {
	move, _ := that.Search(board, mark)
	return move
}

// Search returns the best move for mark together with its evaluation from
// mark's point of view. The move is NoMove when mark cannot move.
func (that *MiniMax) Search(board *othello.Board, mark othello.Mark) (int, int) {
	if !board.HasMoves(mark) {
		return NoMove, evaluate(board, mark)
	}

	depth := max(that.Depth, 1)

	score, move := minimax(board, depth, mark, mark, math.MinInt, math.MaxInt)

	return move, score
}

// minimax returns the score of board and the move leading to it. root is the
// mark the search maximises for, toMove the mark whose turn it is.
func minimax(board *othello.Board, depth int, root, toMove othello.Mark, alpha, beta int) (int, int) {
	if depth == 0 || board.GameOver() {
		return evaluate(board, root), NoMove
	}

	// a stalled mark passes, the depth budget is kept
	if !board.HasMoves(toMove) {
		toMove = toMove.Other()
	}

	maximizing := toMove == root
	bestMove := NoMove
	bestScore := math.MaxInt
	if maximizing {
		bestScore = math.MinInt
	}

	for _, move := range board.PossibleMoves(toMove) {
		child := board.DeepCopy()
		if err := child.SetField(move, toMove); err != nil {
			continue
		}

		score, _ := minimax(child, depth-1, root, toMove.Other(), alpha, beta)

		if maximizing {
			if bestMove == NoMove || score > bestScore {
				bestScore, bestMove = score, move
			}
			alpha = max(alpha, score)
		} else {
			if bestMove == NoMove || score < bestScore {
				bestScore, bestMove = score, move
			}
			beta = min(beta, score)
		}

		if beta <= alpha {
			break
		}
	}

	return bestScore, bestMove
}

// evaluate scores board for mark: the extreme ints for a decided game,
// otherwise the weighted difference of occupied cells.
func evaluate(board *othello.Board, mark othello.Mark) int {
	switch {
	case board.IsWinner(mark):
		return math.MaxInt
	case board.IsWinner(mark.Other()):
		return math.MinInt
	case board.IsDraw():
		return 0
	}

	value := 0
	for index, field := range board.Fields() {
		switch field {
		case mark:
			value += fieldValues[index]
		case mark.Other():
			value -= fieldValues[index]
		case othello.Empty:
		}
	}

	return value
}
