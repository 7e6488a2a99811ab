package strategy

import (
	"math/rand/v2"
	"strings"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// Chain narrows the legal moves of mark through filters in order and stops
// as soon as a single move is left.
func Chain(board *othello.Board, mark othello.Mark, filters []Filter) []int {
	moves := board.PossibleMoves(mark)

	for _, filter := range filters {
		if len(moves) <= 1 {
			break
		}

		moves = filter.DetermineMoveSet(board, mark, moves)
	}

	return moves
}

// Stacked runs a filter chain and picks randomly among the survivors.
type Stacked struct {
	rnd     *rand.Rand
	filters []Filter
}

func NewStacked(rnd *rand.Rand, filters ...Filter) *Stacked {
	return &Stacked{
		rnd:     rnd,
		filters: filters,
	}
}

func (that *Stacked) Name() string {
	var result strings.Builder

	result.WriteString("Strategy stack: ")
	for _, filter := range that.filters {
		result.WriteString(filter.Name())
		result.WriteString(" -> ")
	}
	result.WriteString("Random")

	return result.String()
}

func (that *Stacked) DetermineMove(board *othello.Board, mark othello.Mark) int {
	return randomElement(Chain(board, mark, that.filters), that.rnd)
}
