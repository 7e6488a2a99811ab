package strategy

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// fieldValues weighs each cell: corners are worth the most, the cells that
// hand a corner to the opponent the least.
var fieldValues = [othello.Size]int{
	100, -20, 10, 5, 5, 10, -20, 100,
	-20, -50, -2, -2, -2, -2, -50, -20,
	10, -2, -1, -1, -1, -1, -2, 10,
	5, -2, -1, -1, -1, -1, -2, 5,
	5, -2, -1, -1, -1, -1, -2, 5,
	10, -2, -1, -1, -1, -1, -2, 10,
	-20, -50, -2, -2, -2, -2, -50, -20,
	100, -20, 10, 5, 5, 10, -20, 100,
}

// FieldValue plays the legal move on the most valuable cell.
type FieldValue struct {
	rnd *rand.Rand
}

func NewFieldValue(rnd *rand.Rand) *FieldValue {
	return &FieldValue{rnd: rnd}
}

func (that *FieldValue) Name() string {
	return "Field Value AI"
}

func (that *FieldValue) DetermineMove(board *othello.Board, mark othello.Mark) int {
	moves := board.PossibleMoves(mark)
	if len(moves) == 0 {
		return NoMove
	}

	return randomElement(that.DetermineMoveSet(board, mark, moves), that.rnd)
}

// DetermineMoveSet keeps the candidates with the highest cell value.
func (that *FieldValue) DetermineMoveSet(_ *othello.Board, _ othello.Mark, candidates []int) []int {
	var best []int
	bestValue := 0

	for _, move := range candidates {
		if !othello.IsField(move) {
			continue
		}

		value := fieldValues[move]
		switch {
		case len(best) == 0 || value > bestValue:
			best = []int{move}
			bestValue = value
		case value == bestValue:
			best = append(best, move)
		}
	}

	return best
}
