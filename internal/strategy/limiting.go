package strategy

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// Limiting plays the move that leaves the opponent the fewest replies.
type Limiting struct {
	rnd *rand.Rand
}

func NewLimiting(rnd *rand.Rand) *Limiting {
	return &Limiting{rnd: rnd}
}

func (that *Limiting) Name() string {
	return "Limiting AI"
}

func (that *Limiting) DetermineMove(board *othello.Board, mark othello.Mark) int {
	moves := board.PossibleMoves(mark)
	if len(moves) == 0 {
		return NoMove
	}

	return randomElement(that.DetermineMoveSet(board, mark, moves), that.rnd)
}

// DetermineMoveSet keeps the candidates minimising the opponent's move count.
// Candidates that are not legal for mark are dropped.
func (that *Limiting) DetermineMoveSet(board *othello.Board, mark othello.Mark, candidates []int) []int {
	var least []int
	leastCount := 0

	for _, move := range candidates {
		copied := board.DeepCopy()
		if err := copied.SetField(move, mark); err != nil {
			continue
		}

		count := len(copied.PossibleMoves(mark.Other()))
		switch {
		case len(least) == 0 || count < leastCount:
			least = []int{move}
			leastCount = count
		case count == leastCount:
			least = append(least, move)
		}
	}

	return least
}
