package strategy

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// Naive plays a random legal move.
type Naive struct {
	rnd *rand.Rand
}

func NewNaive(rnd *rand.Rand) *Naive {
	return &Naive{rnd: rnd}
}

func (that *Naive) Name() string {
	return "Naive AI"
}

func (that *Naive) DetermineMove(board *othello.Board, mark othello.Mark) int {
	return randomElement(board.PossibleMoves(mark), that.rnd)
}
