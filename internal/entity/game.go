package entity

import (
	"fmt"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	MarkBlack = "BLACK"
	MarkWhite = "WHITE"

	// WinnerDraw is stored as the winner of a finished game without a winner.
	WinnerDraw = "-"

	EmptyCell = ""

	BoardSize = 64
)

// Game is a snapshot of a live game, written to the session repositories.
type Game struct {
	ID     string            `json:"id"`
	Board  [BoardSize]string `json:"board"`
	Black  string            `json:"black"`
	White  string            `json:"white"`
	Turn   string            `json:"player_turn"`
	Status string            `json:"status"`
	Winner string            `json:"winner,omitempty"`
	Moves  int               `json:"moves"`
}

func NewGame(id, black, white string) *Game {
	return &Game{
		ID:     id,
		Black:  black,
		White:  white,
		Turn:   black,
		Status: StatusOngoing,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// Finish marks the game finished; an empty winner records a draw.
func (that *Game) Finish(winner string) {
	if winner == "" {
		winner = WinnerDraw
	}

	that.Winner = winner
	that.Status = StatusFinished
	that.Turn = ""
}

// Count returns how many cells hold mark.
func (that *Game) Count(mark string) int {
	count := 0
	for _, cell := range that.Board {
		if cell == mark {
			count++
		}
	}

	return count
}

// MarkOf returns the mark played by name in this game.
func (that *Game) MarkOf(name string) (string, error) {
	switch name {
	case that.Black:
		return MarkBlack, nil
	case that.White:
		return MarkWhite, nil
	default:
		return "", fmt.Errorf("%w: %s in game %s", ErrNotParticipant, name, that.ID)
	}
}
