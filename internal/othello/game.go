package othello

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
)

const (
	numberOfPlayers = 2

	labelAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Game pairs two players with a board and tracks whose turn it is.
// Game is not safe for concurrent use; the owner serialises access.
type Game struct {
	board   *Board
	players [numberOfPlayers]Player
	current int
}

func NewGame(first, second Player) *Game {
	return NewGameWithConfiguration(first, second, DefaultConfiguration())
}

// NewGameWithConfiguration - creates a game on a board set up from conf.
// The player holding Black starts.
func NewGameWithConfiguration(first, second Player, conf Configuration) *Game {
	game := &Game{
		board:   NewBoard(conf),
		players: [numberOfPlayers]Player{first, second},
	}

	if first.Mark != Black && second.Mark == Black {
		game.current = 1
	}

	return game
}

func (that *Game) Board() *Board {
	return that.board
}

func (that *Game) Players() [numberOfPlayers]Player {
	return that.players
}

func (that *Game) Current() Player {
	return that.players[that.current]
}

// PlayerFor returns the player holding mark.
func (that *Game) PlayerFor(mark Mark) (Player, bool) {
	for _, player := range that.players {
		if player.Mark == mark {
			return player, true
		}
	}

	return Player{}, false
}

// Pass hands the turn to the other player.
func (that *Game) Pass() {
	that.current = (that.current + 1) % numberOfPlayers
}

// MakeMove plays index for the current player. PassMove is only accepted
// when the current player has no legal move.
func (that *Game) MakeMove(index int) error {
	if index == PassMove && !that.board.HasMoves(that.Current().Mark) {
		that.Pass()
		return nil
	}

	if err := that.board.SetField(index, that.Current().Mark); err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.Pass()

	return nil
}

// MoveLabels returns the current player's legal moves in board scan order.
// The move at position i is labelled with the i-th letter of the alphabet.
func (that *Game) MoveLabels() []int {
	moves := that.board.PossibleMoves(that.Current().Mark)
	if len(moves) > len(labelAlphabet) {
		moves = moves[:len(labelAlphabet)]
	}

	return moves
}

// MoveForLabel converts a single letter label into a board index.
func (that *Game) MoveForLabel(label string) (int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) != 1 {
		return 0, fmt.Errorf("%w: label %q", apperror.ErrIllegalMove, label)
	}

	position := strings.Index(labelAlphabet, label)
	moves := that.MoveLabels()

	if position < 0 || position >= len(moves) {
		return 0, fmt.Errorf("%w: label %q", apperror.ErrIllegalMove, label)
	}

	return moves[position], nil
}

// LabelForMove converts a board index into its label, false when the index
// is not a labelled move.
func (that *Game) LabelForMove(index int) (string, bool) {
	for position, move := range that.MoveLabels() {
		if move == index {
			return string(labelAlphabet[position]), true
		}
	}

	return "", false
}
