package server

import (
	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/othello"
)

// match binds a running game to the two connections playing it.
// players[0] holds Black.
type match struct {
	id      string
	game    *othello.Game
	players [2]*ClientHandler
	moves   int
}

func (that *match) playerFor(mark othello.Mark) *ClientHandler {
	if mark == othello.White {
		return that.players[1]
	}

	return that.players[0]
}

func (that *match) playerToMove() *ClientHandler {
	return that.playerFor(that.game.Current().Mark)
}

func (that *match) opponent(client *ClientHandler) *ClientHandler {
	if that.players[0] == client {
		return that.players[1]
	}

	return that.players[0]
}

// snapshot converts the live game for the session mirror.
func (that *match) snapshot() entity.Game {
	snapshot := entity.NewGame(that.id, that.players[0].username, that.players[1].username)
	snapshot.Moves = that.moves
	snapshot.Turn = that.playerToMove().username

	for index, field := range that.game.Board().Fields() {
		snapshot.Board[index] = cellOf(field)
	}

	return *snapshot
}

func cellOf(mark othello.Mark) string {
	switch mark {
	case othello.Black:
		return entity.MarkBlack
	case othello.White:
		return entity.MarkWhite
	default:
		return entity.EmptyCell
	}
}
