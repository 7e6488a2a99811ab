package entity

import "errors"

var ErrNotParticipant = errors.New("player does not participate in the game")

// Player is a snapshot of a logged in client.
type Player struct {
	Name   string `json:"name"`
	Mark   string `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func (that *Player) InGame() bool {
	return that.GameID != ""
}

// Leave detaches the player from its game.
func (that *Player) Leave() {
	that.GameID = ""
	that.Mark = ""
}
