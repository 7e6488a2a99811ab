package othello

// Player is a participant of a single game. It never changes once created.
type Player struct {
	Username string
	Mark     Mark
}

func NewPlayer(username string, mark Mark) Player {
	return Player{Username: username, Mark: mark}
}
