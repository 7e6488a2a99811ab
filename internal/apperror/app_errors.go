package apperror

import (
	"errors"
	"fmt"
)

// board and game errors.
var (
	ErrInvalidField  = errors.New("field does not exist on the board")
	ErrIllegalMove   = errors.New("illegal move")
	ErrFieldOccupied = fmt.Errorf("%w: field is already occupied", ErrIllegalMove)
	ErrNotYourTurn   = errors.New("it's not your turn")
)

// session errors.
var (
	ErrInvalidUsername  = errors.New("invalid username")
	ErrAlreadyLoggedIn  = errors.New("username is already logged in")
	ErrFailedConnection = errors.New("failed to connect to server")
)

// protocol errors, sent back to the client as ERROR replies.
var (
	ErrHandshakeDone     = errors.New("hello handshake was already done")
	ErrHandshakeRequired = errors.New("hello handshake not completed")
	ErrLoggedIn          = errors.New("client already logged in")
	ErrNotLoggedIn       = errors.New("client not logged in yet")
	ErrInGame            = errors.New("client is already in a game")
	ErrNotInGame         = errors.New("client not in a game")
	ErrWrongArguments    = errors.New("wrong arguments")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrNotInteger        = errors.New("move is not an integer")
	ErrEmptyMessage      = errors.New("empty message")
)
