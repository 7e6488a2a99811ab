package protocol

import (
	"errors"
	"testing"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Command with arguments", func(t *testing.T) {
		msg, err := Parse("NEWGAME~alice~bob\r\n")
		require.NoError(t, err)

		assert.Equal(t, NewGame, msg.Command)
		assert.Equal(t, []string{"alice", "bob"}, msg.Args)
		assert.Equal(t, 3, msg.Arity())
		assert.Equal(t, "bob", msg.Arg(1))
		assert.Empty(t, msg.Arg(2))
	})

	t.Run("Bare command", func(t *testing.T) {
		msg, err := Parse("QUEUE")
		require.NoError(t, err)

		assert.Equal(t, Queue, msg.Command)
		assert.Empty(t, msg.Args)
		assert.Equal(t, 1, msg.Arity())
	})

	t.Run("Empty trailing field is kept", func(t *testing.T) {
		msg, err := Parse("LOGIN~")
		require.NoError(t, err)

		assert.Equal(t, 2, msg.Arity())
		assert.Empty(t, msg.Arg(0))
	})

	t.Run("Empty line", func(t *testing.T) {
		_, err := Parse("\n")
		require.ErrorIs(t, err, apperror.ErrEmptyMessage)
	})
}

func TestMessage_String(t *testing.T) {
	cases := map[string]Message{
		"HELLO~Othello server":     HelloMessage("Othello server"),
		"LOGIN~alice":              LoginMessage("alice"),
		"LIST~alice~bob":           ListMessage("alice", "bob"),
		"NEWGAME~alice~bob":        NewGameMessage("alice", "bob"),
		"MOVE~64":                  MoveMessage(64),
		"GAMEOVER~DRAW":            DrawMessage(),
		"GAMEOVER~VICTORY~alice":   VictoryMessage("alice"),
		"GAMEOVER~DISCONNECT~bob":  DisconnectMessage("bob"),
		"ERROR~it's not your turn": ErrorMessage(apperror.ErrNotYourTurn),
		"ERROR~bad-input":          ErrorMessage(errors.New("bad~input")),
		"ALREADYLOGGEDIN":          New(AlreadyLoggedIn),
	}

	for expected, msg := range cases {
		assert.Equal(t, expected, msg.String())
	}
}

func TestParseMove(t *testing.T) {
	move, err := ParseMove("19")
	require.NoError(t, err)
	assert.Equal(t, 19, move)

	_, err = ParseMove("nineteen")
	require.ErrorIs(t, err, apperror.ErrNotInteger)
}

func TestValidUsername(t *testing.T) {
	for _, name := range []string{"alice", "Bob the bot", "ünïcode"} {
		assert.True(t, ValidUsername(name), name)
	}

	for _, name := range []string{"", "   ", "ali~ce", "ali\nce"} {
		assert.False(t, ValidUsername(name), name)
	}
}
