package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
)

const Separator = "~"

// commands.
const (
	Hello           = "HELLO"
	Login           = "LOGIN"
	AlreadyLoggedIn = "ALREADYLOGGEDIN"
	List            = "LIST"
	Queue           = "QUEUE"
	NewGame         = "NEWGAME"
	Move            = "MOVE"
	GameOver        = "GAMEOVER"
	Error           = "ERROR"
)

// game over reasons.
const (
	ReasonDraw       = "DRAW"
	ReasonVictory    = "VICTORY"
	ReasonDisconnect = "DISCONNECT"
)

// Message is a single protocol line: a command followed by its arguments.
type Message struct {
	Command string
	Args    []string
}

func New(command string, args ...string) Message {
	return Message{Command: command, Args: args}
}

// Parse splits a raw line into a message. Trailing line breaks are ignored.
func Parse(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return Message{}, apperror.ErrEmptyMessage
	}

	parts := strings.Split(line, Separator)

	return Message{Command: parts[0], Args: parts[1:]}, nil
}

func (that Message) String() string {
	return strings.Join(append([]string{that.Command}, that.Args...), Separator)
}

// Arity is the number of fields including the command.
func (that Message) Arity() int {
	return len(that.Args) + 1
}

// Arg returns the i-th argument or an empty string.
func (that Message) Arg(i int) string {
	if i < 0 || i >= len(that.Args) {
		return ""
	}

	return that.Args[i]
}

// ParseMove reads a move index argument.
func ParseMove(arg string) (int, error) {
	move, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperror.ErrNotInteger, arg)
	}

	return move, nil
}

func HelloMessage(description string) Message {
	return New(Hello, description)
}

func LoginMessage(username string) Message {
	return New(Login, username)
}

func ListMessage(usernames ...string) Message {
	return New(List, usernames...)
}

func NewGameMessage(black, white string) Message {
	return New(NewGame, black, white)
}

func MoveMessage(index int) Message {
	return New(Move, strconv.Itoa(index))
}

func DrawMessage() Message {
	return New(GameOver, ReasonDraw)
}

func VictoryMessage(winner string) Message {
	return New(GameOver, ReasonVictory, winner)
}

func DisconnectMessage(winner string) Message {
	return New(GameOver, ReasonDisconnect, winner)
}

func ErrorMessage(err error) Message {
	return New(Error, strings.ReplaceAll(err.Error(), Separator, "-"))
}

// ValidUsername reports whether name can be sent as a LOGIN argument.
func ValidUsername(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.Contains(name, Separator) && !strings.ContainsAny(name, "\r\n")
}
