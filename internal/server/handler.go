package server

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
)

// ClientHandler is the server side of one connection. It validates inbound
// commands against the connection state and forwards them to the Server.
// Fields below outbox are guarded by the server lock.
type ClientHandler struct {
	id     string
	logger *slog.Logger
	server *Server
	conn   Conn
	outbox *outbox

	handshaken  bool
	description string
	username    string
}

func newClientHandler(server *Server, conn Conn) *ClientHandler {
	id := uuid.NewString()

	return &ClientHandler{
		id:     id,
		logger: server.logger.With("client_id", id, "remote", conn.RemoteAddr()),
		server: server,
		conn:   conn,
		outbox: newOutbox(),
	}
}

func (that *ClientHandler) readLoop() error {
	for {
		line, err := that.conn.ReadLine()
		if err != nil {
			return err
		}

		that.server.dispatch(that, line)
	}
}

func (that *ClientHandler) send(msg protocol.Message) {
	if !that.outbox.push(msg.String()) {
		that.logger.Debug("message to a closed connection dropped", "command", msg.Command)
	}
}

func (that *ClientHandler) sendError(err error) {
	that.send(protocol.ErrorMessage(err))
}

func wrongArguments(command string, arity int) error {
	return fmt.Errorf("%w: %s expects %d fields", apperror.ErrWrongArguments, command, arity)
}

func (that *ClientHandler) handleHello(msg protocol.Message) error {
	if that.handshaken {
		return apperror.ErrHandshakeDone
	}

	if msg.Arity() != 2 {
		return wrongArguments(protocol.Hello, 2)
	}

	that.handshaken = true
	that.description = msg.Arg(0)

	that.logger.Info("handshake done", "client", that.description)
	that.send(protocol.HelloMessage(that.server.description))

	return nil
}

func (that *ClientHandler) handleLogin(msg protocol.Message) error {
	if msg.Arity() != 2 {
		return wrongArguments(protocol.Login, 2)
	}

	if that.username != "" {
		return apperror.ErrLoggedIn
	}

	if !that.handshaken {
		return apperror.ErrHandshakeRequired
	}

	name := msg.Arg(0)
	if !protocol.ValidUsername(name) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidUsername, name)
	}

	if that.server.isLoggedIn(name) {
		that.send(protocol.New(protocol.AlreadyLoggedIn))
		return nil
	}

	that.server.login(that, name)

	that.logger.Info("client logged in", "username", name)
	that.send(protocol.New(protocol.Login))

	return nil
}

func (that *ClientHandler) handleList(msg protocol.Message) error {
	if that.username == "" {
		return apperror.ErrNotLoggedIn
	}

	if msg.Arity() != 1 {
		return wrongArguments(protocol.List, 1)
	}

	that.send(protocol.ListMessage(that.server.usernames()...))

	return nil
}

func (that *ClientHandler) handleQueue(msg protocol.Message) error {
	if msg.Arity() != 1 {
		return wrongArguments(protocol.Queue, 1)
	}

	if that.username == "" {
		return apperror.ErrNotLoggedIn
	}

	if that.server.matchOf(that) != nil {
		return apperror.ErrInGame
	}

	that.server.toggleQueue(that)

	return nil
}

func (that *ClientHandler) handleMove(msg protocol.Message) error {
	if msg.Arity() != 2 {
		return wrongArguments(protocol.Move, 2)
	}

	current := that.server.matchOf(that)
	if current == nil {
		return apperror.ErrNotInGame
	}

	index, err := protocol.ParseMove(msg.Arg(0))
	if err != nil {
		return err
	}

	return that.server.move(current, that, index)
}
