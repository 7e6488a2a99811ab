package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/othello"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
	"github.com/rocketscienceinc/othello-backend/internal/server"
)

const DefaultDescription = "Othello bot"

var (
	ErrServer            = errors.New("server replied with an error")
	ErrUnexpectedMessage = errors.New("unexpected message")
)

type Options struct {
	Description string
	// Configuration must match the board the server starts games with.
	Configuration othello.Configuration
}

// Client is a protocol client driving games with a strategy.
// It is not safe for concurrent use.
type Client struct {
	logger *slog.Logger
	conn   server.Conn

	configuration     othello.Configuration
	serverDescription string
	username          string
}

// Dial connects to addr and completes the HELLO handshake.
func Dial(ctx context.Context, logger *slog.Logger, addr string, opts Options) (*Client, error) {
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}

	if opts.Configuration == nil {
		opts.Configuration = othello.DefaultConfiguration()
	}

	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrFailedConnection, err)
	}

	client := &Client{
		logger:        logger.With("component", "client", "addr", addr),
		conn:          server.NewLineConn(conn),
		configuration: opts.Configuration,
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	reply, err := client.request(protocol.HelloMessage(opts.Description))
	if err == nil && reply.Command != protocol.Hello {
		err = fmt.Errorf("%w: %s", ErrUnexpectedMessage, reply)
	}

	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: handshake: %w", apperror.ErrFailedConnection, err)
	}

	client.serverDescription = reply.Arg(0)
	client.logger.Info("connected", "server", client.serverDescription)

	return client, nil
}

func (that *Client) ServerDescription() string {
	return that.serverDescription
}

func (that *Client) Username() string {
	return that.username
}

func (that *Client) Close() error {
	return that.conn.Close()
}

// Login claims name on the server.
func (that *Client) Login(name string) error {
	if !protocol.ValidUsername(name) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidUsername, name)
	}

	reply, err := that.request(protocol.LoginMessage(name))
	if err != nil {
		return err
	}

	switch reply.Command {
	case protocol.Login:
		that.username = name
		that.logger.Info("logged in", "username", name)

		return nil
	case protocol.AlreadyLoggedIn:
		return fmt.Errorf("%w: %s", apperror.ErrAlreadyLoggedIn, name)
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedMessage, reply)
	}
}

// List returns the names of all logged in clients.
func (that *Client) List() ([]string, error) {
	reply, err := that.request(protocol.ListMessage())
	if err != nil {
		return nil, err
	}

	if reply.Command != protocol.List {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedMessage, reply)
	}

	return reply.Args, nil
}

// Queue toggles the queue membership. The server does not answer; a game
// start arrives as NEWGAME and is handled by Play.
func (that *Client) Queue() error {
	return that.send(protocol.New(protocol.Queue))
}

func (that *Client) send(msg protocol.Message) error {
	if err := that.conn.WriteLine(msg.String()); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Command, err)
	}

	return nil
}

func (that *Client) receive() (protocol.Message, error) {
	line, err := that.conn.ReadLine()
	if err != nil {
		return protocol.Message{}, fmt.Errorf("failed to receive: %w", err)
	}

	msg, err := protocol.Parse(line)
	if err != nil {
		return protocol.Message{}, fmt.Errorf("failed to parse %q: %w", line, err)
	}

	if msg.Command == protocol.Error {
		return msg, fmt.Errorf("%w: %s", ErrServer, msg.Arg(0))
	}

	return msg, nil
}

func (that *Client) request(msg protocol.Message) (protocol.Message, error) {
	if err := that.send(msg); err != nil {
		return protocol.Message{}, err
	}

	return that.receive()
}
