package server

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/othello-backend/internal/apperror"
	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/othello"
	"github.com/rocketscienceinc/othello-backend/internal/protocol"
)

const DefaultDescription = "Othello server"

// Mirror receives snapshots of the live sessions. Calls are made while the
// server lock is held and must not block.
type Mirror interface {
	PlayerLoggedIn(name string)
	PlayerLeft(name string)
	GameStarted(game entity.Game)
	GameUpdated(game entity.Game)
	GameFinished(game entity.Game)
}

type Options struct {
	Description   string
	Configuration othello.Configuration
	Mirror        Mirror
}

type Stats struct {
	Connected int `json:"connected"`
	LoggedIn  int `json:"logged_in"`
	Queued    int `json:"queued"`
	Games     int `json:"games"`
}

type commandHandler func(client *ClientHandler, msg protocol.Message) error

// Server pairs queued clients into games and relays their moves.
// All membership and game state is guarded by mu.
type Server struct {
	logger *slog.Logger

	description   string
	configuration othello.Configuration
	mirror        Mirror

	handlers map[string]commandHandler

	mu      sync.Mutex
	clients map[*ClientHandler]struct{}
	logged  []*ClientHandler
	queue   []*ClientHandler
	games   map[*othello.Game]*match
}

func New(logger *slog.Logger, opts Options) *Server {
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}

	if opts.Configuration == nil {
		opts.Configuration = othello.DefaultConfiguration()
	}

	if opts.Mirror == nil {
		opts.Mirror = nopMirror{}
	}

	server := &Server{
		logger: logger.With("component", "server"),

		description:   opts.Description,
		configuration: opts.Configuration,
		mirror:        opts.Mirror,

		handlers: make(map[string]commandHandler),

		clients: make(map[*ClientHandler]struct{}),
		games:   make(map[*othello.Game]*match),
	}

	server.handlers[protocol.Hello] = (*ClientHandler).handleHello
	server.handlers[protocol.Login] = (*ClientHandler).handleLogin
	server.handlers[protocol.List] = (*ClientHandler).handleList
	server.handlers[protocol.Queue] = (*ClientHandler).handleQueue
	server.handlers[protocol.Move] = (*ClientHandler).handleMove

	return server
}

// Serve runs the session of one connection until it is closed or ctx is
// cancelled. Cleanup, including a forfeit of a running game, happens before
// Serve returns.
func (that *Server) Serve(ctx context.Context, conn Conn) error {
	client := that.connect(conn)
	log := client.logger.With("method", "Serve")

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- client.outbox.drain(conn.WriteLine)
	}()

	log.Info("client connected")

	err := client.readLoop()

	that.disconnect(client)
	client.outbox.close()

	if writeErr := <-writerDone; writeErr != nil && !isClosed(writeErr) {
		log.Warn("failed to flush outbox", "error", writeErr)
	}

	_ = conn.Close()

	log.Info("client disconnected")

	if err != nil && !isClosed(err) {
		return fmt.Errorf("connection %s failed: %w", client.id, err)
	}

	return nil
}

func (that *Server) Stats() Stats {
	that.mu.Lock()
	defer that.mu.Unlock()

	return Stats{
		Connected: len(that.clients),
		LoggedIn:  len(that.logged),
		Queued:    len(that.queue),
		Games:     len(that.games),
	}
}

func (that *Server) connect(conn Conn) *ClientHandler {
	client := newClientHandler(that, conn)

	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[client] = struct{}{}

	return client
}

// dispatch handles one inbound line. Errors become ERROR replies.
func (that *Server) dispatch(client *ClientHandler, line string) {
	log := client.logger.With("method", "dispatch")

	that.mu.Lock()
	defer that.mu.Unlock()

	msg, err := protocol.Parse(line)
	if err != nil {
		client.sendError(err)
		return
	}

	handler, ok := that.handlers[msg.Command]
	if !ok {
		client.sendError(fmt.Errorf("%w: %s", apperror.ErrUnknownCommand, msg.Command))
		return
	}

	if err = handler(client, msg); err != nil {
		log.Debug("command rejected", "command", msg.Command, "error", err)
		client.sendError(err)
	}
}

func (that *Server) disconnect(client *ClientHandler) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, client)
	that.queue = remove(that.queue, client)

	if game := that.matchOf(client); game != nil {
		survivor := game.opponent(client)
		survivor.send(protocol.DisconnectMessage(survivor.username))

		that.endMatch(game, survivor.username)
	}

	if client.username != "" {
		that.logged = remove(that.logged, client)
		that.mirror.PlayerLeft(client.username)
	}
}

// isLoggedIn reports a logged in client holding name.
func (that *Server) isLoggedIn(name string) bool {
	return slices.ContainsFunc(that.logged, func(client *ClientHandler) bool {
		return client.username == name
	})
}

func (that *Server) login(client *ClientHandler, name string) {
	client.username = name
	that.logged = append(that.logged, client)

	that.mirror.PlayerLoggedIn(name)
}

func (that *Server) usernames() []string {
	names := make([]string, 0, len(that.logged))
	for _, client := range that.logged {
		names = append(names, client.username)
	}

	return names
}

// toggleQueue adds or removes client from the queue and starts a game once
// two clients wait.
func (that *Server) toggleQueue(client *ClientHandler) {
	log := client.logger.With("method", "toggleQueue")

	if slices.Contains(that.queue, client) {
		that.queue = remove(that.queue, client)
		log.Info("client left the queue")

		return
	}

	that.queue = append(that.queue, client)
	log.Info("client queued", "queued", len(that.queue))

	if len(that.queue) >= 2 {
		black, white := that.queue[0], that.queue[1]
		that.queue = slices.Delete(that.queue, 0, 2)

		that.startMatch(black, white)
	}
}

func (that *Server) startMatch(black, white *ClientHandler) {
	game := othello.NewGameWithConfiguration(
		othello.NewPlayer(black.username, othello.Black),
		othello.NewPlayer(white.username, othello.White),
		that.configuration,
	)

	started := &match{
		id:      uuid.NewString(),
		game:    game,
		players: [2]*ClientHandler{black, white},
	}
	that.games[game] = started

	msg := protocol.NewGameMessage(black.username, white.username)
	black.send(msg)
	white.send(msg)

	that.logger.Info("game started", "game_id", started.id, "black", black.username, "white", white.username)

	that.mirror.GameStarted(started.snapshot())
}

// move applies index for client in its game.
func (that *Server) move(current *match, client *ClientHandler, index int) error {
	if current.playerToMove() != client {
		return apperror.ErrNotYourTurn
	}

	board := current.game.Board()
	mark := current.game.Current().Mark

	pass := index == othello.PassMove && !board.HasMoves(mark)
	if !pass && !slices.Contains(board.PossibleMoves(mark), index) {
		return fmt.Errorf("%w: %d", apperror.ErrIllegalMove, index)
	}

	if err := current.game.MakeMove(index); err != nil {
		return err
	}

	current.moves++

	msg := protocol.MoveMessage(index)
	for _, player := range current.players {
		player.send(msg)
	}

	if board.GameOver() {
		that.finishMatch(current)
		return nil
	}

	that.mirror.GameUpdated(current.snapshot())

	return nil
}

func (that *Server) finishMatch(finished *match) {
	msg := protocol.DrawMessage()
	winner := ""

	if mark, ok := finished.game.Board().Winner(); ok {
		winner = finished.playerFor(mark).username
		msg = protocol.VictoryMessage(winner)
	}

	for _, player := range finished.players {
		player.send(msg)
	}

	that.endMatch(finished, winner)
}

// endMatch releases the binding of both players.
func (that *Server) endMatch(ended *match, winner string) {
	delete(that.games, ended.game)

	that.logger.Info("game finished", "game_id", ended.id, "winner", winner, "moves", ended.moves)

	snapshot := ended.snapshot()
	snapshot.Finish(winner)

	that.mirror.GameFinished(snapshot)
}

func (that *Server) matchOf(client *ClientHandler) *match {
	for _, running := range that.games {
		if slices.Contains(running.players[:], client) {
			return running
		}
	}

	return nil
}

func remove(clients []*ClientHandler, client *ClientHandler) []*ClientHandler {
	return slices.DeleteFunc(clients, func(candidate *ClientHandler) bool {
		return candidate == client
	})
}

type nopMirror struct{}

func (nopMirror) PlayerLoggedIn(string)    {}
func (nopMirror) PlayerLeft(string)        {}
func (nopMirror) GameStarted(entity.Game)  {}
func (nopMirror) GameUpdated(entity.Game)  {}
func (nopMirror) GameFinished(entity.Game) {}
