package server

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/othello-backend/internal/entity"
	"github.com/rocketscienceinc/othello-backend/internal/othello"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDescription = "Othello test server"
	replyTimeout    = time.Second
	silenceTimeout  = 100 * time.Millisecond
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestServer(opts Options) *Server {
	opts.Description = testDescription
	return New(newTestLogger(), opts)
}

// testPeer is the client side of a connection served by the server under test.
type testPeer struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func connectPeer(t *testing.T, srv *Server) *testPeer {
	t.Helper()

	serverSide, clientSide := net.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, NewLineConn(serverSide))
	}()

	t.Cleanup(func() {
		cancel()
		_ = clientSide.Close()
		<-done
	})

	return &testPeer{t: t, conn: clientSide, reader: bufio.NewReader(clientSide)}
}

func (that *testPeer) send(line string) {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetWriteDeadline(time.Now().Add(replyTimeout)))
	_, err := io.WriteString(that.conn, line+"\n")
	require.NoError(that.t, err)
}

func (that *testPeer) read() string {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(replyTimeout)))
	line, err := that.reader.ReadString('\n')
	require.NoError(that.t, err)

	return strings.TrimRight(line, "\n")
}

func (that *testPeer) expect(line string) {
	that.t.Helper()

	assert.Equal(that.t, line, that.read())
}

func (that *testPeer) expectSilence() {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(silenceTimeout)))
	line, err := that.reader.ReadString('\n')

	var netErr net.Error
	require.ErrorAs(that.t, err, &netErr, "unexpected line %q", line)
	require.True(that.t, netErr.Timeout())
}

func (that *testPeer) login(name string) {
	that.t.Helper()

	that.send("HELLO~test client")
	that.expect("HELLO~" + testDescription)
	that.send("LOGIN~" + name)
	that.expect("LOGIN")
}

// sync waits until every line sent so far has been handled.
func (that *testPeer) sync() {
	that.t.Helper()

	that.send("LIST")
	require.True(that.t, strings.HasPrefix(that.read(), "LIST"))
}

func (that *testPeer) close() {
	require.NoError(that.t, that.conn.Close())
}

// startGame logs alice and bob in and pairs them, alice playing black.
func startGame(t *testing.T, srv *Server) (*testPeer, *testPeer) {
	t.Helper()

	alice, bob := connectPeer(t, srv), connectPeer(t, srv)
	alice.login("alice")
	bob.login("bob")

	alice.send("QUEUE")
	alice.sync()
	bob.send("QUEUE")

	alice.expect("NEWGAME~alice~bob")
	bob.expect("NEWGAME~alice~bob")

	return alice, bob
}

// stalledBlack is a position where black has no move and white has one
// move, 2, which ends the game.
func stalledBlack() othello.Configuration {
	return othello.Configuration{
		othello.Black: {1},
		othello.White: {0},
	}
}

func TestServer_Handshake(t *testing.T) {
	srv := newTestServer(Options{})

	t.Run("Hello is answered once", func(t *testing.T) {
		// Given: a fresh connection
		peer := connectPeer(t, srv)

		// When: the client greets twice
		peer.send("HELLO~test client")
		peer.send("HELLO~test client")

		// Then: the second greeting is refused
		peer.expect("HELLO~" + testDescription)
		peer.expect("ERROR~hello handshake was already done")
	})

	t.Run("Hello needs a description", func(t *testing.T) {
		peer := connectPeer(t, srv)

		peer.send("HELLO")
		peer.expect("ERROR~wrong arguments: HELLO expects 2 fields")

		peer.send("HELLO~test client")
		peer.expect("HELLO~" + testDescription)
	})

	t.Run("Malformed lines", func(t *testing.T) {
		peer := connectPeer(t, srv)

		peer.send("")
		peer.expect("ERROR~empty message")

		peer.send("SURRENDER")
		peer.expect("ERROR~unknown command: SURRENDER")
	})
}

func TestServer_Login(t *testing.T) {
	t.Run("Login needs the handshake", func(t *testing.T) {
		// Given: a connection without handshake
		peer := connectPeer(t, newTestServer(Options{}))

		// When: the client logs in
		peer.send("LOGIN~alice")

		// Then: it is refused
		peer.expect("ERROR~hello handshake not completed")
	})

	t.Run("Malformed logins", func(t *testing.T) {
		peer := connectPeer(t, newTestServer(Options{}))
		peer.send("HELLO~test client")
		peer.expect("HELLO~" + testDescription)

		peer.send("LOGIN~alice~bob")
		peer.expect("ERROR~wrong arguments: LOGIN expects 2 fields")

		peer.send("LOGIN~   ")
		peer.expect(`ERROR~invalid username: "   "`)

		peer.send("LOGIN~alice")
		peer.expect("LOGIN")

		peer.send("LOGIN~alice")
		peer.expect("ERROR~client already logged in")
	})

	t.Run("Names are unique", func(t *testing.T) {
		// Given: alice is logged in
		srv := newTestServer(Options{})
		alice, other := connectPeer(t, srv), connectPeer(t, srv)
		alice.login("alice")

		// When: another client takes the same name
		other.send("HELLO~test client")
		other.expect("HELLO~" + testDescription)
		other.send("LOGIN~alice")

		// Then: it is told so and may pick another one
		other.expect("ALREADYLOGGEDIN")

		other.send("LOGIN~bob")
		other.expect("LOGIN")
	})
}

func TestServer_List(t *testing.T) {
	srv := newTestServer(Options{})
	alice, bob := connectPeer(t, srv), connectPeer(t, srv)

	alice.send("LIST")
	alice.expect("ERROR~client not logged in yet")

	alice.login("alice")
	bob.login("bob")

	alice.send("LIST")
	alice.expect("LIST~alice~bob")

	alice.send("LIST~everyone")
	alice.expect("ERROR~wrong arguments: LIST expects 1 fields")
}

func TestServer_Queue(t *testing.T) {
	t.Run("Two queued clients start a game", func(t *testing.T) {
		// Given: two logged in clients
		srv := newTestServer(Options{})

		// When: both queue
		startGame(t, srv)

		// Then: a game runs and nobody waits
		stats := srv.Stats()
		assert.Equal(t, 1, stats.Games)
		assert.Equal(t, 0, stats.Queued)
		assert.Equal(t, 2, stats.LoggedIn)
		assert.Equal(t, 2, stats.Connected)
	})

	t.Run("Queue toggles", func(t *testing.T) {
		// Given: three logged in clients
		srv := newTestServer(Options{})
		alice, bob, carol := connectPeer(t, srv), connectPeer(t, srv), connectPeer(t, srv)
		alice.login("alice")
		bob.login("bob")
		carol.login("carol")

		// When: alice queues and leaves the queue again, then bob queues
		alice.send("QUEUE")
		alice.send("QUEUE")
		alice.sync()
		bob.send("QUEUE")
		bob.sync()

		// Then: only bob waits
		assert.Equal(t, Stats{Connected: 3, LoggedIn: 3, Queued: 1}, srv.Stats())
		alice.expectSilence()

		// When: carol queues
		carol.send("QUEUE")

		// Then: bob is black because he waited longest
		bob.expect("NEWGAME~bob~carol")
		carol.expect("NEWGAME~bob~carol")
	})

	t.Run("Queue needs a login and no running game", func(t *testing.T) {
		srv := newTestServer(Options{})
		stranger := connectPeer(t, srv)

		stranger.send("QUEUE")
		stranger.expect("ERROR~client not logged in yet")

		alice, _ := startGame(t, srv)

		alice.send("QUEUE")
		alice.expect("ERROR~client is already in a game")

		alice.send("QUEUE~now")
		alice.expect("ERROR~wrong arguments: QUEUE expects 1 fields")
	})

	t.Run("Disconnecting leaves the queue", func(t *testing.T) {
		srv := newTestServer(Options{})
		alice := connectPeer(t, srv)
		alice.login("alice")
		alice.send("QUEUE")
		alice.sync()

		alice.close()

		require.Eventually(t, func() bool {
			return srv.Stats() == Stats{}
		}, replyTimeout, 10*time.Millisecond)
	})
}

func TestServer_Move(t *testing.T) {
	t.Run("Only the current player moves", func(t *testing.T) {
		// Given: a running game with black to move
		alice, bob := startGame(t, newTestServer(Options{}))

		// When: white tries to move
		bob.send("MOVE~19")

		// Then: it is refused and the turn stays with black
		bob.expect("ERROR~it's not your turn")

		alice.send("MOVE~19")
		alice.expect("MOVE~19")
		bob.expect("MOVE~19")

		alice.send("MOVE~20")
		alice.expect("ERROR~it's not your turn")

		bob.send("MOVE~18")
		bob.expect("MOVE~18")
		alice.expect("MOVE~18")
	})

	t.Run("Moves are validated", func(t *testing.T) {
		srv := newTestServer(Options{})
		alice, bob := startGame(t, srv)

		alice.send("MOVE~0")
		alice.expect("ERROR~illegal move: 0")

		alice.send("MOVE~64")
		alice.expect("ERROR~illegal move: 64")

		alice.send("MOVE~-1")
		alice.expect("ERROR~illegal move: -1")

		alice.send(`MOVE~d3`)
		alice.expect(`ERROR~move is not an integer: "d3"`)

		alice.send("MOVE")
		alice.expect("ERROR~wrong arguments: MOVE expects 2 fields")

		bob.expectSilence()
	})

	t.Run("Move outside a game", func(t *testing.T) {
		peer := connectPeer(t, newTestServer(Options{}))
		peer.login("alice")

		peer.send("MOVE~19")
		peer.expect("ERROR~client not in a game")
	})

	t.Run("Pass and game over", func(t *testing.T) {
		// Given: a game where black has no legal move
		srv := newTestServer(Options{Configuration: stalledBlack()})
		alice, bob := startGame(t, srv)

		// When: black plays a cell anyway
		alice.send("MOVE~2")

		// Then: it must pass instead
		alice.expect("ERROR~illegal move: 2")

		// When: black passes
		alice.send("MOVE~64")

		// Then: both see the pass and white is to move
		alice.expect("MOVE~64")
		bob.expect("MOVE~64")

		// When: white plays the last move
		bob.send("MOVE~2")

		// Then: the game ends with white winning
		for _, peer := range []*testPeer{alice, bob} {
			peer.expect("MOVE~2")
			peer.expect("GAMEOVER~VICTORY~bob")
		}

		assert.Equal(t, 0, srv.Stats().Games)

		// And: both can play again
		alice.send("MOVE~19")
		alice.expect("ERROR~client not in a game")

		alice.send("QUEUE")
		alice.sync()
		bob.send("QUEUE")
		alice.expect("NEWGAME~alice~bob")
		bob.expect("NEWGAME~alice~bob")
	})
}

func TestServer_Disconnect(t *testing.T) {
	// Given: a running game
	srv := newTestServer(Options{})
	alice, bob := startGame(t, srv)

	alice.send("MOVE~19")
	alice.expect("MOVE~19")
	bob.expect("MOVE~19")

	// When: black drops the connection
	alice.close()

	// Then: white wins exactly once and is free again
	bob.expect("GAMEOVER~DISCONNECT~bob")
	bob.expectSilence()

	bob.send("LIST")
	bob.expect("LIST~bob")

	assert.Equal(t, Stats{Connected: 1, LoggedIn: 1}, srv.Stats())
}

func TestServer_ServeStopsWithContext(t *testing.T) {
	// Given: a served connection
	srv := newTestServer(Options{})
	serverSide, clientSide := net.Pipe()
	defer clientSide.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, NewLineConn(serverSide))
	}()

	require.Eventually(t, func() bool {
		return srv.Stats().Connected == 1
	}, replyTimeout, 10*time.Millisecond)

	// When: the context is cancelled
	cancel()

	// Then: Serve cleans up and returns without error
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(replyTimeout):
		t.Fatal("Serve did not return")
	}

	assert.Equal(t, Stats{}, srv.Stats())
}

type recordingMirror struct {
	mu       sync.Mutex
	events   []string
	finished []entity.Game
}

func (that *recordingMirror) record(event string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, event)
}

func (that *recordingMirror) PlayerLoggedIn(name string) {
	that.record("login " + name)
}

func (that *recordingMirror) PlayerLeft(name string) {
	that.record("left " + name)
}

func (that *recordingMirror) GameStarted(game entity.Game) {
	that.record("started " + game.Black + " " + game.White)
}

func (that *recordingMirror) GameUpdated(game entity.Game) {
	that.record("updated " + game.Turn)
}

func (that *recordingMirror) GameFinished(game entity.Game) {
	that.mu.Lock()
	that.finished = append(that.finished, game)
	that.mu.Unlock()

	that.record("finished " + game.Winner)
}

func (that *recordingMirror) snapshot() ([]string, []entity.Game) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return slices.Clone(that.events), slices.Clone(that.finished)
}

func TestServer_Mirror(t *testing.T) {
	// Given: a server reporting to a mirror
	mirror := &recordingMirror{}
	srv := newTestServer(Options{Configuration: stalledBlack(), Mirror: mirror})

	// When: a whole game is played and black leaves
	alice, bob := startGame(t, srv)

	alice.send("MOVE~64")
	alice.expect("MOVE~64")
	bob.expect("MOVE~64")

	bob.send("MOVE~2")
	bob.expect("MOVE~2")
	bob.expect("GAMEOVER~VICTORY~bob")

	alice.close()

	// Then: every step is reported in order
	require.Eventually(t, func() bool {
		events, _ := mirror.snapshot()
		return len(events) == 6
	}, replyTimeout, 10*time.Millisecond)

	events, finished := mirror.snapshot()
	assert.Equal(t, []string{
		"login alice",
		"login bob",
		"started alice bob",
		"updated bob",
		"finished bob",
		"left alice",
	}, events)

	require.Len(t, finished, 1)
	game := finished[0]
	assert.Equal(t, entity.StatusFinished, game.Status)
	assert.Equal(t, 2, game.Moves)
	assert.Equal(t, 3, game.Count(entity.MarkWhite))
	assert.Equal(t, 0, game.Count(entity.MarkBlack))
	assert.Equal(t, entity.MarkWhite, game.Board[1])
	assert.NotEmpty(t, game.ID)
}
