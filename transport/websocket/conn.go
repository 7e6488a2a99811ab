package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/othello-backend/internal/server"
)

// lineConn carries one protocol line per text message.
type lineConn struct {
	ctx    context.Context
	conn   *websocket.Conn
	remote string
}

func newLineConn(ctx context.Context, conn *websocket.Conn, remote string) server.Conn {
	return &lineConn{
		ctx:    ctx,
		conn:   conn,
		remote: remote,
	}
}

func (that *lineConn) ReadLine() (string, error) {
	for {
		messageType, data, err := that.conn.Read(that.ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, net.ErrClosed) || that.ctx.Err() != nil {
				return "", io.EOF
			}

			return "", fmt.Errorf("failed to read message: %w", err)
		}

		// binary frames carry no protocol lines
		if messageType != websocket.MessageText {
			continue
		}

		return strings.TrimRight(string(data), "\r\n"), nil
	}
}

func (that *lineConn) WriteLine(line string) error {
	if err := that.conn.Write(that.ctx, websocket.MessageText, []byte(line)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *lineConn) Close() error {
	return that.conn.Close(websocket.StatusNormalClosure, "")
}

func (that *lineConn) RemoteAddr() string {
	return that.remote
}
