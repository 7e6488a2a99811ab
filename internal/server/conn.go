package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Conn is a bidirectional stream of protocol lines.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

type lineConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

// NewLineConn wraps a stream connection into newline delimited lines.
func NewLineConn(conn net.Conn) Conn {
	return &lineConn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (that *lineConn) ReadLine() (string, error) {
	line, err := that.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}

		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (that *lineConn) WriteLine(line string) error {
	if _, err := io.WriteString(that.conn, line+"\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}

	return nil
}

func (that *lineConn) Close() error {
	return that.conn.Close()
}

func (that *lineConn) RemoteAddr() string {
	return that.conn.RemoteAddr().String()
}

// isClosed reports errors that mean the peer or the server ended the stream.
func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
