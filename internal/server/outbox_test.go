package server

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutbox(t *testing.T) {
	t.Run("Drains in order until closed", func(t *testing.T) {
		// Given: an outbox with queued lines
		box := newOutbox()
		require.True(t, box.push("first"))
		require.True(t, box.push("second"))

		done := make(chan []string)
		go func() {
			var written []string
			_ = box.drain(func(line string) error {
				written = append(written, line)
				return nil
			})
			done <- written
		}()

		// When: more lines arrive and the outbox is closed
		require.True(t, box.push("third"))
		box.close()

		// Then: every line is written once, in order
		assert.Equal(t, []string{"first", "second", "third"}, <-done)
		assert.False(t, box.push("late"))
	})

	t.Run("Stops on a write failure", func(t *testing.T) {
		errBroken := errors.New("broken pipe")

		box := newOutbox()
		box.push("first")
		box.push("second")

		calls := 0
		err := box.drain(func(string) error {
			calls++
			return errBroken
		})

		require.ErrorIs(t, err, errBroken)
		assert.Equal(t, 1, calls)
	})
}

func TestLineConn(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	server, client := NewLineConn(serverSide), NewLineConn(clientSide)

	go func() {
		_ = client.WriteLine("HELLO~windows client\r")
		_ = client.WriteLine("LIST")
	}()

	line, err := server.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "HELLO~windows client", line)

	line, err = server.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "LIST", line)

	require.NoError(t, client.Close())

	_, err = server.ReadLine()
	require.Error(t, err)
	assert.True(t, isClosed(err))
}
