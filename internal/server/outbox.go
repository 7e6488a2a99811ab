package server

import "sync"

// outbox is the FIFO of lines waiting to be written to one connection.
// Pushing never blocks; a single writer drains it.
type outbox struct {
	mu     sync.Mutex
	lines  []string
	closed bool
	signal chan struct{}
}

func newOutbox() *outbox {
	return &outbox{
		signal: make(chan struct{}, 1),
	}
}

// push queues line. It reports false once the outbox is closed.
func (that *outbox) push(line string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	that.lines = append(that.lines, line)
	that.notify()

	return true
}

// close lets the writer finish after the queued lines.
func (that *outbox) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true
	that.notify()
}

func (that *outbox) notify() {
	select {
	case that.signal <- struct{}{}:
	default:
	}
}

// take removes every queued line.
func (that *outbox) take() ([]string, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	lines := that.lines
	that.lines = nil

	return lines, that.closed
}

// drain writes queued lines with write until the outbox is closed and empty
// or write fails.
func (that *outbox) drain(write func(line string) error) error {
	for {
		lines, closed := that.take()

		for _, line := range lines {
			if err := write(line); err != nil {
				return err
			}
		}

		if closed && len(lines) == 0 {
			return nil
		}

		if len(lines) == 0 {
			<-that.signal
		}
	}
}
