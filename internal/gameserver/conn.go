package gameserver

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/tilemmo/core/internal/protocol"
)

// tcpConn is the per-connection exclusive TCP write queue (spec.md §3:
// "tcp_writer (exclusive)"), satisfying both session.TCPWriter and
// WriteCloser. Grounded on the teacher's per-client sendCh + writePump
// goroutine (udisondev-la2go/internal/gameserver/client.go) — a single
// writer goroutine owns the socket so concurrent Send calls from the
// dispatcher and the tick loop never interleave partial frames.
type tcpConn struct {
	log  *slog.Logger
	conn net.Conn
	send chan []byte
	done chan struct{}
}

// newTCPConn starts the write pump goroutine and returns the handle.
func newTCPConn(log *slog.Logger, conn net.Conn) *tcpConn {
	c := &tcpConn{
		log:  log,
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *tcpConn) writePump() {
	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			if err := protocol.WriteFrame(c.conn, payload); err != nil {
				c.log.Debug("tcp write failed, closing connection", "remote", c.conn.RemoteAddr(), "err", err)
				_ = c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send queues payload for the write pump. Non-blocking: a full queue
// means the peer is reading too slowly, which we treat the same as a
// dead connection (spec.md §4.6 does not define backpressure policy,
// so this follows the teacher's drop-and-close-on-full-queue choice
// in udisondev-la2go/internal/gameserver/client.go).
func (c *tcpConn) Send(payload []byte) error {
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return fmt.Errorf("gameserver: connection closed")
	default:
		_ = c.Close()
		return fmt.Errorf("gameserver: send queue full, closing connection")
	}
}

// Close stops the write pump and closes the underlying socket. Safe to
// call more than once.
func (c *tcpConn) Close() error {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	return c.conn.Close()
}
