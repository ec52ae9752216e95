// TCP listener and authenticator (component C5, spec.md §4.5): accepts
// connections, performs the Init/Reconnect handshake synchronously with
// the dispatcher (via a reply channel), then hands the connection off
// to the C6 read loop for its session lifetime.
//
// Grounded on the teacher's accept-then-handshake-then-hand-off
// connection lifecycle (udisondev-la2go/internal/gameserver/server.go
// Serve/handleConn).
package gameserver

import (
	"context"
	"log/slog"
	"net"

	"github.com/tilemmo/core/internal/protocol"
)

// Listener wraps a net.Listener and feeds the dispatcher's event
// channel for every accepted connection.
type Listener struct {
	log    *slog.Logger
	ln     net.Listener
	events chan<- Event
}

// NewListener wraps an already-bound net.Listener (composition root
// owns the Listen call so it can choose the network/address and apply
// any socket options).
func NewListener(log *slog.Logger, ln net.Listener, events chan<- Event) *Listener {
	return &Listener{log: log, ln: ln, events: events}
}

// Serve accepts connections until ctx is canceled or the listener is
// closed. Each connection is handled on its own goroutine.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}
		go l.handleConn(ctx, conn)
	}
}

func (l *Listener) handleConn(ctx context.Context, conn net.Conn) {
	frame, err := protocol.ReadFrame(conn)
	if err != nil {
		l.log.Debug("listener: handshake read failed", "remote", conn.RemoteAddr(), "err", err)
		_ = conn.Close()
		return
	}

	msg, err := protocol.DecodeTCPClient(frame)
	if err != nil {
		l.log.Debug("listener: handshake decode failed", "remote", conn.RemoteAddr(), "err", err)
		_ = conn.Close()
		return
	}

	writer := newTCPConn(l.log, conn)

	var playerID interface{ String() string }
	switch m := msg.(type) {
	case protocol.Init:
		reply := make(chan InitResult, 1)
		l.events <- EventInit{Username: m.Username, TCPAddr: conn.RemoteAddr(), TCPWriter: writer, Reply: reply}
		result := <-reply
		if result.Err != nil {
			// Written directly (nothing is queued on the pump yet) so the
			// reply reaches the peer before Close tears the socket down.
			_ = protocol.WriteFrame(conn, protocol.InitErr{Reason: result.Err.Error()}.Encode())
			_ = writer.Close()
			return
		}
		_ = writer.Send(protocol.InitOk{Player: protocol.InitPlayer{
			PlayerID: result.PlayerID,
			Username: m.Username,
			Location: result.Location,
			HP:       result.MaxHP,
			MaxHP:    result.MaxHP,
			Level:    result.Level,
		}}.Encode())
		playerID = result.PlayerID

	case protocol.Reconnect:
		reply := make(chan ReconnectResult, 1)
		l.events <- EventReconnect{PlayerID: m.PlayerID, TCPAddr: conn.RemoteAddr(), TCPWriter: writer, Reply: reply}
		result := <-reply
		if result.Err != nil {
			_ = protocol.WriteFrame(conn, protocol.InitErr{Reason: result.Err.Error()}.Encode())
			_ = writer.Close()
			return
		}
		_ = writer.Send(protocol.ReconnectOk{}.Encode())
		playerID = m.PlayerID

	default:
		l.log.Debug("listener: first frame was not Init/Reconnect", "remote", conn.RemoteAddr())
		_ = writer.Close()
		return
	}

	l.log.Info("listener: session established", "player", playerID, "remote", conn.RemoteAddr())
	runTCPReadLoop(ctx, l.log, conn, l.events)
}
