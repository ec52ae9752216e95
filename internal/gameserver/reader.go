// Reader tasks (component C6, spec.md §4.6): one goroutine per TCP
// connection translating frames into Events, plus one shared UDP
// reader goroutine for the whole server. Neither ever touches World
// directly — they only publish to the dispatcher's channel, which is
// what keeps C7 the single point of mutation.
package gameserver

import (
	"context"
	"log/slog"
	"net"

	"github.com/tilemmo/core/internal/protocol"
)

// runTCPReadLoop reads length-prefixed frames from conn until it
// errors or the connection is closed, translating each into an Event.
// On read failure it emits exactly one EventDisconnect and returns
// (spec.md §4.6: "On read = 0 or error, emits a Disconnect event").
func runTCPReadLoop(ctx context.Context, log *slog.Logger, conn net.Conn, events chan<- Event) {
	defer func() {
		select {
		case events <- EventDisconnect{TCPAddr: conn.RemoteAddr()}:
		case <-ctx.Done():
		}
	}()

	for {
		frame, err := protocol.ReadFrame(conn)
		if err != nil {
			log.Debug("tcp reader: connection closed", "remote", conn.RemoteAddr(), "err", err)
			return
		}

		msg, err := protocol.DecodeTCPClient(frame)
		if err != nil {
			log.Debug("tcp reader: decode failed, dropping frame", "remote", conn.RemoteAddr(), "err", err)
			continue
		}

		ev, ok := tcpEventFor(conn, msg)
		if !ok {
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
		if _, isDisconnect := msg.(protocol.Disconnect); isDisconnect {
			return
		}
	}
}

func tcpEventFor(conn net.Conn, msg any) (Event, bool) {
	switch m := msg.(type) {
	case protocol.ChatMsg:
		return EventChat{TCPAddr: conn.RemoteAddr(), Body: m.Body}, true
	case protocol.Respawn:
		return EventRespawn{PlayerID: m.PlayerID}, true
	case protocol.Disconnect:
		return EventDisconnect{TCPAddr: conn.RemoteAddr()}, true
	default:
		return nil, false
	}
}

// runUDPReadLoop reads datagrams from conn until ctx is canceled or the
// socket errors, translating each into an EventUDPBind (to (re)bind the
// sender's address) followed by the datagram's own event. Unknown or
// garbled datagrams are dropped silently (spec.md §9 item 5: UDP has no
// authentication — the registry's BindUDP is a no-op for unknown ids).
func runUDPReadLoop(ctx context.Context, log *slog.Logger, conn *net.UDPConn, events chan<- Event) error {
	buf := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}

		msg, err := protocol.DecodeUDPClient(buf[:n])
		if err != nil {
			log.Debug("udp reader: decode failed, dropping datagram", "remote", addr, "err", err)
			continue
		}

		for _, ev := range udpEventsFor(addr, msg) {
			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func udpEventsFor(addr net.Addr, msg any) []Event {
	switch m := msg.(type) {
	case protocol.Ping:
		return []Event{
			EventUDPBind{PlayerID: m.ID, UDPAddr: addr},
			EventPing{PlayerID: m.ID, RequestID: m.RequestID},
		}
	case protocol.PlayerMoveClient:
		return []Event{
			EventUDPBind{PlayerID: m.ID, UDPAddr: addr},
			EventPlayerMove{PlayerID: m.ID, RequestID: m.RequestID, Location: m.Location},
		}
	case protocol.MoveObject:
		return []Event{
			EventUDPBind{PlayerID: m.ID, UDPAddr: addr},
			EventMoveObject{From: m.From, To: m.To},
		}
	default:
		return nil
	}
}
