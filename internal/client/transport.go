package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// Session owns the client's TCP and UDP connections, the Reconciler
// and AutoPather, and the reconnect policy (spec.md §4.5/§9 item 3:
// server-authoritative reconnect with a bounded retry loop falling
// back to a fresh Init on InitErr).
type Session struct {
	log *slog.Logger

	tcpAddr string
	udpAddr string

	tcp net.Conn
	udp *net.UDPConn

	playerID uuid.UUID
	username string

	Recon *Reconciler
	Path  *AutoPather

	requestID int64
}

// NewSession creates an unconnected Session for the given server
// addresses and username.
func NewSession(log *slog.Logger, tcpAddr, udpAddr, username string) *Session {
	return &Session{log: log, tcpAddr: tcpAddr, udpAddr: udpAddr, username: username}
}

// Connect performs the full handshake: dial TCP, send Init, wait for
// InitOk/InitErr, then dial UDP (spec.md §4.5).
func (s *Session) Connect(ctx context.Context) error {
	conn, err := net.Dial("tcp", s.tcpAddr)
	if err != nil {
		return fmt.Errorf("client: dialing tcp: %w", err)
	}
	s.tcp = conn

	if err := protocol.WriteFrame(conn, protocol.Init{Username: s.username}.Encode()); err != nil {
		return fmt.Errorf("client: sending Init: %w", err)
	}

	frame, err := protocol.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("client: reading handshake reply: %w", err)
	}
	msg, err := protocol.DecodeTCPServer(frame)
	if err != nil {
		return fmt.Errorf("client: decoding handshake reply: %w", err)
	}

	switch m := msg.(type) {
	case protocol.InitErr:
		return fmt.Errorf("client: server rejected Init: %s", m.Reason)
	case protocol.InitOk:
		s.playerID = m.Player.PlayerID
		s.Recon = NewReconciler(m.Player.Location)
		s.Path = NewAutoPather(s.Recon)
	default:
		return fmt.Errorf("client: unexpected handshake reply %T", msg)
	}

	udpConn, err := net.Dial("udp", s.udpAddr)
	if err != nil {
		return fmt.Errorf("client: dialing udp: %w", err)
	}
	s.udp = udpConn.(*net.UDPConn)

	return nil
}

// Reconnect re-establishes the TCP session using PlayerID (spec.md
// §4.5 Reconnect flow), bounded by worldconfig.MaxConnectionRetries at
// worldconfig.ReconnectInterval apart. Falls back to a fresh Connect
// (new Init) if the server reports no such session, per the resolved
// Open Question 3 policy (spec.md §9 item 3).
func (s *Session) Reconnect(ctx context.Context) error {
	for attempt := 0; attempt < worldconfig.MaxConnectionRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := net.Dial("tcp", s.tcpAddr)
		if err != nil {
			s.log.Warn("reconnect attempt failed", "attempt", attempt+1, "err", err)
			sleep(ctx, worldconfig.ReconnectInterval)
			continue
		}

		if err := protocol.WriteFrame(conn, protocol.Reconnect{PlayerID: s.playerID}.Encode()); err != nil {
			_ = conn.Close()
			sleep(ctx, worldconfig.ReconnectInterval)
			continue
		}
		frame, err := protocol.ReadFrame(conn)
		if err != nil {
			_ = conn.Close()
			sleep(ctx, worldconfig.ReconnectInterval)
			continue
		}
		msg, err := protocol.DecodeTCPServer(frame)
		if err != nil {
			_ = conn.Close()
			sleep(ctx, worldconfig.ReconnectInterval)
			continue
		}

		switch msg.(type) {
		case protocol.ReconnectOk:
			s.tcp = conn
			return nil
		case protocol.InitErr:
			_ = conn.Close()
			s.log.Info("reconnect rejected, falling back to fresh Init")
			return s.Connect(ctx)
		default:
			_ = conn.Close()
		}
	}
	return fmt.Errorf("client: exhausted %d reconnect attempts", worldconfig.MaxConnectionRetries)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// SendMove sends a PlayerMoveClient with the next monotonic request id
// and returns the id used (spec.md §3 invariant 3).
func (s *Session) SendMove(loc spatial.Location) (int64, error) {
	s.requestID++
	msg := protocol.PlayerMoveClient{ID: s.playerID, RequestID: s.requestID, Location: loc}
	_, err := s.udp.Write(msg.Encode())
	return s.requestID, err
}

// SendPing sends a latency probe.
func (s *Session) SendPing() (int64, error) {
	s.requestID++
	msg := protocol.Ping{ID: s.playerID, RequestID: s.requestID}
	_, err := s.udp.Write(msg.Encode())
	return s.requestID, err
}

// SendChat sends a chat message over TCP.
func (s *Session) SendChat(body string) error {
	return protocol.WriteFrame(s.tcp, protocol.ChatMsg{Body: body}.Encode())
}

// SendRespawn requests a respawn over TCP.
func (s *Session) SendRespawn() error {
	return protocol.WriteFrame(s.tcp, protocol.Respawn{PlayerID: s.playerID}.Encode())
}

// RunUDPReadLoop decodes incoming UDP datagrams and feeds them to the
// Reconciler until ctx is canceled or the socket errors.
func (s *Session) RunUDPReadLoop(ctx context.Context) error {
	buf := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := s.udp.Read(buf)
		if err != nil {
			return fmt.Errorf("client: udp read: %w", err)
		}
		msg, err := protocol.DecodeUDPServer(buf[:n])
		if err != nil {
			s.log.Debug("client: dropping undecodable udp datagram", "err", err)
			continue
		}
		s.Recon.ApplyUDPServer(msg)
	}
}

// RunTCPReadLoop decodes incoming TCP frames (chat, respawn ack) until
// ctx is canceled or the connection errors.
func (s *Session) RunTCPReadLoop(ctx context.Context, onChat func(username, body string)) error {
	for {
		frame, err := protocol.ReadFrame(s.tcp)
		if err != nil {
			return fmt.Errorf("client: tcp read: %w", err)
		}
		msg, err := protocol.DecodeTCPServer(frame)
		if err != nil {
			s.log.Debug("client: dropping undecodable tcp frame", "err", err)
			continue
		}
		switch m := msg.(type) {
		case protocol.ChatMsgServer:
			if onChat != nil {
				onChat(m.Username, m.Body)
			}
		case protocol.RespawnOk:
			s.Recon.ApplyRespawnOk()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
