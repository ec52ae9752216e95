package gameserver

import (
	"log/slog"
	"net"

	"github.com/tilemmo/core/internal/session"
)

// UDPSender is the narrow handle the dispatcher/tick loop use to push
// unreliable server→client datagrams; satisfied by *net.UDPConn.
// Kept as an interface so tests can substitute a recording fake.
type UDPSender interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
}

// sendTCP pushes payload through a player's exclusive TCP write queue,
// logging (never failing the caller) if the queue rejects it — a dead
// write queue means a disconnect event is already in flight (spec.md
// §4.6).
func sendTCP(log *slog.Logger, p *session.Player, payload []byte) {
	w := p.TCPWriter()
	if w == nil {
		return
	}
	if err := w.Send(payload); err != nil {
		log.Debug("tcp send failed", "player", p.ID(), "err", err)
	}
}

// sendUDP writes payload to a player's bound UDP peer address. No-op if
// the player has never sent a valid UDP frame yet (spec.md §3 invariant
// 5) — there is nowhere to send to.
func sendUDP(log *slog.Logger, conn UDPSender, p *session.Player, payload []byte) {
	addr := p.UDPPeer()
	if addr == nil {
		return
	}
	if _, err := conn.WriteTo(payload, addr); err != nil {
		log.Debug("udp send failed", "player", p.ID(), "err", err)
	}
}

// broadcastTCPExcept pushes payload to every registered player's TCP
// queue except those for which skip returns true (nil skip for "no
// exception"), used for chat fan-out (spec.md Scenario 5).
func broadcastTCPExcept(log *slog.Logger, reg *session.Registry, payload []byte, skip func(*session.Player) bool) {
	for _, id := range reg.IDs() {
		p, ok := reg.Get(id)
		if !ok {
			continue
		}
		if skip != nil && skip(p) {
			continue
		}
		sendTCP(log, p, payload)
	}
}
