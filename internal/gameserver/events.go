package gameserver

import (
	"net"

	"github.com/google/uuid"

	"github.com/tilemmo/core/internal/spatial"
)

// Event is the internal, transport-agnostic representation every
// reader task (C6) synthesizes from a decoded frame and forwards to
// the single-consumer dispatcher (C7, spec.md §4.7) over the channel
// returned by Dispatcher.Events. This is the "sc_rx" channel spec.md
// names in the C7 row of its component table.
type Event interface{ isEvent() }

// EventPlayerMove is a client-originated move (UDP).
type EventPlayerMove struct {
	PlayerID  uuid.UUID
	RequestID int64
	Location  spatial.Location
}

// EventMoveObject is a client-originated object move (UDP); spec.md
// does not bound who may issue this — the dispatcher only logs a
// warning if From holds no object (spec.md §4.7).
type EventMoveObject struct {
	From, To spatial.Location
}

// EventPing is a UDP latency probe.
type EventPing struct {
	PlayerID  uuid.UUID
	RequestID int64
}

// EventChat is a TCP chat message from a connected player, identified
// by its TCP peer address (the dispatcher resolves the sender via
// Registry.ByTCPAddr, matching how EventDisconnect resolves identity).
type EventChat struct {
	TCPAddr net.Addr
	Body    string
}

// EventRespawn is a TCP respawn request.
type EventRespawn struct {
	PlayerID uuid.UUID
}

// EventDisconnect is synthesized by a TCP reader task on read error or
// clean close (spec.md §4.6), identified by whichever address the
// reader task owns (TCP peer address — the dispatcher resolves the
// player id from it).
type EventDisconnect struct {
	TCPAddr net.Addr
}

// EventInit is synthesized by the TCP authenticator (C5) once a new
// connection has passed validation; the dispatcher performs the
// actual Registry insert so all world mutation funnels through one
// place (spec.md §4.7's "single consumer" guarantee).
type EventInit struct {
	Username  string
	TCPAddr   net.Addr
	TCPWriter WriteCloser
	Reply     chan<- InitResult
}

// EventReconnect is synthesized by C5 for a Reconnect(id) frame.
type EventReconnect struct {
	PlayerID  uuid.UUID
	TCPAddr   net.Addr
	TCPWriter WriteCloser
	Reply     chan<- ReconnectResult
}

// EventUDPBind is synthesized by the UDP reader ahead of every decoded
// datagram's own event, so the sender's address is (re)bound to the
// id it carries (spec.md §4.6).
type EventUDPBind struct {
	PlayerID uuid.UUID
	UDPAddr  net.Addr
}

func (EventPlayerMove) isEvent()  {}
func (EventMoveObject) isEvent()  {}
func (EventPing) isEvent()        {}
func (EventChat) isEvent()        {}
func (EventRespawn) isEvent()     {}
func (EventDisconnect) isEvent()  {}
func (EventInit) isEvent()        {}
func (EventReconnect) isEvent()   {}
func (EventUDPBind) isEvent()     {}

// InitResult is the outcome of an EventInit handed back to C5 so it
// can send InitOk/InitErr on the TCP connection.
type InitResult struct {
	PlayerID uuid.UUID
	Location spatial.Location
	MaxHP    int32
	Level    int32
	Err      error // non-nil => reject (username too short / taken)
}

// ReconnectResult is the outcome of an EventReconnect.
type ReconnectResult struct {
	Err error // non-nil => no such session (spec.md §4.5/§9 item 3)
}

// WriteCloser is the narrow per-connection write handle C5/C6 install
// into session.Player (satisfies session.TCPWriter) and can also tear
// down on disconnect.
type WriteCloser interface {
	Send(payload []byte) error
	Close() error
}
