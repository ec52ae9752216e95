// Event dispatcher (component C7, spec.md §4.7): the single consumer
// that drains the event channel C6's reader tasks feed into and is the
// only place that ever mutates World's three shared resources outside
// the tick loop. Grounded on the teacher's single-goroutine command
// processor pattern (udisondev-la2go/internal/gameserver/server.go
// serializes all inbound packets through one dispatch loop rather than
// handling them on each connection's own goroutine).
package gameserver

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/session"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

// Dispatcher owns the event channel and the World it mutates.
type Dispatcher struct {
	log     *slog.Logger
	world   *World
	udpConn UDPSender
	events  chan Event
}

// NewDispatcher creates a Dispatcher with a buffered event channel;
// buffer size follows the teacher's inbound-queue sizing
// (udisondev-la2go/internal/gameserver/server.go uses a bounded
// channel per listener to apply backpressure rather than unbounded
// growth under load).
func NewDispatcher(log *slog.Logger, world *World, udpConn UDPSender) *Dispatcher {
	return &Dispatcher{
		log:     log,
		world:   world,
		udpConn: udpConn,
		events:  make(chan Event, 1024),
	}
}

// Events returns the channel C6 reader tasks publish to.
func (d *Dispatcher) Events() chan<- Event { return d.events }

// Run drains the event channel until ctx is canceled or the channel is
// closed, processing exactly one event at a time (spec.md §4.7: "single
// consumer" — this is what makes every other component's accounting
// linearizable).
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-d.events:
			if !ok {
				return nil
			}
			d.dispatch(ev)
		}
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	d.world.Lock()
	defer d.world.Unlock()

	switch e := ev.(type) {
	case EventInit:
		d.handleInit(e)
	case EventReconnect:
		d.handleReconnect(e)
	case EventUDPBind:
		d.world.Registry.BindUDP(e.PlayerID, e.UDPAddr)
	case EventPlayerMove:
		d.handlePlayerMove(e)
	case EventMoveObject:
		d.handleMoveObject(e)
	case EventPing:
		d.handlePing(e)
	case EventChat:
		d.handleChat(e)
	case EventRespawn:
		d.handleRespawn(e)
	case EventDisconnect:
		d.handleDisconnect(e)
	default:
		d.log.Warn("dispatcher: unknown event type", "type", e)
	}
}

func (d *Dispatcher) handleInit(e EventInit) {
	if len(e.Username) < worldconfig.MinUsernameLength {
		e.Reply <- InitResult{Err: errUsernameTooShort}
		return
	}
	for _, id := range d.world.Registry.IDs() {
		if other, ok := d.world.Registry.Get(id); ok && other.Username() == e.Username {
			e.Reply <- InitResult{Err: dispatchError("gameserver: username already in use")}
			return
		}
	}

	spawn, ok := findSpawnCell(d.world.Map)
	if !ok {
		e.Reply <- InitResult{Err: errNoSpawnCell}
		return
	}

	id := uuid.New()
	p := session.NewPlayer(id, e.Username, spawn, worldconfig.DefaultMaxHP, worldconfig.DefaultLevel, e.TCPAddr, e.TCPWriter)
	d.world.Registry.Insert(p)
	_ = d.world.Map.Set(spawn, spatial.MapElement{Kind: spatial.PlayerOccupant, PlayerID: id})

	d.log.Info("player initialized", "player", id, "username", e.Username, "at", spawn)
	e.Reply <- InitResult{PlayerID: id, Location: spawn, MaxHP: worldconfig.DefaultMaxHP, Level: worldconfig.DefaultLevel}
}

func (d *Dispatcher) handleReconnect(e EventReconnect) {
	if _, ok := d.world.Registry.Get(e.PlayerID); !ok {
		e.Reply <- ReconnectResult{Err: errNoSuchSession}
		return
	}
	if err := d.world.Registry.RebindTCP(e.PlayerID, e.TCPAddr, e.TCPWriter); err != nil {
		e.Reply <- ReconnectResult{Err: err}
		return
	}
	d.log.Info("player reconnected", "player", e.PlayerID)
	e.Reply <- ReconnectResult{}
}

// handlePlayerMove drops moves from unknown or dead players and moves
// whose request id is not greater than the last accepted one (spec.md
// §3 invariant 3), then commits the move. There is no collision check:
// a move into an occupied cell is committed. A destination outside the
// map is rejected, because MmoMap.Set cannot record it.
func (d *Dispatcher) handlePlayerMove(e EventPlayerMove) {
	p, ok := d.world.Registry.Get(e.PlayerID)
	if !ok || p.IsDead() {
		return
	}
	if e.RequestID <= p.ClientRequestID() {
		return // stale or replayed — drop silently
	}

	from := p.Location()
	dir := spatial.DirectionFromDelta(from, e.Location)

	if err := d.world.Map.Set(e.Location, spatial.MapElement{Kind: spatial.PlayerOccupant, PlayerID: p.ID()}); err != nil {
		d.log.Debug("move rejected: destination out of bounds", "player", p.ID(), "to", e.Location, "err", err)
		return
	}
	d.world.Map.Clear(from)

	p.SetLocationAndDirection(e.Location, dir)
	p.SetClientRequestID(e.RequestID)

	sendUDP(d.log, d.udpConn, p, protocol.PlayerMoveServer{Location: e.Location, RequestID: e.RequestID}.Encode())
}

// handleMoveObject applies a client-originated object relocation
// (spec.md §4.7); if the source cell holds nothing (or the destination
// is occupied) a warning is logged and nothing changes.
func (d *Dispatcher) handleMoveObject(e EventMoveObject) {
	if err := d.world.Objects.MoveObject(e.From, e.To); err != nil {
		d.log.Warn("move object rejected", "from", e.From, "to", e.To, "err", err)
		return
	}
	d.log.Debug("object moved", "from", e.From, "to", e.To)
}

func (d *Dispatcher) handlePing(e EventPing) {
	p, ok := d.world.Registry.Get(e.PlayerID)
	if !ok {
		return
	}
	sendUDP(d.log, d.udpConn, p, protocol.Pong{RequestID: e.RequestID}.Encode())
}

// handleChat fans a chat message out to every other connected player
// (spec.md §4.7, Scenario 5: "B and C receive … A does not" — the
// sender never gets its own message echoed back).
func (d *Dispatcher) handleChat(e EventChat) {
	sender, ok := d.world.Registry.ByTCPAddr(e.TCPAddr)
	if !ok {
		return
	}
	payload := protocol.ChatMsgServer{Username: sender.Username(), Body: e.Body}.Encode()
	broadcastTCPExcept(d.log, d.world.Registry, payload, func(p *session.Player) bool {
		return p.ID() == sender.ID()
	})
}

func (d *Dispatcher) handleRespawn(e EventRespawn) {
	p, ok := d.world.Registry.Get(e.PlayerID)
	if !ok {
		return
	}
	wasDead := p.IsDead()
	if err := respawnPlayer(d.log, d.world, p); err != nil {
		d.log.Warn("respawn failed", "player", e.PlayerID, "err", err)
		return
	}
	if wasDead && !p.IsDead() {
		sendUDP(d.log, d.udpConn, p, protocol.PlayerHealthUpdate{HP: p.HP()}.Encode())
	}
}

// handleDisconnect removes the session and its map occupancy
// (spec.md §4.7: "Idempotent").
func (d *Dispatcher) handleDisconnect(e EventDisconnect) {
	p, ok := d.world.Registry.ByTCPAddr(e.TCPAddr)
	if !ok {
		return
	}
	d.world.Map.Clear(p.Location())
	d.world.Registry.Remove(p.ID())
	if w := p.TCPWriter(); w != nil {
		if wc, ok := w.(WriteCloser); ok {
			_ = wc.Close()
		}
	}
	d.log.Info("player disconnected", "player", p.ID())
}

var (
	errUsernameTooShort = dispatchError("gameserver: username shorter than minimum length")
	errNoSuchSession    = dispatchError("gameserver: no such session")
)

type dispatchError string

func (e dispatchError) Error() string { return string(e) }

