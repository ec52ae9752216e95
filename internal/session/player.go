// Package session implements the session registry (component C4,
// spec.md §3/§4.4): the Player record and the id↔address indices that
// back it. Grounded on the teacher's model.Player field set
// (udisondev-la2go/internal/model/player.go, trimmed to spec.md §3's
// fields) and its sync.RWMutex-guarded accessor style
// (internal/model/worldobject.go).
package session

import (
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/tilemmo/core/internal/spatial"
)

// TCPWriter is the exclusive per-session write handle (spec.md §3:
// "tcp_writer (exclusive)"). Implemented by gameserver's per-peer
// write-queue handle; kept as a narrow interface here so session has
// no dependency on gameserver's connection machinery.
type TCPWriter interface {
	// Send queues payload for writing to this peer's TCP connection.
	// Returns an error if the queue is closed or full; it does not
	// block waiting for space.
	Send(payload []byte) error
}

// Player is the server-side session record (spec.md §3). Created on
// successful Init, destroyed on Disconnect, mutated only by the C7
// dispatcher and C9/C10 (holding the world lock throughout).
type Player struct {
	mu sync.RWMutex

	id        uuid.UUID
	username  string
	location  spatial.Location
	direction spatial.Direction
	hp        int32
	maxHP     int32
	level     int32

	clientRequestID int64
	isDead          bool

	tcpPeer   net.Addr
	tcpWriter TCPWriter
	udpPeer   net.Addr // nil until first valid UDP frame (spec.md §3 invariant 5)
}

// NewPlayer constructs a freshly authenticated Player (spec.md §4.5:
// hp = max_hp = 100, direction = South, level = 1, is_dead = false).
func NewPlayer(id uuid.UUID, username string, loc spatial.Location, maxHP, level int32, tcpPeer net.Addr, writer TCPWriter) *Player {
	return &Player{
		id:        id,
		username:  username,
		location:  loc,
		direction: spatial.South,
		hp:        maxHP,
		maxHP:     maxHP,
		level:     level,
		tcpPeer:   tcpPeer,
		tcpWriter: writer,
	}
}

func (p *Player) ID() uuid.UUID { return p.id }

func (p *Player) Username() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.username
}

func (p *Player) Location() spatial.Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.location
}

func (p *Player) Direction() spatial.Direction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.direction
}

// SetLocationAndDirection commits a move atomically (spec.md §4.7).
func (p *Player) SetLocationAndDirection(loc spatial.Location, dir spatial.Direction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = loc
	p.direction = dir
}

func (p *Player) HP() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hp
}

func (p *Player) MaxHP() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxHP
}

func (p *Player) IsDead() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isDead
}

func (p *Player) Level() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// ClientRequestID returns the last accepted move's request id
// (spec.md §3 invariant 3: strictly non-decreasing).
func (p *Player) ClientRequestID() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clientRequestID
}

func (p *Player) SetClientRequestID(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientRequestID = id
}

func (p *Player) TCPPeer() net.Addr {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tcpPeer
}

func (p *Player) TCPWriter() TCPWriter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tcpWriter
}

// RebindTCP replaces the tcp peer/writer on Reconnect (spec.md §4.5).
func (p *Player) RebindTCP(peer net.Addr, writer TCPWriter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tcpPeer = peer
	p.tcpWriter = writer
}

func (p *Player) UDPPeer() net.Addr {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.udpPeer
}

// SetUDPPeer binds the UDP peer address on first valid UDP frame
// (spec.md §3 invariant 5, §4.6).
func (p *Player) SetUDPPeer(addr net.Addr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.udpPeer = addr
}

// DamageResult is the outcome of TakeDamage (spec.md §4.10).
type DamageResult int

const (
	Damaged DamageResult = iota
	Died
	AlreadyDead
)

// TakeDamage applies saturating damage to hp (spec.md §4.10, §3
// invariant 4). Caller is responsible for placing the corpse marker
// and emitting PlayerDeath/PlayerHealthUpdate — TakeDamage only
// mutates the record and reports what happened.
func (p *Player) TakeDamage(d int32) DamageResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isDead {
		return AlreadyDead
	}
	if d >= p.hp {
		p.hp = 0
		p.isDead = true
		return Died
	}
	p.hp -= d
	return Damaged
}

// Respawn resets hp and location, clearing death state (spec.md
// §4.7 Respawn event). Allowed only if currently dead; returns false
// otherwise.
func (p *Player) Respawn(loc spatial.Location) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.isDead {
		return false
	}
	p.isDead = false
	p.hp = p.maxHP
	p.location = loc
	return true
}
