package session

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
)

// Registry maps player-id ↔ Player record and tcp/udp peer address ↔
// player-id (spec.md §3/§4.4 component C4). All mutation is expected
// to go through the C7 dispatcher so no two components race (spec.md
// §4.4); Registry itself only guarantees its own internal consistency.
//
// Grounded on the teacher's ClientManager id↔conn indirection
// (udisondev-la2go/internal/gameserver/clients.go).
type Registry struct {
	mu          sync.RWMutex
	players     map[uuid.UUID]*Player
	tcpAddrToID map[string]uuid.UUID
	udpAddrToID map[string]uuid.UUID
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		players:     make(map[uuid.UUID]*Player),
		tcpAddrToID: make(map[string]uuid.UUID),
		udpAddrToID: make(map[string]uuid.UUID),
	}
}

// Insert registers a newly authenticated player (spec.md §4.4: "Insert
// on auth success").
func (r *Registry) Insert(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.ID()] = p
	if addr := p.TCPPeer(); addr != nil {
		r.tcpAddrToID[addr.String()] = p.ID()
	}
}

// Get returns the Player for id, if present.
func (r *Registry) Get(id uuid.UUID) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// ByTCPAddr resolves a player by its TCP peer address.
func (r *Registry) ByTCPAddr(addr net.Addr) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.tcpAddrToID[addr.String()]
	if !ok {
		return nil, false
	}
	p := r.players[id]
	return p, p != nil
}

// ByUDPAddr resolves a player by its UDP peer address.
func (r *Registry) ByUDPAddr(addr net.Addr) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.udpAddrToID[addr.String()]
	if !ok {
		return nil, false
	}
	p := r.players[id]
	return p, p != nil
}

// RebindTCP updates both the Player record and the address index for
// a Reconnect (spec.md §4.5).
func (r *Registry) RebindTCP(id uuid.UUID, addr net.Addr, writer TCPWriter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return fmt.Errorf("session: RebindTCP: no such player %s", id)
	}
	if old := p.TCPPeer(); old != nil {
		delete(r.tcpAddrToID, old.String())
	}
	p.RebindTCP(addr, writer)
	r.tcpAddrToID[addr.String()] = id
	return nil
}

// BindUDP records a player's UDP peer address on first-seen-id
// (spec.md §4.4/§4.6). No-op if the id is unknown (e.g. a spoofed or
// stale UDP frame — spec.md §9 item 5).
func (r *Registry) BindUDP(id uuid.UUID, addr net.Addr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return false
	}
	if old := p.UDPPeer(); old != nil {
		delete(r.udpAddrToID, old.String())
	}
	p.SetUDPPeer(addr)
	r.udpAddrToID[addr.String()] = id
	return true
}

// Remove deletes a player from both indices and the players map.
// Idempotent (spec.md §4.7 Disconnect: "Idempotent").
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return
	}
	if addr := p.TCPPeer(); addr != nil {
		delete(r.tcpAddrToID, addr.String())
	}
	if addr := p.UDPPeer(); addr != nil {
		delete(r.udpAddrToID, addr.String())
	}
	delete(r.players, id)
}

// IDs returns a snapshot of all currently registered player ids, used
// by the C8 tick loop to iterate without holding the registry lock for
// the whole tick.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
