package session

import (
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemmo/core/internal/spatial"
)

type fakeWriter struct{ sent [][]byte }

func (f *fakeWriter) Send(payload []byte) error {
	f.sent = append(f.sent, payload)
	return nil
}

func newTestPlayer(t *testing.T, addr string) *Player {
	t.Helper()
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	require.NoError(t, err)
	return NewPlayer(uuid.New(), "wanderer", spatial.Location{X: 1, Y: 1, Z: 0}, 100, 1, tcpAddr, &fakeWriter{})
}

func TestRegistry_InsertGetByTCPAddr(t *testing.T) {
	r := NewRegistry()
	p := newTestPlayer(t, "127.0.0.1:1111")
	r.Insert(p)

	got, ok := r.Get(p.ID())
	require.True(t, ok)
	assert.Same(t, p, got)

	byAddr, ok := r.ByTCPAddr(p.TCPPeer())
	require.True(t, ok)
	assert.Same(t, p, byAddr)
}

func TestRegistry_BindUDP(t *testing.T) {
	r := NewRegistry()
	p := newTestPlayer(t, "127.0.0.1:1111")
	r.Insert(p)

	udpAddr, err := net.ResolveUDPAddr("udp", "127.0.0.1:2222")
	require.NoError(t, err)

	assert.False(t, r.BindUDP(uuid.New(), udpAddr), "unknown id must not bind")
	assert.True(t, r.BindUDP(p.ID(), udpAddr))

	got, ok := r.ByUDPAddr(udpAddr)
	require.True(t, ok)
	assert.Equal(t, p.ID(), got.ID())
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	p := newTestPlayer(t, "127.0.0.1:1111")
	r.Insert(p)

	r.Remove(p.ID())
	_, ok := r.Get(p.ID())
	assert.False(t, ok)

	// Second removal must be a no-op, not a panic/error.
	assert.NotPanics(t, func() { r.Remove(p.ID()) })
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RebindTCP(t *testing.T) {
	r := NewRegistry()
	p := newTestPlayer(t, "127.0.0.1:1111")
	r.Insert(p)

	newAddr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:3333")
	require.NoError(t, err)
	newWriter := &fakeWriter{}

	require.NoError(t, r.RebindTCP(p.ID(), newAddr, newWriter))

	_, ok := r.ByTCPAddr(newAddr)
	assert.True(t, ok)
	assert.Same(t, newWriter, p.TCPWriter())
}

func TestRegistry_RebindTCP_UnknownID(t *testing.T) {
	r := NewRegistry()
	addr, _ := net.ResolveTCPAddr("tcp", "127.0.0.1:1111")
	err := r.RebindTCP(uuid.New(), addr, &fakeWriter{})
	assert.Error(t, err)
}
