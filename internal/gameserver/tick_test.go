package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/protocol"
	"github.com/tilemmo/core/internal/spatial"
	"github.com/tilemmo/core/internal/worldconfig"
)

func TestTick_SendsAuthoritativeSelfMoveEveryTick(t *testing.T) {
	w := NewWorld()
	conn := newFakeUDPSender()
	d := NewDispatcher(testLogger(), w, conn)

	reply := make(chan InitResult, 1)
	d.dispatch(EventInit{Username: "alice", TCPAddr: tcpAddr(t, "127.0.0.1:1111"), TCPWriter: &fakeWriteCloser{}, Reply: reply})
	r := <-reply
	udp := udpAddr(t, "127.0.0.1:2222")
	w.Registry.BindUDP(r.PlayerID, udp)

	tick(testLogger(), w, conn, testBaseMillis)

	payloads := conn.sent[udp.String()]
	require.NotEmpty(t, payloads)

	var sawSelfMove bool
	for _, payload := range payloads {
		msg, err := protocol.DecodeUDPServer(payload)
		require.NoError(t, err)
		if mv, ok := msg.(protocol.PlayerMoveServer); ok {
			assert.Equal(t, r.Location, mv.Location)
			sawSelfMove = true
		}
	}
	assert.True(t, sawSelfMove, "the tick must resend the player's own authoritative location every tick")
}

func TestTick_SkipsSelfMoveWithoutBoundUDPPeer(t *testing.T) {
	w := NewWorld()
	conn := newFakeUDPSender()
	d := NewDispatcher(testLogger(), w, conn)

	reply := make(chan InitResult, 1)
	d.dispatch(EventInit{Username: "alice", TCPAddr: tcpAddr(t, "127.0.0.1:1111"), TCPWriter: &fakeWriteCloser{}, Reply: reply})
	<-reply

	tick(testLogger(), w, conn, testBaseMillis)

	assert.Empty(t, conn.sent, "a player with no bound UDP peer has nowhere to receive a resync")
}

func TestTick_OtherPlayerRowsExcludeDeadPlayers(t *testing.T) {
	w := NewWorld()
	conn := newFakeUDPSender()
	d := NewDispatcher(testLogger(), w, conn)

	replyAlice := make(chan InitResult, 1)
	d.dispatch(EventInit{Username: "alice", TCPAddr: tcpAddr(t, "127.0.0.1:1111"), TCPWriter: &fakeWriteCloser{}, Reply: replyAlice})
	rAlice := <-replyAlice
	aliceUDP := udpAddr(t, "127.0.0.1:2222")
	w.Registry.BindUDP(rAlice.PlayerID, aliceUDP)

	replyBob := make(chan InitResult, 1)
	d.dispatch(EventInit{Username: "bob", TCPAddr: tcpAddr(t, "127.0.0.1:3333"), TCPWriter: &fakeWriteCloser{}, Reply: replyBob})
	rBob := <-replyBob

	bob, _ := w.Registry.Get(rBob.PlayerID)
	bob.TakeDamage(9999)
	require.True(t, bob.IsDead())

	tick(testLogger(), w, conn, testBaseMillis)

	for _, payload := range conn.sent[aliceUDP.String()] {
		msg, err := protocol.DecodeUDPServer(payload)
		require.NoError(t, err)
		if op, ok := msg.(protocol.OtherPlayer); ok {
			assert.NotEqual(t, "bob", op.Username, "a dead player must not appear as an OtherPlayer row")
		}
	}
}

func TestBroadcastWorldState_SendsObjectsSnapshot(t *testing.T) {
	w := NewWorld()
	conn := newFakeUDPSender()
	d := NewDispatcher(testLogger(), w, conn)

	reply := make(chan InitResult, 1)
	d.dispatch(EventInit{Username: "alice", TCPAddr: tcpAddr(t, "127.0.0.1:1111"), TCPWriter: &fakeWriteCloser{}, Reply: reply})
	r := <-reply
	udp := udpAddr(t, "127.0.0.1:2222")
	w.Registry.BindUDP(r.PlayerID, udp)

	require.NoError(t, w.Objects.Insert(spatial.Location{X: 1, Y: 1, Z: 0}, objects.NewLadder(worldconfig.TileIDLadder, "overworld", 1)))

	broadcastWorldState(testLogger(), w, conn)

	var sawObjects bool
	for _, payload := range conn.sent[udp.String()] {
		msg, err := protocol.DecodeUDPServer(payload)
		require.NoError(t, err)
		if _, ok := msg.(protocol.Objects); ok {
			sawObjects = true
		}
	}
	assert.True(t, sawObjects)
}
