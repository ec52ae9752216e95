// Package protocol defines the wire codec (component C1, spec.md
// §4.1): deterministic binary (de)serialization of tagged message
// variants for TCP (reliable, length-prefixed frames) and UDP
// (unreliable, one datagram per message).
//
// Tagging follows the single-opcode-byte pattern used throughout the
// pack's binary codecs (teacher: internal/protocol/packet/*.go encodes
// opcode-then-fields per L2 packet type; other_examples'
// Ancillary-AGI-foundry/networking/shared/messages.go tags a generic
// Message with a MessageType byte). Each variant here owns its opcode,
// its Encode/Decode pair, and is exercised by a round-trip test
// (spec.md §8).
package protocol

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tilemmo/core/internal/spatial"
)

// Opcode tags a decoded message's concrete type.
type Opcode byte

// TCP client → server opcodes.
const (
	OpInit Opcode = iota + 1
	OpReconnect
	OpChatMsg
	OpRespawn
	OpDisconnect
)

// TCP server → client opcodes.
const (
	OpInitOk Opcode = iota + 100
	OpInitErr
	OpReconnectOk
	OpChatMsgServer
	OpRespawnOk
)

// UDP client → server opcodes.
const (
	OpPing Opcode = iota + 200
	OpPlayerMoveClient
	OpMoveObject
)

// UDP server → client opcodes.
const (
	OpPong Opcode = iota + 220
	OpPlayerMoveServer
	OpOtherPlayer
	OpObjects
	OpPlayerHealthUpdate
	OpPlayerDeath
	OpDamageNumber
)

// ---- TCP client -> server ----

type Init struct {
	Username string
}

func (m Init) Encode() []byte {
	w := NewWriter(2 + len(m.Username))
	w.WriteByte(byte(OpInit))
	w.WriteString(m.Username)
	return w.Bytes()
}

type Reconnect struct {
	PlayerID uuid.UUID
}

func (m Reconnect) Encode() []byte {
	w := NewWriter(17)
	w.WriteByte(byte(OpReconnect))
	w.WriteUUID(m.PlayerID)
	return w.Bytes()
}

type ChatMsg struct {
	Body string
}

func (m ChatMsg) Encode() []byte {
	w := NewWriter(3 + len(m.Body))
	w.WriteByte(byte(OpChatMsg))
	w.WriteString(m.Body)
	return w.Bytes()
}

type Respawn struct {
	PlayerID uuid.UUID
}

func (m Respawn) Encode() []byte {
	w := NewWriter(17)
	w.WriteByte(byte(OpRespawn))
	w.WriteUUID(m.PlayerID)
	return w.Bytes()
}

type Disconnect struct{}

func (m Disconnect) Encode() []byte {
	return []byte{byte(OpDisconnect)}
}

// ---- TCP server -> client ----

type InitPlayer struct {
	PlayerID uuid.UUID
	Username string
	Location spatial.Location
	HP       int32
	MaxHP    int32
	Level    int32
}

type InitOk struct {
	Player InitPlayer
}

func (m InitOk) Encode() []byte {
	w := NewWriter(40 + len(m.Player.Username))
	w.WriteByte(byte(OpInitOk))
	w.WriteUUID(m.Player.PlayerID)
	w.WriteString(m.Player.Username)
	writeLocation(w, m.Player.Location)
	w.WriteInt32(m.Player.HP)
	w.WriteInt32(m.Player.MaxHP)
	w.WriteInt32(m.Player.Level)
	return w.Bytes()
}

type InitErr struct {
	Reason string
}

func (m InitErr) Encode() []byte {
	w := NewWriter(3 + len(m.Reason))
	w.WriteByte(byte(OpInitErr))
	w.WriteString(m.Reason)
	return w.Bytes()
}

type ReconnectOk struct{}

func (m ReconnectOk) Encode() []byte {
	return []byte{byte(OpReconnectOk)}
}

type ChatMsgServer struct {
	Username string
	Body     string
}

func (m ChatMsgServer) Encode() []byte {
	w := NewWriter(4 + len(m.Username) + len(m.Body))
	w.WriteByte(byte(OpChatMsgServer))
	w.WriteString(m.Username)
	w.WriteString(m.Body)
	return w.Bytes()
}

type RespawnOk struct{}

func (m RespawnOk) Encode() []byte {
	return []byte{byte(OpRespawnOk)}
}

// ---- UDP client -> server ----

type Ping struct {
	ID        uuid.UUID
	RequestID int64
}

func (m Ping) Encode() []byte {
	w := NewWriter(25)
	w.WriteByte(byte(OpPing))
	w.WriteUUID(m.ID)
	w.WriteInt64(m.RequestID)
	return w.Bytes()
}

type PlayerMoveClient struct {
	ID        uuid.UUID
	RequestID int64
	Location  spatial.Location
}

func (m PlayerMoveClient) Encode() []byte {
	w := NewWriter(40)
	w.WriteByte(byte(OpPlayerMoveClient))
	w.WriteUUID(m.ID)
	w.WriteInt64(m.RequestID)
	writeLocation(w, m.Location)
	return w.Bytes()
}

type MoveObject struct {
	ID   uuid.UUID
	From spatial.Location
	To   spatial.Location
}

func (m MoveObject) Encode() []byte {
	w := NewWriter(41)
	w.WriteByte(byte(OpMoveObject))
	w.WriteUUID(m.ID)
	writeLocation(w, m.From)
	writeLocation(w, m.To)
	return w.Bytes()
}

// ---- UDP server -> client ----

type Pong struct {
	RequestID int64
}

func (m Pong) Encode() []byte {
	w := NewWriter(9)
	w.WriteByte(byte(OpPong))
	w.WriteInt64(m.RequestID)
	return w.Bytes()
}

type PlayerMoveServer struct {
	Location  spatial.Location
	RequestID int64
}

func (m PlayerMoveServer) Encode() []byte {
	w := NewWriter(25)
	w.WriteByte(byte(OpPlayerMoveServer))
	writeLocation(w, m.Location)
	w.WriteInt64(m.RequestID)
	return w.Bytes()
}

type OtherPlayer struct {
	Username  string
	Location  spatial.Location
	Direction spatial.Direction
}

func (m OtherPlayer) Encode() []byte {
	w := NewWriter(20 + len(m.Username))
	w.WriteByte(byte(OpOtherPlayer))
	w.WriteString(m.Username)
	writeLocation(w, m.Location)
	w.WriteByte(byte(m.Direction))
	return w.Bytes()
}

// ObjectEntry is one row of an Objects snapshot as carried on the wire
// (encoded by the server, decoded by the client; the authoritative
// form is objects.Store).
type ObjectEntry struct {
	Location   spatial.Location
	Kind       byte
	TileID     int32
	TilesetRef string
	HP         int32
	Direction  spatial.Direction
	TargetZ    int32
}

type Objects struct {
	Entries []ObjectEntry
}

func (m Objects) Encode() []byte {
	w := NewWriter(4 + len(m.Entries)*24)
	w.WriteByte(byte(OpObjects))
	w.WriteUint32(uint32(len(m.Entries)))
	for _, e := range m.Entries {
		writeLocation(w, e.Location)
		w.WriteByte(e.Kind)
		w.WriteInt32(e.TileID)
		w.WriteString(e.TilesetRef)
		w.WriteInt32(e.HP)
		w.WriteByte(byte(e.Direction))
		w.WriteInt32(e.TargetZ)
	}
	return w.Bytes()
}

type PlayerHealthUpdate struct {
	HP int32
}

func (m PlayerHealthUpdate) Encode() []byte {
	w := NewWriter(5)
	w.WriteByte(byte(OpPlayerHealthUpdate))
	w.WriteInt32(m.HP)
	return w.Bytes()
}

type PlayerDeath struct {
	Message string
}

func (m PlayerDeath) Encode() []byte {
	w := NewWriter(3 + len(m.Message))
	w.WriteByte(byte(OpPlayerDeath))
	w.WriteString(m.Message)
	return w.Bytes()
}

type DamageNumber struct {
	Damage int32
}

func (m DamageNumber) Encode() []byte {
	w := NewWriter(5)
	w.WriteByte(byte(OpDamageNumber))
	w.WriteInt32(m.Damage)
	return w.Bytes()
}

// ---- shared helpers ----

func spatialDirection(b byte) spatial.Direction {
	return spatial.Direction(b)
}

func writeLocation(w *Writer, loc spatial.Location) {
	w.WriteInt32(loc.X)
	w.WriteInt32(loc.Y)
	w.WriteInt32(loc.Z)
}

func readLocation(r *Reader) (spatial.Location, error) {
	x, err := r.ReadInt32()
	if err != nil {
		return spatial.Location{}, err
	}
	y, err := r.ReadInt32()
	if err != nil {
		return spatial.Location{}, err
	}
	z, err := r.ReadInt32()
	if err != nil {
		return spatial.Location{}, err
	}
	return spatial.Location{X: x, Y: y, Z: z}, nil
}

// ErrUnknownOpcode is returned by Decode for an unrecognized/garbled
// frame. Per spec.md §4.1/§7 item 1, callers drop the frame and log at
// debug/trace — decode failure never terminates the session.
var ErrUnknownOpcode = fmt.Errorf("protocol: unknown or garbled opcode")
