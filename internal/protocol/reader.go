package protocol

import (
	"encoding/binary"
	"fmt"
)

// Reader provides sequential methods for decoding a message body.
// Uses little-endian byte order for all multi-byte values, matching
// the teacher's packet.Reader (internal/protocol/packet/reader.go in
// udisondev-la2go).
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential reads.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) ReadByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("protocol: ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("protocol: ReadUint16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("protocol: ReadInt32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("protocol: ReadUint32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadInt64() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("protocol: ReadInt64: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

// ReadUUID reads 16 raw bytes into a uuid.UUID-shaped array. Kept as
// [16]byte here (not importing google/uuid) so this low-level codec
// package has no dependency on the id type's semantics; callers wrap
// it with uuid.UUID(bytes).
func (r *Reader) ReadUUID() ([16]byte, error) {
	var id [16]byte
	if r.pos+16 > len(r.data) {
		return id, fmt.Errorf("protocol: ReadUUID: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	copy(id[:], r.data[r.pos:r.pos+16])
	r.pos += 16
	return id, nil
}

// ReadString reads a UTF-8 string prefixed by a uint16 byte length.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", fmt.Errorf("protocol: ReadString: length prefix: %w", err)
	}
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("protocol: ReadString: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("protocol: ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}
