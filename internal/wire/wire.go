// Package wire frames cached payloads with the cache version (or namespace
// generation) they were written under. Readers compare the embedded value
// against the expected one and treat a mismatch as a stale entry to delete.
// The framing makes stale or foreign bytes detectable even if a versioned key
// is ever reused, e.g. after the version counter is reset administratively.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const formatVersion byte = 1

var (
	ErrCorrupt = errors.New("searchcache: corrupt entry")
	magic4     = [...]byte{'S', 'R', 'C', 'H'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry layout: magic(4) | fmt(1) | version(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeEntry(version uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(formatVersion)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], version)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeEntry(b []byte) (version uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != formatVersion {
		return 0, nil, ErrCorrupt
	}

	off := 5

	version = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off { // overflow-safe bound check
		return 0, nil, ErrCorrupt
	}

	return version, b[off : off+vlen], nil
}
