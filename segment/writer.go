package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// WriteSnapshot persists a snapshot in the versioned binary format,
// compressed with the given codec. The identity token round-trips, so
// a reloaded snapshot keeps its segment identity.
func WriteSnapshot(w io.Writer, s *Snapshot, codec Codec) error {
	body, err := encodeBody(s)
	if err != nil {
		return err
	}
	payload, err := compress(codec, body)
	if err != nil {
		return err
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:], MagicNumber)
	header[4] = FormatVersion
	header[5] = uint8(codec)
	// header[6:8] reserved
	binary.LittleEndian.PutUint32(header[8:], crc32.Checksum(payload, castagnoli))
	binary.LittleEndian.PutUint64(header[12:], uint64(len(payload)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("segment: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("segment: write payload: %w", err)
	}
	return nil
}

func encodeBody(s *Snapshot) ([]byte, error) {
	var e bodyEncoder

	e.str(string(s.token))
	e.u32(s.size)

	words := s.container.Words()
	e.uvarint(uint64(len(words)))
	for _, w := range words {
		e.u64(w)
	}

	if err := e.bitmaps(s.types); err != nil {
		return nil, err
	}

	fields := sortedKeys(s.inverted)
	e.uvarint(uint64(len(fields)))
	for _, field := range fields {
		e.str(field)
		if err := e.bitmaps(s.inverted[field]); err != nil {
			return nil, err
		}
	}

	for _, uid := range s.uids {
		e.str(string(uid))
	}
	for _, parent := range s.parents {
		e.str(string(parent))
	}

	numeric := sortedKeys(s.numeric)
	e.uvarint(uint64(len(numeric)))
	for _, field := range numeric {
		e.str(field)
		for _, v := range s.numeric[field] {
			e.u64(math.Float64bits(v))
		}
	}

	return e.buf.Bytes(), nil
}

type bodyEncoder struct {
	buf     bytes.Buffer
	scratch [8]byte
}

func (e *bodyEncoder) uvarint(v uint64) {
	n := binary.PutUvarint(e.scratch[:], v)
	e.buf.Write(e.scratch[:n])
}

func (e *bodyEncoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], v)
	e.buf.Write(e.scratch[:4])
}

func (e *bodyEncoder) u64(v uint64) {
	binary.LittleEndian.PutUint64(e.scratch[:8], v)
	e.buf.Write(e.scratch[:8])
}

func (e *bodyEncoder) str(s string) {
	e.uvarint(uint64(len(s)))
	e.buf.WriteString(s)
}

func (e *bodyEncoder) raw(b []byte) {
	e.uvarint(uint64(len(b)))
	e.buf.Write(b)
}

func (e *bodyEncoder) bitmaps(m map[string]*roaring.Bitmap) error {
	e.uvarint(uint64(len(m)))
	for _, name := range sortedKeys(m) {
		e.str(name)
		b, err := m[name].ToBytes()
		if err != nil {
			return fmt.Errorf("segment: serialize bitmap %q: %w", name, err)
		}
		e.raw(b)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
