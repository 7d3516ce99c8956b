package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/innerhits/internal/bitset"
	"github.com/hupe1980/innerhits/model"
)

// LoadSnapshot reads a snapshot previously written by WriteSnapshot.
// Corruption surfaces as ErrInvalidMagic, ErrInvalidVersion, ErrChecksum
// or a decode error; plain read failures are wrapped I/O errors.
func LoadSnapshot(r io.Reader) (*Snapshot, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("segment: read header: %w", err)
	}
	if binary.LittleEndian.Uint32(header[0:]) != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if header[4] != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header[4])
	}
	codec := Codec(header[5])
	checksum := binary.LittleEndian.Uint32(header[8:])
	payloadLen := binary.LittleEndian.Uint64(header[12:])

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("segment: read payload: %w", err)
	}
	if crc32.Checksum(payload, castagnoli) != checksum {
		return nil, ErrChecksum
	}

	body, err := decompress(codec, payload)
	if err != nil {
		return nil, err
	}
	return decodeBody(body)
}

func decodeBody(body []byte) (*Snapshot, error) {
	d := &bodyDecoder{r: bytes.NewReader(body)}

	s := &Snapshot{}
	s.token = model.SegmentToken(d.str())
	s.size = d.u32()
	// Every document contributes at least one body byte, so a size
	// beyond the body length means corruption.
	if uint64(s.size) > uint64(len(body)) {
		return nil, fmt.Errorf("segment: decode snapshot: implausible size %d", s.size)
	}

	words := make([]uint64, d.count())
	for i := range words {
		words[i] = d.u64()
	}
	s.container = bitset.FromWords(words, s.size)

	s.types = d.bitmaps()

	nFields := d.count()
	s.inverted = make(map[string]map[string]*roaring.Bitmap, nFields)
	for i := 0; i < nFields; i++ {
		field := d.str()
		s.inverted[field] = d.bitmaps()
	}

	s.uids = make([]model.Uid, s.size)
	for i := range s.uids {
		s.uids[i] = model.Uid(d.str())
	}
	s.parents = make([]model.Uid, s.size)
	for i := range s.parents {
		s.parents[i] = model.Uid(d.str())
	}

	nNumeric := d.count()
	s.numeric = make(map[string][]float64, nNumeric)
	for i := 0; i < nNumeric; i++ {
		field := d.str()
		col := make([]float64, s.size)
		for j := range col {
			col[j] = math.Float64frombits(d.u64())
		}
		s.numeric[field] = col
	}

	if d.err != nil {
		return nil, fmt.Errorf("segment: decode snapshot: %w", d.err)
	}
	return s, nil
}

type bodyDecoder struct {
	r       *bytes.Reader
	err     error
	scratch [8]byte
}

func (d *bodyDecoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *bodyDecoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(d.r)
	if err != nil {
		d.fail(err)
		return 0
	}
	return v
}

// count reads a collection length and rejects values that could not
// possibly fit in the remaining body.
func (d *bodyDecoder) count() int {
	n := d.uvarint()
	if n > uint64(d.r.Len()) {
		d.fail(fmt.Errorf("implausible collection length %d", n))
		return 0
	}
	return int(n)
}

func (d *bodyDecoder) read(n int) []byte {
	if d.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.fail(err)
		return nil
	}
	return b
}

func (d *bodyDecoder) u32() uint32 {
	if d.err != nil {
		return 0
	}
	if _, err := io.ReadFull(d.r, d.scratch[:4]); err != nil {
		d.fail(err)
		return 0
	}
	return binary.LittleEndian.Uint32(d.scratch[:4])
}

func (d *bodyDecoder) u64() uint64 {
	if d.err != nil {
		return 0
	}
	if _, err := io.ReadFull(d.r, d.scratch[:8]); err != nil {
		d.fail(err)
		return 0
	}
	return binary.LittleEndian.Uint64(d.scratch[:8])
}

func (d *bodyDecoder) str() string {
	return string(d.read(d.count()))
}

func (d *bodyDecoder) bitmaps() map[string]*roaring.Bitmap {
	n := d.count()
	m := make(map[string]*roaring.Bitmap, n)
	for i := 0; i < n; i++ {
		name := d.str()
		raw := d.read(d.count())
		if d.err != nil {
			return m
		}
		rb := roaring.New()
		if err := rb.UnmarshalBinary(raw); err != nil {
			d.fail(fmt.Errorf("bitmap %q: %w", name, err))
			return m
		}
		m[name] = rb
	}
	return m
}
