package segment

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"
)

const (
	// MagicNumber identifies a snapshot file. "IHS1".
	MagicNumber = 0x49485331
	// FormatVersion is the current snapshot format version.
	FormatVersion = 1
	// headerSize is magic(4) + version(1) + codec(1) + reserved(2) +
	// checksum(4) + payload length(8).
	headerSize = 20
)

var (
	// ErrInvalidMagic is returned when a file is not a snapshot.
	ErrInvalidMagic = errors.New("segment: invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("segment: unsupported format version")
	// ErrChecksum is returned when the payload fails CRC validation.
	ErrChecksum = errors.New("segment: checksum mismatch")
)

// Codec selects the compression applied to the snapshot payload.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecS2
	CodecLZ4
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecS2:
		return "s2"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func compress(c Codec, body []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return body, nil
	case CodecS2:
		return s2.Encode(nil, body), nil
	case CodecLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(body); err != nil {
			return nil, fmt.Errorf("segment: lz4 compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("segment: lz4 compress: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("segment: unknown codec %s", c)
	}
}

func decompress(c Codec, payload []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return payload, nil
	case CodecS2:
		body, err := s2.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("segment: s2 decompress: %w", err)
		}
		return body, nil
	case CodecLZ4:
		body, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("segment: lz4 decompress: %w", err)
		}
		return body, nil
	default:
		return nil, fmt.Errorf("segment: unknown codec %s", c)
	}
}
