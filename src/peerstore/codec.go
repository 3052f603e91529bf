package peerstore

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	sha256 "github.com/minio/sha256-simd"
	"github.com/multiformats/go-varint"
	"github.com/ugorji/go/codec"
	"github.com/willco-1/cuprate/src/peers"
)

// Format versions.
const (
	// FormatV1 stores the white list, the gray list and the remaining ban
	// durations in milliseconds.
	FormatV1 uint8 = 1

	// CurrentFormat is the version written by Encode.
	CurrentFormat = FormatV1
)

const (
	flagZstd   uint8 = 1 << 0
	knownFlags       = flagZstd

	checksumSize = sha256.Size

	// magic, version, flags
	headerSize = 6

	// smallest valid file: header, 1 byte of length, empty payload, checksum
	minFileSize = headerSize + 1 + checksumSize

	// MaxPayloadSize bounds the payload a file may announce.
	MaxPayloadSize = 64 << 20
)

var magicBytes = []byte("PBKF")

var (
	// ErrTruncated is returned when the data is shorter than a valid file.
	ErrTruncated = errors.New("peer store: truncated data")
	// ErrInvalidMagic ...
	ErrInvalidMagic = errors.New("peer store: invalid magic bytes")
	// ErrUnsupportedVersion is returned for formats this build cannot read,
	// typically files written by a newer release.
	ErrUnsupportedVersion = errors.New("peer store: unsupported format version")
	// ErrUnknownFlags ...
	ErrUnknownFlags = errors.New("peer store: unknown flags")
	// ErrChecksumMismatch ...
	ErrChecksumMismatch = errors.New("peer store: checksum mismatch")
	// ErrLengthMismatch ...
	ErrLengthMismatch = errors.New("peer store: payload length mismatch")
	// ErrTrailingData ...
	ErrTrailingData = errors.New("peer store: trailing data after payload")
	// ErrNilRecord is returned when a peer list holds a nil peer.
	ErrNilRecord = errors.New("peer store: nil peer record")
)

// PeerData is the content of a peer store file.
type PeerData struct {
	White []*peers.Peer
	Gray  []*peers.Peer

	// Bans maps each banned identifier to the time that was left on its ban
	// when the file was written, in milliseconds.
	Bans map[peers.BanID]uint64
}

// peerDataV1 is the schema of FormatV1. Adding, removing or reordering a
// field requires a new format version.
type peerDataV1 struct {
	White []*peers.Peer
	Gray  []*peers.Peer
	Bans  map[peers.BanID]uint64
}

var msgpackHandle = func() *codec.MsgpackHandle {
	mh := new(codec.MsgpackHandle)
	mh.StructToArray = true
	mh.Canonical = true
	return mh
}()

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdCodec() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil)
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayloadSize))
	})
	return zstdEnc, zstdDec, zstdErr
}

// Encode serializes data in the current format. When compress is set, the
// payload is compressed with zstd.
func Encode(data *PeerData, compress bool) ([]byte, error) {
	if err := checkRecords(data.White, data.Gray); err != nil {
		return nil, err
	}

	schema := peerDataV1{
		White: data.White,
		Gray:  data.Gray,
		Bans:  data.Bans,
	}
	if schema.White == nil {
		schema.White = []*peers.Peer{}
	}
	if schema.Gray == nil {
		schema.Gray = []*peers.Peer{}
	}
	if schema.Bans == nil {
		schema.Bans = map[peers.BanID]uint64{}
	}

	var payload []byte
	enc := codec.NewEncoderBytes(&payload, msgpackHandle)
	if err := enc.Encode(&schema); err != nil {
		return nil, fmt.Errorf("peer store: encode: %w", err)
	}

	var flags uint8
	if compress {
		zenc, _, err := zstdCodec()
		if err != nil {
			return nil, fmt.Errorf("peer store: zstd: %w", err)
		}
		payload = zenc.EncodeAll(payload, nil)
		flags |= flagZstd
	}

	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("peer store: payload of %d bytes exceeds %d", len(payload), MaxPayloadSize)
	}

	length := varint.ToUvarint(uint64(len(payload)))

	buf := make([]byte, 0, headerSize+len(length)+len(payload)+checksumSize)
	buf = append(buf, magicBytes...)
	buf = append(buf, CurrentFormat, flags)
	buf = append(buf, length...)
	buf = append(buf, payload...)

	sum := sha256.Sum256(buf)

	return append(buf, sum[:]...), nil
}

// Decode parses a peer store file. Every failure wraps one of the sentinel
// errors of this package or the codec error; Decode never returns partial
// data.
func Decode(b []byte) (*PeerData, error) {
	if len(b) < minFileSize {
		return nil, ErrTruncated
	}

	if !bytes.Equal(b[:len(magicBytes)], magicBytes) {
		return nil, ErrInvalidMagic
	}

	version := b[len(magicBytes)]
	if version != FormatV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	body := b[:len(b)-checksumSize]
	sum := sha256.Sum256(body)
	if !bytes.Equal(sum[:], b[len(b)-checksumSize:]) {
		return nil, ErrChecksumMismatch
	}

	flags := body[len(magicBytes)+1]
	if flags&^knownFlags != 0 {
		return nil, fmt.Errorf("%w: %#x", ErrUnknownFlags, flags)
	}

	length, n, err := varint.FromUvarint(body[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: payload length: %v", ErrTruncated, err)
	}

	payload := body[headerSize+n:]
	if length > MaxPayloadSize || uint64(len(payload)) != length {
		return nil, fmt.Errorf("%w: header says %d, found %d", ErrLengthMismatch, length, len(payload))
	}

	if flags&flagZstd != 0 {
		_, zdec, err := zstdCodec()
		if err != nil {
			return nil, fmt.Errorf("peer store: zstd: %w", err)
		}
		payload, err = zdec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("peer store: decompress: %w", err)
		}
	}

	return decodeV1(payload)
}

func decodeV1(payload []byte) (*PeerData, error) {
	var schema peerDataV1

	dec := codec.NewDecoderBytes(payload, msgpackHandle)
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("peer store: decode v1: %w", err)
	}

	if dec.NumBytesRead() != len(payload) {
		return nil, ErrTrailingData
	}

	if err := checkRecords(schema.White, schema.Gray); err != nil {
		return nil, err
	}

	data := &PeerData{
		White: schema.White,
		Gray:  schema.Gray,
		Bans:  schema.Bans,
	}
	if data.Bans == nil {
		data.Bans = map[peers.BanID]uint64{}
	}

	return data, nil
}

func checkRecords(lists ...[]*peers.Peer) error {
	for _, list := range lists {
		for i, p := range list {
			if p == nil {
				return fmt.Errorf("%w at index %d", ErrNilRecord, i)
			}
		}
	}
	return nil
}
