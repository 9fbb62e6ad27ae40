// Package snapshot serializes the published prefix of a sequence to a
// self-describing binary stream and rebuilds a sequence from one.
//
// The stream records format version, codec name, compression and
// element count in its header, so a snapshot written with one
// configuration is read back without any out-of-band knowledge.
// Snapshots can be taken while the writer keeps appending: the element
// count is latched once and only that prefix is written.
package snapshot

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/stele"
	"github.com/hupe1980/stele/codec"
)

// Format: magic, version, compression byte, codec name (uvarint-
// prefixed), then — compressed according to the compression byte — the
// element count followed by uvarint length-prefixed encoded elements.
var magic = [8]byte{'S', 'T', 'E', 'L', 'S', 'N', 'A', 'P'}

const version = 1

var (
	// ErrBadMagic is returned when the stream does not start with a
	// snapshot header.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrUnsupportedVersion is returned for snapshot versions newer
	// than this library understands.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")

	// ErrUnknownCodec is returned when the header names a codec this
	// build does not provide.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")

	// ErrUnknownCompression is returned for an unrecognized
	// compression byte.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
)

// Write serializes the elements published in r at the moment of the
// call. The reader stays usable; elements appended after the count is
// latched are not included.
func Write[T any](ctx context.Context, w io.Writer, r *stele.Reader[T], opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.RateLimitBytesPerSec > 0 {
		w = newThrottledWriter(ctx, w, o.RateLimitBytesPerSec)
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(version); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(o.Compression)); err != nil {
		return err
	}
	if err := writeUvarint(bw, uint64(len(o.Codec.Name()))); err != nil {
		return err
	}
	if _, err := bw.WriteString(o.Codec.Name()); err != nil {
		return err
	}

	body, closeBody, err := compressedWriter(bw, o.Compression)
	if err != nil {
		return err
	}

	// The compressor must be closed on every exit, not only on success:
	// zstd encoders hold worker state until closed.
	closed := false
	closeOnce := func() error {
		if closeBody == nil || closed {
			return nil
		}
		closed = true
		return closeBody()
	}
	defer func() {
		_ = closeOnce()
	}()

	count := r.Len()
	if err := writeUvarint(body, uint64(count)); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		b, err := o.Codec.Marshal(*r.At(i))
		if err != nil {
			return fmt.Errorf("snapshot: encode element %d: %w", i, err)
		}
		if err := writeUvarint(body, uint64(len(b))); err != nil {
			return err
		}
		if _, err := body.Write(b); err != nil {
			return err
		}
	}

	if err := closeOnce(); err != nil {
		return err
	}

	return bw.Flush()
}

// Read rebuilds a sequence from a snapshot stream and returns fresh
// handles over it, elements in their original append order. The codec
// is selected by the name recorded in the header.
func Read[T any](ctx context.Context, r io.Reader, opts ...Option) (*stele.Writer[T], *stele.Reader[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.RateLimitBytesPerSec > 0 {
		r = newThrottledReader(ctx, r, o.RateLimitBytesPerSec)
	}

	br := bufio.NewReader(r)

	var m [8]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return nil, nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	if m != magic {
		return nil, nil, ErrBadMagic
	}

	v, err := br.ReadByte()
	if err != nil {
		return nil, nil, err
	}
	if v != version {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	comp, err := br.ReadByte()
	if err != nil {
		return nil, nil, err
	}

	nameLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, nil, err
	}
	if nameLen > 64 {
		return nil, nil, fmt.Errorf("%w: name length %d", ErrUnknownCodec, nameLen)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, nil, err
	}
	dec, ok := codec.ByName(string(name))
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	body, closeBody, err := compressedReader(br, Compression(comp))
	if err != nil {
		return nil, nil, err
	}
	if closeBody != nil {
		defer closeBody()
	}

	count, err := binary.ReadUvarint(body)
	if err != nil {
		return nil, nil, err
	}

	w, rd := stele.NewIn[T](o.Allocator)

	var buf []byte
	for i := uint64(0); i < count; i++ {
		n, err := binary.ReadUvarint(body)
		if err != nil {
			return fail[T](w, rd, fmt.Errorf("snapshot: read element %d: %w", i, err))
		}
		if uint64(cap(buf)) < n {
			buf = make([]byte, n)
		}
		buf = buf[:n]
		if _, err := io.ReadFull(body, buf); err != nil {
			return fail[T](w, rd, fmt.Errorf("snapshot: read element %d: %w", i, err))
		}

		var v T
		if err := dec.Unmarshal(buf, &v); err != nil {
			return fail[T](w, rd, fmt.Errorf("snapshot: decode element %d: %w", i, err))
		}
		if err := w.Append(v); err != nil {
			return fail[T](w, rd, err)
		}
	}

	return w, rd, nil
}

func fail[T any](w *stele.Writer[T], r *stele.Reader[T], err error) (*stele.Writer[T], *stele.Reader[T], error) {
	_ = w.Close()
	_ = r.Close()
	return nil, nil, err
}

// byteReader adapts the decompressed body to the interfaces the element
// loop needs.
type byteReader interface {
	io.Reader
	io.ByteReader
}

func compressedWriter(w io.Writer, c Compression) (io.Writer, func() error, error) {
	switch c {
	case CompressionNone:
		return w, nil, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, err
		}
		return enc, enc.Close, nil
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		return lw, lw.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

func compressedReader(r *bufio.Reader, c Compression) (byteReader, func(), error) {
	switch c {
	case CompressionNone:
		return r, nil, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return bufio.NewReader(dec), dec.Close, nil
	case CompressionLZ4:
		return bufio.NewReader(lz4.NewReader(r)), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
	}
}

func writeUvarint(w io.Writer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := w.Write(buf[:n])
	return err
}
