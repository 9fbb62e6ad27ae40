package snapshot

import (
	"github.com/hupe1980/stele/alloc"
	"github.com/hupe1980/stele/codec"
)

// Compression selects the compression applied to the snapshot body.
type Compression uint8

const (
	// CompressionNone stores elements uncompressed.
	CompressionNone Compression = iota
	// CompressionZstd compresses the body with zstd.
	CompressionZstd
	// CompressionLZ4 compresses the body with lz4.
	CompressionLZ4
)

// Options configures Write and Read. Zero values select the defaults.
type Options struct {
	// Codec encodes elements. Write records its name in the header;
	// Read ignores this field and selects the codec recorded in the
	// stream. Defaults to codec.Default.
	Codec codec.Codec

	// Compression applies to the body on Write. Read ignores this field
	// and follows the header. Defaults to CompressionNone.
	Compression Compression

	// RateLimitBytesPerSec throttles stream IO. Zero means unlimited.
	RateLimitBytesPerSec int

	// Allocator backs the sequence rebuilt by Read. Defaults to the
	// ambient Go heap.
	Allocator alloc.Allocator
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Codec:     codec.Default,
		Allocator: alloc.Ambient(),
	}
}

// WithCodec sets the element codec used by Write.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		if c != nil {
			o.Codec = c
		}
	}
}

// WithCompression sets the body compression used by Write.
func WithCompression(c Compression) Option {
	return func(o *Options) {
		o.Compression = c
	}
}

// WithRateLimit throttles snapshot IO to bytesPerSec. Values <= 0 mean
// unlimited.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *Options) {
		if bytesPerSec < 0 {
			bytesPerSec = 0
		}
		o.RateLimitBytesPerSec = bytesPerSec
	}
}

// WithAllocator sets the allocation provider backing the sequence
// rebuilt by Read.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *Options) {
		if a != nil {
			o.Allocator = a
		}
	}
}
