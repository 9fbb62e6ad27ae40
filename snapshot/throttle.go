package snapshot

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// throttledWriter paces writes through a token bucket so background
// snapshots do not saturate shared IO.
type throttledWriter struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

func newThrottledWriter(ctx context.Context, w io.Writer, bytesPerSec int) *throttledWriter {
	return &throttledWriter{
		ctx:     ctx,
		w:       w,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

func (t *throttledWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		chunk := len(p)
		if b := t.limiter.Burst(); chunk > b {
			chunk = b
		}
		if err := t.limiter.WaitN(t.ctx, chunk); err != nil {
			return written, err
		}
		n, err := t.w.Write(p[:chunk])
		written += n
		if err != nil {
			return written, err
		}
		p = p[chunk:]
	}
	return written, nil
}

// throttledReader is the read-side counterpart of throttledWriter.
type throttledReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newThrottledReader(ctx context.Context, r io.Reader, bytesPerSec int) *throttledReader {
	return &throttledReader{
		ctx:     ctx,
		r:       r,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

func (t *throttledReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk := len(p)
	if b := t.limiter.Burst(); chunk > b {
		chunk = b
	}
	if err := t.limiter.WaitN(t.ctx, chunk); err != nil {
		return 0, err
	}
	return t.r.Read(p[:chunk])
}
