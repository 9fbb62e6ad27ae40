package alloc

import "golang.org/x/sync/semaphore"

// Limited wraps another provider with a hard memory budget. Allocate
// fails with ErrMemoryLimit once the budget is exhausted; Deallocate
// returns budget. Acquisition never blocks, so appends through a
// Limited provider stay non-blocking.
type Limited struct {
	inner Allocator
	sem   *semaphore.Weighted
}

// NewLimited wraps inner with a budget of limitBytes. A nil inner
// defaults to Ambient.
func NewLimited(limitBytes int64, inner Allocator) *Limited {
	if inner == nil {
		inner = Ambient()
	}
	return &Limited{
		inner: inner,
		sem:   semaphore.NewWeighted(limitBytes),
	}
}

func (l *Limited) Allocate(size, align int) ([]byte, error) {
	if !l.sem.TryAcquire(int64(size)) {
		return nil, ErrMemoryLimit
	}

	buf, err := l.inner.Allocate(size, align)
	if err != nil {
		l.sem.Release(int64(size))
		return nil, err
	}

	return buf, nil
}

func (l *Limited) Deallocate(buf []byte, size, align int) {
	l.inner.Deallocate(buf, size, align)
	l.sem.Release(int64(size))
}
