package stele_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/stele"
	"github.com/hupe1980/stele/alloc"
)

func TestConcurrentReaders(t *testing.T) {
	const n = 1000

	w, r := stele.New[int]()
	defer w.Close()
	defer r.Close()

	var g errgroup.Group

	// Three readers scan the growing range. Every present value must be
	// the value appended at that index, and the observed length must
	// never decrease.
	for reader := 0; reader < 3; reader++ {
		rc := r.Clone()
		g.Go(func() error {
			defer rc.Close()

			prevLen := 0
			for i := 0; i < n; {
				l := rc.Len()
				if l < prevLen {
					return fmt.Errorf("length went backwards: %d after %d", l, prevLen)
				}
				prevLen = l

				p, ok := rc.TryRead(i)
				if !ok {
					continue // not published yet
				}
				if *p != i {
					return fmt.Errorf("index %d: got %d", i, *p)
				}
				i++
			}
			return nil
		})
	}

	g.Go(func() error {
		for i := 0; i < n; i++ {
			if err := w.Append(i); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, g.Wait())
	require.Equal(t, n, r.Len())
}

func TestConcurrentClones(t *testing.T) {
	w, r := stele.New[int]()
	defer w.Close()

	require.NoError(t, w.Append(1))

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 1000; j++ {
				rc := r.Clone()
				if v := rc.Get(0); v != 1 {
					return fmt.Errorf("got %d", v)
				}
				if err := rc.Close(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.NoError(t, r.Close())
}

func TestConcurrentAppendIsFatal(t *testing.T) {
	// Park the first Append inside the allocation provider so a second
	// Append through the same Writer provably overlaps it. The loser of
	// the guard must panic before touching any shared state.
	pa := &parkingAllocator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	w, r := stele.NewIn[int](pa)
	defer w.Close()
	defer r.Close()

	done := make(chan error, 1)
	go func() {
		done <- w.Append(1)
	}()
	<-pa.entered

	require.PanicsWithValue(t, "stele: concurrent Append on the same Writer", func() {
		_ = w.Append(2)
	})

	close(pa.release)
	require.NoError(t, <-done)

	// The parked append won; the overlapping one published nothing.
	require.Equal(t, 1, r.Len())
	require.Equal(t, 1, *r.At(0))

	// The guard is released again after the panic unwinds.
	require.NoError(t, w.Append(2))
	require.Equal(t, 2, r.Len())
}

// parkingAllocator blocks its first allocation until released.
type parkingAllocator struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *parkingAllocator) Allocate(size, align int) ([]byte, error) {
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	return alloc.Ambient().Allocate(size, align)
}

func (p *parkingAllocator) Deallocate([]byte, int, int) {}

func TestWriterHandoff(t *testing.T) {
	// A Writer may move between goroutines as long as use never overlaps.
	w, r := stele.New[int]()
	defer r.Close()

	done := make(chan *stele.Writer[int])
	go func() {
		for i := 0; i < 10; i++ {
			_ = w.Append(i)
		}
		done <- w
	}()

	w2 := <-done
	for i := 10; i < 20; i++ {
		require.NoError(t, w2.Append(i))
	}
	require.Equal(t, 20, r.Len())
	require.NoError(t, w2.Close())
}
