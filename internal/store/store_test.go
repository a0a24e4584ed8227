package store

import (
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N     int
	Items []int
	fence Fence
}

func (c counter) Clone() counter {
	out := c
	out.Items = append([]int(nil), c.Items...)
	return out
}

type add struct {
	seq uint64
	n   int
}

func (add) ActionType() string { return "add" }

type issue struct{ seq uint64 }

func (issue) ActionType() string { return "issue" }

func reduceCounter(s counter, a Action) (counter, bool) {
	switch a := a.(type) {
	case issue:
		s.fence = s.fence.Issue("k", a.seq)
		return s, true
	case add:
		if !s.fence.Current("k", a.seq) {
			return s, false
		}
		s.N += a.n
		s.Items = append(append([]int(nil), s.Items...), a.n)
		return s, true
	}
	return s, false
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestStore_DispatchAndSnapshot(t *testing.T) {
	s := New("counter", counter{}, reduceCounter, quiet())

	st, ok := s.Dispatch(add{n: 2})
	require.True(t, ok)
	require.Equal(t, 2, st.N)

	snap := s.State()
	snap.Items[0] = 99
	require.Equal(t, []int{2}, s.State().Items)
}

func TestStore_FencingDropsStaleCompletion(t *testing.T) {
	s := New("counter", counter{}, reduceCounter, quiet())

	first := s.NextSeq()
	second := s.NextSeq()
	require.Greater(t, second, first)

	s.Dispatch(issue{seq: second})
	// a late pending for the older request must not roll the fence back
	s.Dispatch(issue{seq: first})

	_, applied := s.Dispatch(add{seq: first, n: 1})
	require.False(t, applied)
	_, applied = s.Dispatch(add{seq: second, n: 5})
	require.True(t, applied)
	require.Equal(t, 5, s.State().N)
}

func TestStore_SubscribeReceivesInitialAndLatest(t *testing.T) {
	s := New("counter", counter{}, reduceCounter, quiet())
	ch, cancel := s.Subscribe()

	first := <-ch
	require.Equal(t, 0, first.N)

	s.Dispatch(add{n: 1})
	s.Dispatch(add{n: 1})
	s.Dispatch(add{n: 1})

	latest := <-ch
	require.Equal(t, 3, latest.N)

	cancel()
	cancel()
	_, open := <-ch
	require.False(t, open)

	// dispatching after cancel must not panic on the closed channel
	s.Dispatch(add{n: 1})
}

func TestStore_ConcurrentDispatchIsSerialized(t *testing.T) {
	s := New("counter", counter{}, reduceCounter, quiet())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(add{n: 1})
		}()
	}
	wg.Wait()

	st := s.State()
	require.Equal(t, 50, st.N)
	require.Len(t, st.Items, 50)
}

func TestFence(t *testing.T) {
	var f Fence
	require.True(t, f.Current("a", 0))
	require.True(t, f.Current("a", 1))

	g := f.Issue("a", 3)
	require.Nil(t, f)
	require.False(t, g.Current("a", 2))
	require.True(t, g.Current("a", 3))
	require.True(t, g.Current("b", 1))

	h := g.Forget("a")
	require.True(t, h.Current("a", 1))
	require.False(t, g.Current("a", 1))
}
