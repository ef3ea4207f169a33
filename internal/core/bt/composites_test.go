package bt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder returns a leaf that appends its name to calls and returns st.
func recorder(name string, st Status, calls *[]string) *ActionFunc {
	return NewAction(name, func(*TickContext) (Status, error) {
		*calls = append(*calls, name)
		return st, nil
	})
}

func activeTree(t *testing.T, wire func(b *Builder) NodeID, opts ...Option) *Tree {
	t.Helper()
	b := NewBuilder(t.Name())
	b.SetRoot(wire(b))
	tree, err := b.Build(opts...)
	require.NoError(t, err)
	require.NoError(t, tree.Activate())
	return tree
}

func TestSequenceShortCircuitsOnFirstFailure(t *testing.T) {
	const n = 4
	for i := 0; i < n; i++ {
		t.Run(fmt.Sprintf("fail_at_%d", i), func(t *testing.T) {
			var calls []string
			tree := activeTree(t, func(b *Builder) NodeID {
				ids := make([]NodeID, n)
				for j := range ids {
					st := StatusSuccess
					if j == i {
						st = StatusFailure
					}
					ids[j] = b.Add(recorder(fmt.Sprint(j), st, &calls))
				}
				return b.Sequence("seq", ids...)
			})

			st, err := tree.Tick(dt)
			require.NoError(t, err)
			require.Equal(t, StatusFailure, st)
			require.Len(t, calls, i+1)
		})
	}
}

func TestSelectorShortCircuitsOnFirstSuccess(t *testing.T) {
	const n = 4
	for i := 0; i < n; i++ {
		t.Run(fmt.Sprintf("succeed_at_%d", i), func(t *testing.T) {
			var calls []string
			tree := activeTree(t, func(b *Builder) NodeID {
				ids := make([]NodeID, n)
				for j := range ids {
					st := StatusFailure
					if j == i {
						st = StatusSuccess
					}
					ids[j] = b.Add(recorder(fmt.Sprint(j), st, &calls))
				}
				return b.Selector("sel", ids...)
			})

			st, err := tree.Tick(dt)
			require.NoError(t, err)
			require.Equal(t, StatusSuccess, st)
			require.Len(t, calls, i+1)
		})
	}
}

func TestCompositesStopOnRunning(t *testing.T) {
	var calls []string
	tree := activeTree(t, func(b *Builder) NodeID {
		return b.Sequence("seq",
			b.Add(recorder("a", StatusSuccess, &calls)),
			b.Add(recorder("b", StatusRunning, &calls)),
			b.Add(recorder("c", StatusSuccess, &calls)),
		)
	})

	for range 2 {
		st, err := tree.Tick(dt)
		require.NoError(t, err)
		require.Equal(t, StatusRunning, st)
	}
	// Stateless: each tick restarts from the first child.
	require.Equal(t, []string{"a", "b", "a", "b"}, calls)
}

func TestEmptyComposites(t *testing.T) {
	seq := activeTree(t, func(b *Builder) NodeID { return b.Sequence("seq") })
	st, err := seq.Tick(dt)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)

	sel := activeTree(t, func(b *Builder) NodeID { return b.Selector("sel") })
	st, err = sel.Tick(dt)
	require.NoError(t, err)
	require.Equal(t, StatusFailure, st)
}

func TestSequenceStopsOnChildError(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	tree := activeTree(t, func(b *Builder) NodeID {
		return b.Sequence("seq",
			b.Add(NewAction("broken", func(*TickContext) (Status, error) { return StatusSuccess, boom })),
			b.Add(recorder("after", StatusSuccess, &calls)),
		)
	})

	st, err := tree.Tick(dt)
	require.Equal(t, StatusFailure, st)
	require.ErrorIs(t, err, boom)
	var ne *NodeError
	require.ErrorAs(t, err, &ne)
	require.Equal(t, "broken", ne.Node)
	require.Empty(t, calls)
}

func TestSelectorTriesSiblingsAfterError(t *testing.T) {
	boom := errors.New("boom")
	var calls []string
	tree := activeTree(t, func(b *Builder) NodeID {
		return b.Selector("sel",
			b.Add(NewAction("broken", func(*TickContext) (Status, error) { return StatusRunning, boom })),
			b.Add(recorder("fallback", StatusSuccess, &calls)),
		)
	})

	st, err := tree.Tick(dt)
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)
	require.Equal(t, []string{"fallback"}, calls)
}

func TestSelectorJoinsErrorsWhenAllFail(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	tree := activeTree(t, func(b *Builder) NodeID {
		return b.Selector("sel",
			b.Add(NewAction("a", func(*TickContext) (Status, error) { return StatusFailure, e1 })),
			b.Add(NewAction("b", func(*TickContext) (Status, error) { return StatusFailure, e2 })),
		)
	})

	st, err := tree.Tick(dt)
	require.Equal(t, StatusFailure, st)
	require.ErrorIs(t, err, e1)
	require.ErrorIs(t, err, e2)
}

func TestChildrenReturnsCopy(t *testing.T) {
	s := NewSequence("seq", 1, 2)
	c := s.Children()
	c[0] = 9
	require.Equal(t, []NodeID{1, 2}, s.Children())
}
