package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New()
	var got []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		_, err := b.Subscribe("bt.tree.activated", func(Event) error {
			got = append(got, name)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, b.Publish(NewEvent("bt.tree.activated", "minion-1", nil)))
	require.Equal(t, []string{"first", "second", "third"}, got)
}

func TestWildcardReceivesEveryType(t *testing.T) {
	b := New()
	var types []string
	_, err := b.Subscribe(Wildcard, func(e Event) error {
		types = append(types, e.Type())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.PublishBatch(
		NewEvent("a", "src", 1),
		NewEvent("b", "src", 2),
	))
	require.Equal(t, []string{"a", "b"}, types)
	require.Zero(t, b.Subscribers("a"))
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
	require.NoError(t, err)
	require.Equal(t, 1, b.Subscribers("x"))

	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	require.False(t, sub.IsActive())
	require.Zero(t, b.Subscribers("x"))

	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	require.Equal(t, 1, calls)
	require.NoError(t, b.Unsubscribe(nil))
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "src", nil))
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
}

func TestSubscribeValidation(t *testing.T) {
	b := New()
	_, err := b.Subscribe("", func(Event) error { return nil })
	require.Error(t, err)
	_, err = b.Subscribe("x", nil)
	require.Error(t, err)
	require.Error(t, b.Publish(nil))
}
