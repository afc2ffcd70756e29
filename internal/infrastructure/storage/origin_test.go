package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, event Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestMemoryArea_GetSetRemove(t *testing.T) {
	ctx := context.Background()
	area := NewMemoryArea()

	_, found, err := area.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`[]`)
	require.NoError(t, area.Set(ctx, "cart", value))
	value[0] = 'x'

	got, found, err := area.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, area.Remove(ctx, "cart"))
	_, found, _ = area.Get(ctx, "cart")
	assert.False(t, found)
}

func TestContext_NotifiesOthersNotWriter(t *testing.T) {
	ctx := context.Background()
	origin := NewOrigin(NewMemoryArea())
	tabA := origin.Open("a")
	tabB := origin.Open("b")

	var seenA, seenB []Event
	tabA.OnChange("cart", func(e Event) { seenA = append(seenA, e) })
	tabB.OnChange("cart", func(e Event) { seenB = append(seenB, e) })

	require.NoError(t, tabA.Set(ctx, "cart", []byte(`[{"id":"p1","qty":1}]`)))

	assert.Empty(t, seenA)
	require.Len(t, seenB, 1)
	assert.Equal(t, "cart", seenB[0].Key)
	assert.Equal(t, "a", seenB[0].Context)
	assert.Equal(t, `[{"id":"p1","qty":1}]`, string(seenB[0].Value))

	// the write is visible through every context
	got, found, err := tabB.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"p1","qty":1}]`, string(got))
}

func TestContext_ScopedByKey(t *testing.T) {
	ctx := context.Background()
	origin := NewOrigin(NewMemoryArea())
	tabA := origin.Open("a")
	tabB := origin.Open("b")

	calls := 0
	tabB.OnChange("cart", func(Event) { calls++ })

	require.NoError(t, tabA.Set(ctx, "app_orders", []byte(`[]`)))
	assert.Equal(t, 0, calls)

	require.NoError(t, tabA.Remove(ctx, "cart"))
	assert.Equal(t, 1, calls)
}

func TestContext_CancelAndClose(t *testing.T) {
	ctx := context.Background()
	origin := NewOrigin(NewMemoryArea())
	tabA := origin.Open("a")
	tabB := origin.Open("b")
	tabC := origin.Open("c")

	callsB, callsC := 0, 0
	cancel := tabB.OnChange("cart", func(Event) { callsB++ })
	tabC.OnChange("cart", func(Event) { callsC++ })

	cancel()
	tabC.Close()
	require.NoError(t, tabA.Set(ctx, "cart", []byte(`[]`)))

	assert.Equal(t, 0, callsB)
	assert.Equal(t, 0, callsC)
}

func TestOrigin_OpenSameIDReturnsSameContext(t *testing.T) {
	origin := NewOrigin(NewMemoryArea())

	assert.Same(t, origin.Open("a"), origin.Open("a"))
	assert.NotEmpty(t, origin.Open("").ID())
}

func TestOrigin_BroadcastsLocalWrites(t *testing.T) {
	ctx := context.Background()
	b := new(MockBroadcaster)
	b.On("Broadcast", ctx, mock.MatchedBy(func(e Event) bool {
		return e.Key == "cart" && e.Context == "a"
	})).Return(errors.New("broker down")).Once()

	origin := NewOrigin(NewMemoryArea(), WithBroadcaster(b))
	tab := origin.Open("a")

	// broadcast failures do not fail the write
	require.NoError(t, tab.Set(ctx, "cart", []byte(`[]`)))
	b.AssertExpectations(t)
}

func TestOrigin_DeliverRemoteEvent(t *testing.T) {
	origin := NewOrigin(NewMemoryArea())
	tabA := origin.Open("a")
	tabB := origin.Open("b")

	var seenA, seenB int
	tabA.OnChange("cart", func(Event) { seenA++ })
	tabB.OnChange("cart", func(Event) { seenB++ })

	origin.Deliver(Event{Key: "cart", Context: "remote-tab"})
	assert.Equal(t, 1, seenA)
	assert.Equal(t, 1, seenB)

	// echo of our own write coming back from the bus
	origin.Deliver(Event{Key: "cart", Context: "a"})
	assert.Equal(t, 1, seenA)
	assert.Equal(t, 1, seenB)
}

func TestContext_ListenerMayWrite(t *testing.T) {
	ctx := context.Background()
	origin := NewOrigin(NewMemoryArea())
	tabA := origin.Open("a")
	tabB := origin.Open("b")

	tabB.OnChange("cart", func(Event) {
		_ = tabB.Set(ctx, "cart_seen", []byte(`true`))
	})

	require.NoError(t, tabA.Set(ctx, "cart", []byte(`[]`)))

	got, found, err := tabA.Get(ctx, "cart_seen")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", string(got))
}

// relay hands every local write of one origin to another, like the kafka bus does.
type relay struct {
	to *Origin
}

func (r *relay) Broadcast(_ context.Context, e Event) error {
	r.to.Deliver(e)
	return nil
}

func TestOrigin_ReplicaAppliesRemoteWrites(t *testing.T) {
	ctx := context.Background()
	link := &relay{}
	processA := NewOrigin(NewMemoryArea(), WithBroadcaster(link))
	processB := NewOrigin(NewMemoryArea(), WithReplica())
	link.to = processB

	tabA := processA.Open("a")
	tabB := processB.Open("b")

	var seen []string
	tabB.OnChange("cart", func(Event) {
		got, _, err := tabB.Get(ctx, "cart")
		require.NoError(t, err)
		seen = append(seen, string(got))
	})

	require.NoError(t, tabA.Set(ctx, "cart", []byte(`[{"id":"p1","qty":3}]`)))
	assert.Equal(t, []string{`[{"id":"p1","qty":3}]`}, seen)

	require.NoError(t, tabA.Remove(ctx, "cart"))
	_, found, err := tabB.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, seen, 2)
}

func TestOrigin_SharedAreaDoesNotReapply(t *testing.T) {
	ctx := context.Background()
	area := NewMemoryArea()
	origin := NewOrigin(area)
	tab := origin.Open("b")
	require.NoError(t, tab.Set(ctx, "cart", []byte(`[{"id":"p2","qty":1}]`)))

	// without a replica the area already holds the value written by the remote process
	origin.Deliver(Event{Key: "cart", Value: []byte(`stale`), Context: "remote"})

	got, _, err := area.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p2","qty":1}]`, string(got))
}
