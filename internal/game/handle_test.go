// internal/game/handle_test.go
package game

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandle(cfg Config, seed int64) *Handle {
	return NewHandle(newTestRoom(cfg, seed))
}

func TestHandleVersionBumpsOnlyOnSuccess(t *testing.T) {
	h := newTestHandle(Config{MaxSeats: 2}, 1)
	require.Equal(t, uint64(0), h.Version())

	require.NoError(t, h.Join(uuid.New(), "alice"))
	assert.Equal(t, uint64(1), h.Version())

	assert.ErrorIs(t, h.StartHand(), ErrNotEnoughPlayers)
	assert.Equal(t, uint64(1), h.Version(), "failed mutations do not bump the version")
}

func TestHandleConcurrentJoinsRespectCapacity(t *testing.T) {
	h := newTestHandle(Config{MaxSeats: 8}, 1)

	const joiners = 20
	errs := make(chan error, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- h.Join(uuid.New(), "player")
		}(i)
	}
	wg.Wait()
	close(errs)

	seated, full := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			seated++
		default:
			require.ErrorIs(t, err, ErrRoomFull)
			full++
		}
	}
	assert.Equal(t, 8, seated)
	assert.Equal(t, 12, full)
	assert.Len(t, h.Snapshot().Players, 8)
}

// Readers hammering snapshots during a scripted hand must never observe a
// state where chips have gone missing: stacks plus pot always total the
// buy-ins.
func TestHandleReadersSeeConsistentState(t *testing.T) {
	h := newTestHandle(Config{}, 5)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		require.NoError(t, h.Join(id, "player"))
	}
	const total = 3 * 1000

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				v := h.Snapshot()
				sum := v.Pot
				for _, p := range v.Players {
					sum += p.Stack
				}
				assert.Equal(t, total, sum)
			}
		}()
	}

	rng := rand.New(rand.NewSource(11))
	for hand := 0; hand < 10; hand++ {
		require.NoError(t, h.StartHand())
		for h.Snapshot().Status == RoomInProgress {
			v := h.Snapshot()
			id := *v.CurrentTurn
			pv, err := h.PlayerView(id)
			require.NoError(t, err)
			switch {
			case pv.CallAmount > 0 && rng.Intn(4) == 0:
				require.NoError(t, h.PlayTurn(id, Action{Kind: ActionFold}))
			case pv.CallAmount > 0:
				require.NoError(t, h.PlayTurn(id, Action{Kind: ActionCall}))
			default:
				require.NoError(t, h.PlayTurn(id, Action{Kind: ActionCheck}))
			}
		}
	}
	close(stop)
	wg.Wait()
}

func TestWatchDeliversVersionsAndCoalesces(t *testing.T) {
	h := newTestHandle(Config{}, 1)
	ch, cancel := h.Watch()
	defer cancel()

	require.NoError(t, h.Join(uuid.New(), "alice"))
	require.NoError(t, h.Join(uuid.New(), "bob"))
	require.NoError(t, h.StartHand())

	// The subscriber never consumed; the buffered slot holds the latest.
	deadline := time.After(time.Second)
	var got uint64
	for got != h.Version() {
		select {
		case got = <-ch:
		case <-deadline:
			t.Fatalf("watcher never saw version %d (got %d)", h.Version(), got)
		}
	}
	assert.Equal(t, uint64(3), got)
}

func TestWatchCancelStopsDelivery(t *testing.T) {
	h := newTestHandle(Config{}, 1)
	ch, cancel := h.Watch()

	require.NoError(t, h.Join(uuid.New(), "alice"))
	<-ch
	cancel()

	require.NoError(t, h.Join(uuid.New(), "bob"))
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("cancelled watcher received version %d", v)
		}
	default:
	}
}

func TestHandleTypedWrappers(t *testing.T) {
	h := newTestHandle(Config{}, 1)
	alice := uuid.New()
	require.NoError(t, h.Join(alice, "alice"))
	require.NoError(t, h.Join(uuid.New(), "bob"))
	require.NoError(t, h.StartHand())

	pv, err := h.PlayerView(alice)
	require.NoError(t, err)
	assert.True(t, pv.YourTurn)

	require.NoError(t, h.PlayTurn(alice, Action{Kind: ActionFold}))
	assert.Equal(t, RoomOpen, h.Snapshot().Status)

	require.NoError(t, h.Reset())
	assert.Empty(t, h.Snapshot().Players)

	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.Join(uuid.New(), "carol"), ErrRoomClosed)
}
