// internal/game/handle.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// Handle owns the one shared Room and serializes access to it behind a
// read/write lock. Mutations run as single atomic transitions; reads may run
// concurrently with each other but never see a half-applied write. The handle
// is passed explicitly to everything that needs the room; there is no
// ambient singleton.
type Handle struct {
	mu      sync.RWMutex
	room    *Room
	version uint64

	watchMu  sync.Mutex
	watchers map[uint64]chan uint64
	nextID   uint64
}

// NewHandle wraps a room. The room must not be touched directly afterwards.
func NewHandle(room *Room) *Handle {
	return &Handle{
		room:     room,
		watchers: make(map[uint64]chan uint64),
	}
}

// Mutate runs fn with exclusive access. If fn succeeds the room version is
// bumped and watchers are notified after the lock is released, so no send
// ever happens inside the critical section.
func (h *Handle) Mutate(fn func(*Room) error) error {
	h.mu.Lock()
	err := fn(h.room)
	var v uint64
	if err == nil {
		h.version++
		v = h.version
	}
	h.mu.Unlock()
	if err == nil {
		h.notify(v)
	}
	return err
}

// ReadView runs fn with shared access. fn must not retain references to room
// internals; take projections instead.
func (h *Handle) ReadView(fn func(*Room)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn(h.room)
}

// Version returns the count of completed mutations.
func (h *Handle) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

// Join seats a player.
func (h *Handle) Join(playerID uuid.UUID, name string) error {
	return h.Mutate(func(r *Room) error { return r.Join(playerID, name) })
}

// StartHand begins the next hand.
func (h *Handle) StartHand() error {
	return h.Mutate(func(r *Room) error { return r.StartHand() })
}

// PlayTurn applies a player action.
func (h *Handle) PlayTurn(playerID uuid.UUID, a Action) error {
	return h.Mutate(func(r *Room) error { return r.PlayTurn(playerID, a) })
}

// Reset clears the room back to open.
func (h *Handle) Reset() error {
	return h.Mutate(func(r *Room) error { return r.Reset() })
}

// Close shuts the room permanently.
func (h *Handle) Close() error {
	return h.Mutate(func(r *Room) error { return r.Close() })
}

// Snapshot returns the public room projection.
func (h *Handle) Snapshot() RoomView {
	var v RoomView
	h.ReadView(func(r *Room) { v = r.Snapshot() })
	return v
}

// PlayerView returns the private projection for one player.
func (h *Handle) PlayerView(playerID uuid.UUID) (PlayerViewData, error) {
	var v PlayerViewData
	var err error
	h.ReadView(func(r *Room) { v, err = r.PlayerView(playerID) })
	return v, err
}

// Watch subscribes to room changes. The channel receives the version of each
// completed mutation, coalescing when the receiver lags; it never blocks a
// writer. The returned cancel func releases the subscription.
func (h *Handle) Watch() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	h.watchMu.Lock()
	id := h.nextID
	h.nextID++
	h.watchers[id] = ch
	h.watchMu.Unlock()

	cancel := func() {
		h.watchMu.Lock()
		delete(h.watchers, id)
		h.watchMu.Unlock()
	}
	return ch, cancel
}

func (h *Handle) notify(v uint64) {
	h.watchMu.Lock()
	defer h.watchMu.Unlock()
	for _, ch := range h.watchers {
		select {
		case ch <- v:
		default:
			// Slow watcher: replace the stale pending version.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}
