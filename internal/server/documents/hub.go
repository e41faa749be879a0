package documents

import (
	"encoding/json"
	"sync"

	"ferreadmin/internal/api"
)

// subscriber channels are buffered; a publish never blocks on a slow reader.
// Every frame is a full snapshot, so skipped intermediates carry no loss.
const subscriberBuffer = 16

// Hub fans out collection snapshots to subscribers and owns the per-collection
// revision counters. Revisions increase monotonically so consumers can drop
// frames that arrive out of order.
type Hub struct {
	mu        sync.Mutex
	revisions map[string]int64
	subs      map[string]map[int]chan api.Snapshot
	nextSubID int
}

func NewHub() *Hub {
	return &Hub{
		revisions: make(map[string]int64),
		subs:      make(map[string]map[int]chan api.Snapshot),
	}
}

// Subscribe registers a listener for one collection. The returned cancel
// function must be called to release the subscription; the channel is closed
// by cancel.
func (h *Hub) Subscribe(collection string) (<-chan api.Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan api.Snapshot, subscriberBuffer)
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]chan api.Snapshot)
	}
	id := h.nextSubID
	h.nextSubID++
	h.subs[collection][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if existing, ok := h.subs[collection][id]; ok {
			delete(h.subs[collection], id)
			close(existing)
		}
	}

	return ch, cancel
}

// Publish bumps the collection revision and sends the snapshot to every
// subscriber. A subscriber whose buffer is full has its oldest frame
// evicted first, so the channel always ends up holding the newest revision.
func (h *Hub) Publish(collection string, docs []json.RawMessage) api.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.revisions[collection]++
	snap := api.Snapshot{
		Collection: collection,
		Revision:   h.revisions[collection],
		Documents:  docs,
	}

	for _, ch := range h.subs[collection] {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch: // evict the oldest frame
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}

	return snap
}

// Revision returns the current revision of a collection.
func (h *Hub) Revision(collection string) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revisions[collection]
}

// Snapshot builds a frame at the current revision without bumping it.
// Used to seed a fresh subscriber with the current state.
func (h *Hub) Snapshot(collection string, docs []json.RawMessage) api.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return api.Snapshot{
		Collection: collection,
		Revision:   h.revisions[collection],
		Documents:  docs,
	}
}
