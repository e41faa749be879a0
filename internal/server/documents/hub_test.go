package documents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferreadmin/internal/api"
)

func TestHub_PublishBumpsRevision(t *testing.T) {
	h := NewHub()

	assert.Equal(t, int64(0), h.Revision("categorias"))

	snap := h.Publish("categorias", []json.RawMessage{json.RawMessage(`{"id":"1"}`)})
	assert.Equal(t, int64(1), snap.Revision)
	assert.Equal(t, "categorias", snap.Collection)

	snap = h.Publish("categorias", nil)
	assert.Equal(t, int64(2), snap.Revision)

	// other collections keep independent counters
	assert.Equal(t, int64(0), h.Revision("productos"))
}

func TestHub_SubscribeReceivesPublishedFrames(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("productos")
	defer cancel()

	h.Publish("productos", []json.RawMessage{json.RawMessage(`{"id":"a"}`)})

	snap := <-ch
	require.Len(t, snap.Documents, 1)
	assert.Equal(t, int64(1), snap.Revision)

	// frames for other collections are not delivered
	h.Publish("categorias", nil)
	select {
	case got := <-ch:
		t.Fatalf("unexpected frame: %+v", got)
	default:
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("libros")
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	h.Publish("libros", nil)

	// cancel is idempotent
	cancel()
}

func TestHub_SlowSubscriberKeepsNewestFrameWithoutBlocking(t *testing.T) {
	h := NewHub()

	ch, cancel := h.Subscribe("empleados")
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish("empleados", nil)
	}

	// a full buffer evicts oldest first: frames 1..5 are gone,
	// the newest revision is still queued
	first := <-ch
	assert.Equal(t, int64(6), first.Revision)

	var last api.Snapshot
	for i := 1; i < subscriberBuffer; i++ {
		last = <-ch
	}
	assert.Equal(t, int64(subscriberBuffer+5), last.Revision)
	assert.Equal(t, int64(subscriberBuffer+5), h.Revision("empleados"))
}
