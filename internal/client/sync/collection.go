// Package sync implements the synchronized collection controller: an
// in-memory list mirroring one remote document collection under
// optimistic-update discipline.
//
// Every user mutation is applied to the local list first so the UI reflects
// it immediately, then written to the remote store. Online failures roll the
// optimistic change back; while offline the change stands as pending and the
// platform queue replays the write once connectivity resumes. Change
// notifications replace the authoritative list wholesale, so out-of-order
// frames can never produce a partially merged state.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdsync "sync"

	"ferreadmin/internal/api"
	"ferreadmin/internal/client/connectivity"
	"ferreadmin/internal/common"
	"ferreadmin/internal/logging"
	"ferreadmin/internal/models"
)

// Snapshot is one change notification: the full contents of a collection at
// a given revision.
type Snapshot = api.Snapshot

// Store is the remote document store contract (subscribe for changes plus
// request/response writes). Writes issued while offline are queued and
// replayed transparently by the implementation. Create takes the caller's
// temporary id so a queued create can be correlated with later queued
// writes against the same document.
type Store interface {
	Subscribe(collection string, onSnapshot func(Snapshot), onError func(error)) (func(), error)
	Create(ctx context.Context, collection, tempID string, doc json.RawMessage) (string, error)
	Update(ctx context.Context, collection, id string, doc json.RawMessage) error
	Delete(ctx context.Context, collection, id string) error
}

// Collection keeps a local list of T synchronized with one remote
// collection. One instance per entity type; the consuming view reads
// List()/Err()/Notice() and re-renders on the OnChange callback.
type Collection[T models.Entity[T]] struct {
	store  Store
	conn   connectivity.Provider
	logger logging.Logger
	name   string

	mu       stdsync.Mutex
	list     []T
	revision int64
	lastErr  error
	notice   string
	onChange func()
	unsub    func()
	closed   bool
}

// NewCollection builds a controller for the collection named by the zero
// value of T.
func NewCollection[T models.Entity[T]](store Store, conn connectivity.Provider, logger logging.Logger) *Collection[T] {
	var zero T
	name := zero.Collection()
	return &Collection[T]{
		store:  store,
		conn:   conn,
		logger: logger.With("collection", name),
		name:   name,
	}
}

// OnChange registers the re-render callback. It is invoked (without the
// lock held) after every visible state change.
func (c *Collection[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Collection[T]) notifyChange() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// List returns a copy of the authoritative list.
func (c *Collection[T]) List() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.list...)
}

// Err returns the last surfaced error, if any. Last error wins; there is no
// queue.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearErr resets the error channel (the view dismissed the message).
func (c *Collection[T]) ClearErr() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

// Notice returns the current informational (non-error) message, e.g.
// "guardado localmente, pendiente de sincronización".
func (c *Collection[T]) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// Subscribe establishes the standing subscription. Calling it again while
// subscribed is a no-op.
func (c *Collection[T]) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	if c.unsub != nil || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	unsub, err := c.store.Subscribe(c.name, c.applySnapshot, c.onSubscribeError)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.name, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		unsub()
		return nil
	}
	c.unsub = unsub
	c.mu.Unlock()
	return nil
}

// Close detaches the subscription and discards the results of any in-flight
// writes. Safe to call more than once.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.closed = true
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// applySnapshot replaces the authoritative list with the notification's
// contents. Stale frames (revision already seen) are dropped. While offline,
// entries awaiting a queued create are carried over so a cached snapshot
// replay cannot erase them.
func (c *Collection[T]) applySnapshot(snap Snapshot) {
	decoded := make([]T, 0, len(snap.Documents))
	for _, raw := range snap.Documents {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Error(context.Background(), "malformed document in snapshot", "error", err)
			continue
		}
		decoded = append(decoded, item)
	}

	c.mu.Lock()
	if c.closed || (snap.Revision != 0 && snap.Revision < c.revision) {
		c.mu.Unlock()
		return
	}
	c.revision = snap.Revision

	if c.conn.Offline() {
		for _, item := range c.list {
			if models.IsTempID(item.DocID()) {
				decoded = append(decoded, item)
			}
		}
	}
	c.list = decoded
	c.mu.Unlock()

	c.notifyChange()
}

// onSubscribeError handles errors from the subscription channel. Offline
// they are expected (the cached snapshot serves the view); online they
// indicate a store-side problem and are surfaced.
func (c *Collection[T]) onSubscribeError(err error) {
	ctx := context.Background()
	if c.conn.Offline() {
		c.logger.Info(ctx, "subscription interrupted while offline", "error", err)
		return
	}
	c.logger.Error(ctx, "subscription error", "error", err)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.lastErr = err
	c.mu.Unlock()
	c.notifyChange()
}

// Create validates the draft, appends it optimistically under a temporary
// id and issues the remote create. Validation failures reject the draft
// before any mutation or remote call. An online write failure removes the
// temporary entry; offline the entry stands as pending.
func (c *Collection[T]) Create(ctx context.Context, draft T) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	tempID := models.NewTempID()
	optimistic := draft.WithDocID(tempID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.list = append(c.list, optimistic)
	c.mu.Unlock()
	c.notifyChange()

	// The document is sent without an id: the store assigns one.
	raw, err := json.Marshal(draft.WithDocID(""))
	if err != nil {
		c.rollbackCreate(tempID, err)
		return nil
	}

	if _, err := c.store.Create(ctx, c.name, tempID, raw); err != nil {
		if c.isOffline(err) {
			c.setNotice("guardado localmente, pendiente de sincronización")
			return nil
		}
		c.rollbackCreate(tempID, err)
		return nil
	}

	if c.conn.Offline() {
		c.setNotice("guardado localmente, pendiente de sincronización")
	}
	// Online success needs no manual reconciliation: the next snapshot
	// supersedes the temporary entry.
	return nil
}

func (c *Collection[T]) rollbackCreate(tempID string, cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	for i, item := range c.list {
		if item.DocID() == tempID {
			c.list = append(c.list[:i], c.list[i+1:]...)
			break
		}
	}
	c.lastErr = cause
	c.mu.Unlock()
	c.notifyChange()
}

// Update validates the patch, applies it in place optimistically and issues
// the remote update. Online failure reverts to the previous version;
// offline the patch stands as pending.
func (c *Collection[T]) Update(ctx context.Context, id string, patch T) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	patched := patch.WithDocID(id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	idx := -1
	var prev T
	for i, item := range c.list {
		if item.DocID() == id {
			idx, prev = i, item
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("update %s: %w", id, common.ErrorNotFound)
	}
	c.list[idx] = patched
	c.mu.Unlock()
	c.notifyChange()

	raw, err := json.Marshal(patch.WithDocID(""))
	if err != nil {
		c.rollbackUpdate(id, prev, err)
		return nil
	}

	if err := c.store.Update(ctx, c.name, id, raw); err != nil {
		if c.isOffline(err) {
			c.setNotice("actualizado localmente, pendiente de sincronización")
			return nil
		}
		c.rollbackUpdate(id, prev, err)
		return nil
	}

	if c.conn.Offline() {
		c.setNotice("actualizado localmente, pendiente de sincronización")
	}
	return nil
}

func (c *Collection[T]) rollbackUpdate(id string, prev T, cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	for i, item := range c.list {
		if item.DocID() == id {
			c.list[i] = prev
			break
		}
	}
	c.lastErr = cause
	c.mu.Unlock()
	c.notifyChange()
}

// Delete removes the entity optimistically and issues the remote delete.
// Online failure reinserts the entity at its original position; offline the
// removal stands as pending.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	idx := -1
	var removed T
	for i, item := range c.list {
		if item.DocID() == id {
			idx, removed = i, item
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, common.ErrorNotFound)
	}
	c.list = append(c.list[:idx], c.list[idx+1:]...)
	c.mu.Unlock()
	c.notifyChange()

	if err := c.store.Delete(ctx, c.name, id); err != nil {
		if c.isOffline(err) {
			c.setNotice("eliminado localmente, pendiente de sincronización")
			return nil
		}
		c.rollbackDelete(idx, removed, err)
		return nil
	}

	if c.conn.Offline() {
		c.setNotice("eliminado localmente, pendiente de sincronización")
	}
	return nil
}

func (c *Collection[T]) rollbackDelete(idx int, removed T, cause error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if idx > len(c.list) {
		idx = len(c.list)
	}
	c.list = append(c.list[:idx], append([]T{removed}, c.list[idx:]...)...)
	c.lastErr = cause
	c.mu.Unlock()
	c.notifyChange()
}

func (c *Collection[T]) isOffline(err error) bool {
	return errors.Is(err, common.ErrorOffline) || c.conn.Offline()
}

func (c *Collection[T]) setNotice(msg string) {
	c.mu.Lock()
	c.notice = msg
	c.mu.Unlock()
	c.notifyChange()
}
