package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ferreadmin/internal/api"
	"ferreadmin/internal/common"
)

// Pending-write operations, replayed in queue order on reconnect.
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

type pendingOp struct {
	id         int64
	collection string
	op         string
	docID      string
	payload    []byte
}

func (r *Remote) enqueue(ctx context.Context, collection, op, docID string, payload json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_ops (collection, op, doc_id, payload)
		VALUES (?, ?, ?, ?)
	`, collection, op, docID, []byte(payload))
	if err != nil {
		return fmt.Errorf("enqueue pending write: %w", err)
	}
	return nil
}

// PendingCount reports how many writes await replay.
func (r *Remote) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_ops`).Scan(&n)
	return n, err
}

// Flush replays queued writes in order. A create that succeeds yields the
// store-assigned id; later queued writes against the same temporary id are
// remapped to it. Replay stops at the first network failure (the queue is
// retried on the next reconnect); a definitive server rejection drops the
// offending write so one poisoned entry cannot wedge the queue.
func (r *Remote) Flush(ctx context.Context) error {
	// One flush at a time: reconnect notifications and explicit calls may
	// race, and a write must not replay twice.
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, collection, op, doc_id, payload
		FROM pending_ops
		ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("read pending queue: %w", err)
	}

	var ops []pendingOp
	for rows.Next() {
		var p pendingOp
		if err := rows.Scan(&p.id, &p.collection, &p.op, &p.docID, &p.payload); err != nil {
			rows.Close()
			return err
		}
		ops = append(ops, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	idmap := make(map[string]string)

	for _, p := range ops {
		docID := p.docID
		if real, ok := idmap[docID]; ok {
			docID = real
		}

		var opErr error
		switch p.op {
		case opCreate:
			var out api.CreateDocumentResponse
			opErr = r.doJSON(ctx, http.MethodPost, "/collections/"+p.collection, p.payload, &out)
			if opErr == nil {
				idmap[p.docID] = out.ID
			}
		case opUpdate:
			opErr = r.doJSON(ctx, http.MethodPut, "/collections/"+p.collection+"/"+docID, p.payload, nil)
		case opDelete:
			opErr = r.doJSON(ctx, http.MethodDelete, "/collections/"+p.collection+"/"+docID, nil, nil)
		default:
			r.logger.Warn(ctx, "unknown pending op dropped", "op", p.op)
		}

		if opErr != nil {
			if errors.Is(opErr, common.ErrorOffline) || r.conn.Offline() {
				return opErr
			}
			r.logger.Error(ctx, "pending write rejected, dropping",
				"collection", p.collection, "op", p.op, "error", opErr)
		}

		if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_ops WHERE id = ?`, p.id); err != nil {
			return fmt.Errorf("dequeue pending write: %w", err)
		}
	}

	return nil
}
