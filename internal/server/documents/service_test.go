package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferreadmin/internal/common"
	"ferreadmin/internal/logging"
)

// memStore is an in-memory Store used to exercise the service without Mongo.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]json.RawMessage
	nextID int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]json.RawMessage)}
}

func (m *memStore) Insert(ctx context.Context, collection string, doc json.RawMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("doc%d", m.nextID)

	var body map[string]any
	if err := json.Unmarshal(doc, &body); err != nil {
		return "", err
	}
	body["id"] = id
	b, _ := json.Marshal(body)
	m.data[collection] = append(m.data[collection], b)
	return id, nil
}

func (m *memStore) Replace(ctx context.Context, collection string, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.data[collection] {
		var body map[string]any
		json.Unmarshal(d, &body)
		if body["id"] == id {
			var next map[string]any
			if err := json.Unmarshal(doc, &next); err != nil {
				return err
			}
			next["id"] = id
			b, _ := json.Marshal(next)
			m.data[collection][i] = b
			return nil
		}
	}
	return common.ErrorNotFound
}

func (m *memStore) Remove(ctx context.Context, collection string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.data[collection] {
		var body map[string]any
		json.Unmarshal(d, &body)
		if body["id"] == id {
			m.data[collection] = append(m.data[collection][:i], m.data[collection][i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (m *memStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]json.RawMessage, len(m.data[collection]))
	copy(out, m.data[collection])
	return out, nil
}

func newTestService() *Service {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(newMemStore(), NewHub(), logger)
}

func TestService_CreateBroadcasts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, ch, cancel, err := svc.Subscribe(ctx, "categorias")
	require.NoError(t, err)
	defer cancel()

	id, err := svc.Create(ctx, "categorias", json.RawMessage(`{"nombre":"Herramientas","descripcion":"x"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	snap := <-ch
	assert.Equal(t, int64(1), snap.Revision)
	require.Len(t, snap.Documents, 1)
	assert.Contains(t, string(snap.Documents[0]), id)
}

func TestService_CreateRejectsInvalidDocument(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), "categorias", json.RawMessage(`{"descripcion":"sin nombre"}`))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.Create(context.Background(), "productos", json.RawMessage(`{"nombre":"Taladro","precio":0,"categoria":"Herramientas"}`))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestService_UnknownCollection(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "desconocida", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, _, err = svc.List(ctx, "desconocida")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, _, _, err = svc.Subscribe(ctx, "desconocida")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, "libros", json.RawMessage(`{"nombre":"El Quijote","autor":"Cervantes","genero":"Novela"}`))
	require.NoError(t, err)

	err = svc.Update(ctx, "libros", id, json.RawMessage(`{"nombre":"El Quijote","autor":"Cervantes","genero":"Clásico"}`))
	require.NoError(t, err)

	docs, rev, err := svc.List(ctx, "libros")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, string(docs[0]), "Clásico")
	assert.Equal(t, int64(2), rev)

	err = svc.Delete(ctx, "libros", id)
	require.NoError(t, err)

	docs, _, err = svc.List(ctx, "libros")
	require.NoError(t, err)
	assert.Empty(t, docs)

	err = svc.Delete(ctx, "libros", id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestService_SubscribeInitialSnapshot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "empleados", json.RawMessage(
		`{"nombre":"Ana","apellido":"Mora","correo":"ana@x.com","telefono":"555","cedula":"1","fechaNacimiento":"1990-01-01"}`))
	require.NoError(t, err)

	initial, _, cancel, err := svc.Subscribe(ctx, "empleados")
	require.NoError(t, err)
	defer cancel()

	assert.Equal(t, int64(1), initial.Revision)
	require.Len(t, initial.Documents, 1)
}

func TestService_ProductStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "productos", json.RawMessage(`{"nombre":"Taladro","precio":120.5,"categoria":"Herramientas"}`))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "productos", json.RawMessage(`{"nombre":"Martillo","precio":35,"categoria":"Herramientas"}`))
	require.NoError(t, err)

	stats, err := svc.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Taladro", "Martillo"}, stats.Nombres)
	assert.Equal(t, []float64{120.5, 35}, stats.Precios)
}
