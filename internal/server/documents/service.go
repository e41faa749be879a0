package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"ferreadmin/internal/api"
	"ferreadmin/internal/common"
	"ferreadmin/internal/logging"
	"ferreadmin/internal/models"
)

// validators maps a collection name to a decode-and-validate check for its
// document shape. A collection missing here does not exist in the API.
var validators = map[string]func(json.RawMessage) error{
	common.CollectionCategorias: decodeAndValidate[models.Categoria],
	common.CollectionProductos:  decodeAndValidate[models.Producto],
	common.CollectionEmpleados:  decodeAndValidate[models.Empleado],
	common.CollectionLibros:     decodeAndValidate[models.Libro],
	common.CollectionChat:       decodeAndValidate[models.ChatMessage],
}

func decodeAndValidate[T models.Entity[T]](doc json.RawMessage) error {
	var v T
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("%w: cuerpo JSON inválido", common.ErrorValidation)
	}
	return v.Validate()
}

// Service exposes the document collections: validated CRUD over a Store plus
// snapshot broadcasting through a Hub after every mutation.
type Service struct {
	store  Store
	hub    *Hub
	logger logging.Logger
}

func NewService(store Store, hub *Hub, logger logging.Logger) *Service {
	return &Service{store: store, hub: hub, logger: logger}
}

// Hub exposes the underlying hub, mainly for wiring subscriptions.
func (s *Service) Hub() *Hub {
	return s.hub
}

func (s *Service) checkCollection(collection string) error {
	if _, ok := validators[collection]; !ok {
		return common.ErrorNotFound
	}
	return nil
}

// Create validates and inserts a document, then broadcasts the new collection
// state. Returns the store-assigned id.
func (s *Service) Create(ctx context.Context, collection string, doc json.RawMessage) (string, error) {
	if err := s.checkCollection(collection); err != nil {
		return "", err
	}
	if err := validators[collection](doc); err != nil {
		return "", err
	}

	id, err := s.store.Insert(ctx, collection, doc)
	if err != nil {
		return "", err
	}

	s.broadcast(ctx, collection)
	return id, nil
}

// Update validates and replaces an existing document, then broadcasts.
func (s *Service) Update(ctx context.Context, collection string, id string, doc json.RawMessage) error {
	if err := s.checkCollection(collection); err != nil {
		return err
	}
	if err := validators[collection](doc); err != nil {
		return err
	}

	if err := s.store.Replace(ctx, collection, id, doc); err != nil {
		return err
	}

	s.broadcast(ctx, collection)
	return nil
}

// Delete removes a document, then broadcasts.
func (s *Service) Delete(ctx context.Context, collection string, id string) error {
	if err := s.checkCollection(collection); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, collection, id); err != nil {
		return err
	}

	s.broadcast(ctx, collection)
	return nil
}

// List returns the collection contents and its current revision.
func (s *Service) List(ctx context.Context, collection string) ([]json.RawMessage, int64, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, 0, err
	}

	docs, err := s.store.List(ctx, collection)
	if err != nil {
		return nil, 0, err
	}

	return docs, s.hub.Revision(collection), nil
}

// Subscribe registers a listener and returns the initial full snapshot at the
// current revision. The caller streams subsequent frames from the channel and
// must call cancel when done.
func (s *Service) Subscribe(ctx context.Context, collection string) (api.Snapshot, <-chan api.Snapshot, func(), error) {
	if err := s.checkCollection(collection); err != nil {
		return api.Snapshot{}, nil, nil, err
	}

	ch, cancel := s.hub.Subscribe(collection)

	docs, err := s.store.List(ctx, collection)
	if err != nil {
		cancel()
		return api.Snapshot{}, nil, nil, err
	}

	return s.hub.Snapshot(collection, docs), ch, cancel, nil
}

// ProductStats extracts the chart series from the product collection:
// parallel slices of names and prices.
func (s *Service) ProductStats(ctx context.Context) (*api.ProductStats, error) {
	docs, err := s.store.List(ctx, common.CollectionProductos)
	if err != nil {
		return nil, err
	}

	stats := &api.ProductStats{Nombres: []string{}, Precios: []float64{}}
	for _, doc := range docs {
		var p models.Producto
		if err := json.Unmarshal(doc, &p); err != nil {
			s.logger.Warn(ctx, "skipping malformed product document", "error", err)
			continue
		}
		stats.Nombres = append(stats.Nombres, p.Nombre)
		stats.Precios = append(stats.Precios, p.Precio)
	}

	return stats, nil
}

// broadcast loads the full collection and publishes it as the next revision.
// A read failure only costs subscribers one frame, so it is logged, not returned.
func (s *Service) broadcast(ctx context.Context, collection string) {
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		s.logger.Error(ctx, "broadcast list failed", "collection", collection, "error", err)
		return
	}
	s.hub.Publish(collection, docs)
}
