// Package models defines the business entities stored in the remote document
// collections: categorías, productos, empleados, libros and chat messages.
//
// Field names follow the document schema of the store (Spanish), so JSON and
// BSON tags match what the collections actually contain.
package models

import (
	"strings"

	"ferreadmin/internal/common"

	"github.com/google/uuid"
)

// Entity is the constraint shared by all synchronized document types.
//
// WithDocID returns a copy with the id replaced; entities are treated as
// values so optimistic snapshots can be kept without aliasing.
type Entity[T any] interface {
	DocID() string
	WithDocID(id string) T
	Collection() string
	Validate() error
	// SearchValues returns the field values the search box matches against.
	SearchValues() []string
}

// NewTempID returns a locally assigned identifier for a document that has
// not been confirmed by the store yet. Store-assigned ids (Mongo hex) never
// carry the prefix, so collisions are impossible.
func NewTempID() string {
	return common.TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was assigned locally by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, common.TempIDPrefix)
}
