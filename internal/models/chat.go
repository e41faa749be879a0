package models

import (
	"fmt"
	"time"

	"ferreadmin/internal/common"
)

// Chat message senders.
const (
	EmisorUsuario = "usuario"
	EmisorIA      = "ia"
)

// ChatMessage is one entry of the assistant conversation, ordered by
// Timestamp.
type ChatMessage struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Texto     string    `json:"texto" bson:"texto"`
	Emisor    string    `json:"emisor" bson:"emisor"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

func (m ChatMessage) DocID() string { return m.ID }

func (m ChatMessage) WithDocID(id string) ChatMessage {
	m.ID = id
	return m
}

func (m ChatMessage) Collection() string { return common.CollectionChat }

func (m ChatMessage) Validate() error {
	if m.Texto == "" {
		return fmt.Errorf("%w: texto es requerido", common.ErrorValidation)
	}
	if m.Emisor != EmisorUsuario && m.Emisor != EmisorIA {
		return fmt.Errorf("%w: emisor desconocido %q", common.ErrorValidation, m.Emisor)
	}
	return nil
}

func (m ChatMessage) SearchValues() []string {
	return []string{m.Texto}
}
