package models

import (
	"fmt"

	"ferreadmin/internal/common"
)

// Libro is a catalog book. PdfURL holds the retrieval URL of the document
// in the blob store, set once the upload has completed.
type Libro struct {
	ID     string `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre string `json:"nombre" bson:"nombre"`
	Autor  string `json:"autor" bson:"autor"`
	Genero string `json:"genero" bson:"genero"`
	PdfURL string `json:"pdfUrl,omitempty" bson:"pdfUrl,omitempty"`
}

func (l Libro) DocID() string { return l.ID }

func (l Libro) WithDocID(id string) Libro {
	l.ID = id
	return l
}

func (l Libro) Collection() string { return common.CollectionLibros }

func (l Libro) Validate() error {
	if l.Nombre == "" {
		return fmt.Errorf("%w: nombre es requerido", common.ErrorValidation)
	}
	if l.Autor == "" {
		return fmt.Errorf("%w: autor es requerido", common.ErrorValidation)
	}
	if l.Genero == "" {
		return fmt.Errorf("%w: género es requerido", common.ErrorValidation)
	}
	return nil
}

func (l Libro) SearchValues() []string {
	return []string{l.Nombre, l.Autor, l.Genero}
}
