package models

import (
	"fmt"

	"ferreadmin/internal/common"
)

// Categoria groups products under a name. Products reference it by name
// only (denormalized): deleting a categoría does not cascade.
type Categoria struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre      string `json:"nombre" bson:"nombre"`
	Descripcion string `json:"descripcion" bson:"descripcion"`
}

func (c Categoria) DocID() string { return c.ID }

func (c Categoria) WithDocID(id string) Categoria {
	c.ID = id
	return c
}

func (c Categoria) Collection() string { return common.CollectionCategorias }

func (c Categoria) Validate() error {
	if c.Nombre == "" {
		return fmt.Errorf("%w: nombre es requerido", common.ErrorValidation)
	}
	if c.Descripcion == "" {
		return fmt.Errorf("%w: descripción es requerida", common.ErrorValidation)
	}
	return nil
}

func (c Categoria) SearchValues() []string {
	return []string{c.Nombre, c.Descripcion}
}
