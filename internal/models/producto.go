package models

import (
	"fmt"

	"ferreadmin/internal/common"
)

// Producto is an inventory item. Categoria holds the name of a Categoria
// document (no foreign key). Imagen is the retrieval URL of the product
// image in the blob store; it is optional.
type Producto struct {
	ID        string  `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre    string  `json:"nombre" bson:"nombre"`
	Precio    float64 `json:"precio" bson:"precio"`
	Categoria string  `json:"categoria" bson:"categoria"`
	Imagen    string  `json:"imagen,omitempty" bson:"imagen,omitempty"`
}

func (p Producto) DocID() string { return p.ID }

func (p Producto) WithDocID(id string) Producto {
	p.ID = id
	return p
}

func (p Producto) Collection() string { return common.CollectionProductos }

func (p Producto) Validate() error {
	if p.Nombre == "" {
		return fmt.Errorf("%w: nombre es requerido", common.ErrorValidation)
	}
	if p.Precio <= 0 {
		return fmt.Errorf("%w: precio es requerido", common.ErrorValidation)
	}
	if p.Categoria == "" {
		return fmt.Errorf("%w: categoría es requerida", common.ErrorValidation)
	}
	return nil
}

func (p Producto) SearchValues() []string {
	return []string{p.Nombre, p.Categoria}
}
