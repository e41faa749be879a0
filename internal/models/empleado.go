package models

import (
	"fmt"

	"ferreadmin/internal/common"
)

// Empleado is a staff record. FechaNacimiento is kept as the "YYYY-MM-DD"
// string the forms produce.
type Empleado struct {
	ID              string `json:"id,omitempty" bson:"_id,omitempty"`
	Nombre          string `json:"nombre" bson:"nombre"`
	Apellido        string `json:"apellido" bson:"apellido"`
	Correo          string `json:"correo" bson:"correo"`
	Telefono        string `json:"telefono" bson:"telefono"`
	Cedula          string `json:"cedula" bson:"cedula"`
	FechaNacimiento string `json:"fechaNacimiento" bson:"fechaNacimiento"`
}

func (e Empleado) DocID() string { return e.ID }

func (e Empleado) WithDocID(id string) Empleado {
	e.ID = id
	return e
}

func (e Empleado) Collection() string { return common.CollectionEmpleados }

func (e Empleado) Validate() error {
	required := []struct {
		value string
		name  string
	}{
		{e.Nombre, "nombre"},
		{e.Apellido, "apellido"},
		{e.Correo, "correo"},
		{e.Telefono, "teléfono"},
		{e.Cedula, "cédula"},
		{e.FechaNacimiento, "fecha de nacimiento"},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s es requerido", common.ErrorValidation, f.name)
		}
	}
	return nil
}

func (e Empleado) SearchValues() []string {
	return []string{e.Nombre, e.Apellido, e.Correo}
}
