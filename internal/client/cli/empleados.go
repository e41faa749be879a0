package cli

import (
	"context"
	"fmt"

	"ferreadmin/internal/models"
)

func (a *App) Empleados(ctx context.Context) error {
	return browse(ctx, a, a.empleados, "Empleados",
		func(e models.Empleado) string {
			return fmt.Sprintf("%-15s %-15s %-25s %s", e.Nombre, e.Apellido, e.Correo, e.Telefono)
		},
		a.editEmpleado,
	)
}

func (a *App) editEmpleado(ctx context.Context, e models.Empleado, isNew bool) (models.Empleado, error) {
	var err error

	if e.Nombre, err = GetTextDefault(a.reader, "Nombre", e.Nombre, a.out); err != nil {
		return e, err
	}
	if e.Apellido, err = GetTextDefault(a.reader, "Apellido", e.Apellido, a.out); err != nil {
		return e, err
	}
	if e.Correo, err = GetTextDefault(a.reader, "Correo", e.Correo, a.out); err != nil {
		return e, err
	}
	if e.Telefono, err = GetTextDefault(a.reader, "Teléfono", e.Telefono, a.out); err != nil {
		return e, err
	}
	if e.Cedula, err = GetTextDefault(a.reader, "Cédula", e.Cedula, a.out); err != nil {
		return e, err
	}
	if e.FechaNacimiento, err = GetTextDefault(a.reader, "Fecha de nacimiento (AAAA-MM-DD)", e.FechaNacimiento, a.out); err != nil {
		return e, err
	}

	return e, nil
}
