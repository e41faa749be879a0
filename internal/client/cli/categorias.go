package cli

import (
	"context"
	"fmt"

	"ferreadmin/internal/models"
)

func (a *App) Categorias(ctx context.Context) error {
	return browse(ctx, a, a.categorias, "Categorías",
		func(c models.Categoria) string {
			return fmt.Sprintf("%-20s %s", c.Nombre, c.Descripcion)
		},
		a.editCategoria,
	)
}

func (a *App) editCategoria(ctx context.Context, c models.Categoria, isNew bool) (models.Categoria, error) {
	var err error

	if c.Nombre, err = GetTextDefault(a.reader, "Nombre", c.Nombre, a.out); err != nil {
		return c, err
	}
	if c.Descripcion, err = GetTextDefault(a.reader, "Descripción", c.Descripcion, a.out); err != nil {
		return c, err
	}

	return c, nil
}
