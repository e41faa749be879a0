package cli

import (
	"context"
	"fmt"

	"ferreadmin/internal/models"
)

func (a *App) Libros(ctx context.Context) error {
	return browse(ctx, a, a.libros, "Libros",
		func(l models.Libro) string {
			pdf := ""
			if l.PdfURL != "" {
				pdf = " [pdf]"
			}
			return fmt.Sprintf("%-25s %-20s %s%s", l.Nombre, l.Autor, l.Genero, pdf)
		},
		a.editLibro,
	)
}

func (a *App) editLibro(ctx context.Context, l models.Libro, isNew bool) (models.Libro, error) {
	var err error

	if l.Nombre, err = GetTextDefault(a.reader, "Nombre", l.Nombre, a.out); err != nil {
		return l, err
	}
	if l.Autor, err = GetTextDefault(a.reader, "Autor", l.Autor, a.out); err != nil {
		return l, err
	}
	if l.Genero, err = GetTextDefault(a.reader, "Género", l.Genero, a.out); err != nil {
		return l, err
	}

	path, err := GetSimpleText(a.reader, "Ruta del PDF (Enter para conservar el actual)", a.out)
	if err != nil {
		return l, err
	}
	if path != "" {
		url, uerr := a.uploadImage(ctx, path)
		if uerr != nil {
			return l, fmt.Errorf("no se pudo subir el PDF: %w", uerr)
		}
		l.PdfURL = url
	}

	return l, nil
}
