package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"ferreadmin/internal/models"
)

func (a *App) Productos(ctx context.Context) error {
	return browse(ctx, a, a.productos, "Productos",
		func(p models.Producto) string {
			img := ""
			if p.Imagen != "" {
				img = " [img]"
			}
			return fmt.Sprintf("%-20s $%-10.2f %s%s", p.Nombre, p.Precio, p.Categoria, img)
		},
		a.editProducto,
	)
}

func (a *App) editProducto(ctx context.Context, p models.Producto, isNew bool) (models.Producto, error) {
	var err error

	if p.Nombre, err = GetTextDefault(a.reader, "Nombre", p.Nombre, a.out); err != nil {
		return p, err
	}
	if p.Precio, err = GetFloat(a.reader, "Precio", p.Precio, a.out); err != nil {
		return p, err
	}
	if p.Categoria, err = GetTextDefault(a.reader, "Categoría", p.Categoria, a.out); err != nil {
		return p, err
	}

	path, err := GetSimpleText(a.reader, "Ruta de imagen (Enter para conservar la actual)", a.out)
	if err != nil {
		return p, err
	}
	if path != "" {
		url, uerr := a.uploadImage(ctx, path)
		if uerr != nil {
			return p, fmt.Errorf("no se pudo subir la imagen: %w", uerr)
		}
		p.Imagen = url
	}

	return p, nil
}

// uploadImage pushes a local file to the blob store and returns its
// retrieval URL. The document keeps the new URL only after the upload
// finished, so a failed upload never leaves a broken reference.
func (a *App) uploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	contentType := http.DetectContentType(data)

	_, url, err := a.remote.UploadBlob(ctx, data, contentType)
	if err != nil {
		return "", err
	}
	return url, nil
}
