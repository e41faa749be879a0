package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ferreadmin/internal/client/sync"
	"ferreadmin/internal/client/view"
	"ferreadmin/internal/models"
)

// editorFn prompts for the fields of one entity. current carries the values
// being edited; for a new entity it is the zero value.
type editorFn[T any] func(ctx context.Context, current T, isNew bool) (T, error)

// browse runs the interactive screen of one collection: a filtered,
// paginated table plus add/edit/delete commands. Mutations go through the
// synchronized collection, so the table reflects optimistic state and any
// pending or reverted writes show up via the collection notice and error.
func browse[T models.Entity[T]](ctx context.Context, a *App, col *sync.Collection[T], titulo string, render func(T) string, editor editorFn[T]) error {

	if err := col.Subscribe(ctx); err != nil {
		fmt.Fprintf(a.out, "No se pudo suscribir: %v\n", err)
	}

	search := ""
	page := 1

	for {
		list := col.List()
		filtered := view.Filter(list, search)
		pages := view.PageCount(len(filtered), view.DefaultPageSize)
		if page > pages {
			page = pages
		}
		if page < 1 {
			page = 1
		}
		items := view.Paginate(filtered, view.DefaultPageSize, page)

		fmt.Fprintf(a.out, "\n== %s == pág %d/%d", titulo, page, pages)
		if search != "" {
			fmt.Fprintf(a.out, "  búsqueda: %q", search)
		}
		fmt.Fprintln(a.out)

		if notice := col.Notice(); notice != "" {
			fmt.Fprintln(a.out, "· "+notice)
		}
		if err := col.Err(); err != nil {
			fmt.Fprintf(a.out, "! %v\n", err)
			col.ClearErr()
		}

		if len(items) == 0 {
			fmt.Fprintln(a.out, "(sin resultados)")
		}
		for i, it := range items {
			fmt.Fprintf(a.out, "%d) %s\n", i+1, render(it))
		}

		line, err := GetSimpleText(a.reader,
			"buscar <texto> | sig | ant | agregar | editar <n> | borrar <n> | volver", a.out)
		if err != nil {
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch strings.ToLower(parts[0]) {
		case "volver", "salir":
			return nil

		case "buscar":
			search = strings.Join(parts[1:], " ")
			page = 1

		case "sig":
			page++

		case "ant":
			page--

		case "agregar":
			var zero T
			draft, err := editor(ctx, zero, true)
			if err != nil {
				fmt.Fprintf(a.out, "! %v\n", err)
				continue
			}
			if err := col.Create(ctx, draft); err != nil {
				fmt.Fprintf(a.out, "! %v\n", err)
			}

		case "editar":
			item, ok := pickItem(a, items, parts)
			if !ok {
				continue
			}
			updated, err := editor(ctx, item, false)
			if err != nil {
				fmt.Fprintf(a.out, "! %v\n", err)
				continue
			}
			if err := col.Update(ctx, item.DocID(), updated); err != nil {
				fmt.Fprintf(a.out, "! %v\n", err)
			}

		case "borrar":
			item, ok := pickItem(a, items, parts)
			if !ok {
				continue
			}
			if err := col.Delete(ctx, item.DocID()); err != nil {
				fmt.Fprintf(a.out, "! %v\n", err)
			}

		default:
			fmt.Fprintln(a.out, "Comando desconocido:", parts[0])
		}
	}
}

// pickItem resolves the "<n>" argument of editar/borrar against the visible page.
func pickItem[T any](a *App, items []T, parts []string) (T, bool) {
	var zero T
	if len(parts) < 2 {
		fmt.Fprintln(a.out, "Uso:", parts[0], "<n>")
		return zero, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 || n > len(items) {
		fmt.Fprintln(a.out, "Número fuera de rango:", parts[1])
		return zero, false
	}
	return items[n-1], true
}
