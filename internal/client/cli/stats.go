package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ferreadmin/internal/api"
)

const statsBarWidth = 40

// Stats renders the product price chart as horizontal bars.
func (a *App) Stats(ctx context.Context) error {

	stats, err := a.remote.ProductStats(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "No se pudieron obtener las estadísticas: %v\n", err)
		return err
	}

	if err := renderProductStats(a.out, stats); err != nil {
		fmt.Fprintf(a.out, "! %v\n", err)
		return err
	}
	return nil
}

// renderProductStats writes the bar chart. Nombres and Precios are parallel
// series; a mismatched reply is rejected rather than indexed.
func renderProductStats(w io.Writer, stats *api.ProductStats) error {
	if len(stats.Nombres) != len(stats.Precios) {
		return fmt.Errorf("series de estadísticas desparejas: %d nombres, %d precios",
			len(stats.Nombres), len(stats.Precios))
	}

	if len(stats.Nombres) == 0 {
		fmt.Fprintln(w, "(sin productos)")
		return nil
	}

	max := 0.0
	for _, p := range stats.Precios {
		if p > max {
			max = p
		}
	}

	fmt.Fprintln(w, "== Precios de productos ==")
	for i, nombre := range stats.Nombres {
		precio := stats.Precios[i]
		width := 0
		if max > 0 {
			width = int(precio / max * statsBarWidth)
		}
		fmt.Fprintf(w, "%-20s %s $%.2f\n", nombre, strings.Repeat("█", width), precio)
	}

	return nil
}
