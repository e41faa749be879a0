package cli

import (
	"context"
	"fmt"
)

// Clima prints today's hourly temperature forecast for the configured
// location.
func (a *App) Clima(ctx context.Context) error {

	lat, lon, err := a.locator.CurrentPosition(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "No se pudo obtener la ubicación: %v\n", err)
		return err
	}

	readings, err := a.clima.HourlyForecast(ctx, lat, lon)
	if err != nil {
		fmt.Fprintf(a.out, "No se pudo obtener el pronóstico: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "== Clima de hoy ==")
	for _, r := range readings {
		fmt.Fprintf(a.out, "%s  %5.1f °C\n", r.Hora.Format("15:04"), r.Temperatura)
	}

	return nil
}
