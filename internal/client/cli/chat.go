package cli

import (
	"context"
	"fmt"
	"sort"

	"ferreadmin/internal/models"
)

// Chat runs the assistant screen. Each line the user types is posted to the
// conversation and handed to the assistant, which may register a category
// from it. An empty line leaves the screen.
func (a *App) Chat(ctx context.Context) error {

	if a.config.GenAIAPIKey == "" {
		fmt.Fprintln(a.out, "El chat requiere una clave de API (flag -k o archivo de configuración).")
		return nil
	}

	if err := a.mensajes.Subscribe(ctx); err != nil {
		fmt.Fprintf(a.out, "No se pudo suscribir: %v\n", err)
	}

	fmt.Fprintln(a.out, "== Asistente == (Enter en una línea vacía para volver)")

	for {
		a.printConversation()

		texto, err := GetSimpleText(a.reader, "Mensaje", a.out)
		if err != nil {
			return err
		}
		if texto == "" {
			return nil
		}

		if err := a.asistente.Send(ctx, texto); err != nil {
			fmt.Fprintf(a.out, "! %v\n", err)
		}
	}
}

const chatTail = 10

func (a *App) printConversation() {
	msgs := a.mensajes.List()
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	start := 0
	if len(msgs) > chatTail {
		start = len(msgs) - chatTail
	}
	for _, m := range msgs[start:] {
		prefix := "tú"
		if m.Emisor == models.EmisorIA {
			prefix = "ia"
		}
		fmt.Fprintf(a.out, "[%s] %s\n", prefix, m.Texto)
	}
}
