package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// typedRecognizer reads the "spoken" word from the terminal. It stands in
// for a microphone-based recognizer, which has no place in a text UI.
type typedRecognizer struct {
	reader *bufio.Reader
}

func (r *typedRecognizer) Listen(ctx context.Context) (string, error) {
	line, err := r.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Pronunciacion runs the English practice drill: the app shows a word, the
// user pronounces (types) it, and gets a verdict. "otra" picks a new word,
// an empty line leaves the screen.
func (a *App) Pronunciacion(ctx context.Context) error {

	fmt.Fprintln(a.out, "== Práctica de pronunciación == ('otra' para cambiar de palabra, Enter vacío para volver)")

	for {
		fmt.Fprintf(a.out, "Pronuncia: %s\n> ", a.drill.Palabra())

		res, err := a.drill.Intentar(ctx)
		if err != nil {
			return err
		}

		switch {
		case res.Texto == "":
			return nil
		case strings.EqualFold(res.Texto, "otra"):
			a.drill.NuevaPalabra()
		case res.Correcto:
			fmt.Fprintln(a.out, "¡Correcto!")
			a.drill.NuevaPalabra()
		default:
			fmt.Fprintf(a.out, "Se escuchó %q. Inténtalo de nuevo.\n", res.Texto)
		}
	}
}
