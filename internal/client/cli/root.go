package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = "sesión activa "
	}
	if a.conn.Offline() {
		s += "(sin conexión)"
	} else {
		s += "(en línea)"
	}
	if n, err := a.remote.PendingCount(context.Background()); err == nil && n > 0 {
		s += fmt.Sprintf(" [%d pendientes]", n)
	}
	return s
}

func (a *App) Root(ctx context.Context) {
	printlnFn("FerreAdmin CLI (escribe 'ayuda' para ver los comandos)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
