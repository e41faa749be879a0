package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Registrar(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Categorias(ctx context.Context) error
	Productos(ctx context.Context) error
	Empleados(ctx context.Context) error
	Libros(ctx context.Context) error
	Chat(ctx context.Context) error
	Clima(ctx context.Context) error
	Pronunciacion(ctx context.Context) error
	Stats(ctx context.Context) error
}

// runREPL starts the read-eval-print loop of the FerreAdmin CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "salir" or "exit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ferreadmin %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help", "ayuda":
			if a.isLoggedIn() {
				printlnFn("Comandos: categorias, productos, empleados, libros, chat, clima, pronunciacion, stats, logout, salir")
			} else {
				printlnFn("Comandos: registrar, login, salir")
			}

		case "registrar":
			_ = a.Registrar(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "categorias":
			_ = a.Categorias(ctx)

		case "productos":
			_ = a.Productos(ctx)

		case "empleados":
			_ = a.Empleados(ctx)

		case "libros":
			_ = a.Libros(ctx)

		case "chat":
			_ = a.Chat(ctx)

		case "clima":
			_ = a.Clima(ctx)

		case "pronunciacion":
			_ = a.Pronunciacion(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "salir", "exit", "quit":
			printlnFn("¡Hasta luego!")
			return

		default:
			printlnFn("Comando desconocido:", cmd)
		}
	}
}
