// Package cli implements the interactive terminal client: a REPL with
// screens for the inventory collections, the assistant chat, weather,
// pronunciation practice and product statistics.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"time"

	"ferreadmin/internal/client/config"
	"ferreadmin/internal/client/connectivity"
	"ferreadmin/internal/client/store"
	"ferreadmin/internal/client/sync"
	"ferreadmin/internal/genai"
	"ferreadmin/internal/logging"
	"ferreadmin/internal/models"
	"ferreadmin/internal/speech"
	"ferreadmin/internal/weather"
)

type App struct {
	config *config.Config
	logger logging.Logger
	conn   *connectivity.Status
	remote *store.Remote
	db     *sql.DB

	categorias *sync.Collection[models.Categoria]
	productos  *sync.Collection[models.Producto]
	empleados  *sync.Collection[models.Empleado]
	libros     *sync.Collection[models.Libro]
	mensajes   *sync.Collection[models.ChatMessage]

	asistente *genai.Dispatcher
	clima     *weather.Client
	locator   weather.Locator
	drill     *speech.Drill

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(slogger)

	db, err := store.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		return nil, err
	}

	conn := connectivity.NewStatus(false)
	remote := store.NewRemote(c.ServerBaseURL, db, conn, logger)

	reader := bufio.NewReader(os.Stdin)

	a := &App{
		config:  c,
		logger:  logger,
		conn:    conn,
		remote:  remote,
		db:      db,
		clima:   weather.NewClient(c.WeatherBaseURL),
		locator: weather.FixedLocation{Lat: c.WeatherLatitude, Lon: c.WeatherLongitude},
		drill:   speech.NewDrill(&typedRecognizer{reader: reader}, speech.DefaultPalabras, time.Now().UnixNano()),
		reader:  reader,
		out:     os.Stdout,
	}

	a.buildCollections()

	return a, nil
}

// buildCollections (re)creates the synchronized collections and the chat
// dispatcher on top of them. Called at startup and again after logout, since
// closed collections stay closed.
func (a *App) buildCollections() {
	a.categorias = sync.NewCollection[models.Categoria](a.remote, a.conn, a.logger)
	a.productos = sync.NewCollection[models.Producto](a.remote, a.conn, a.logger)
	a.empleados = sync.NewCollection[models.Empleado](a.remote, a.conn, a.logger)
	a.libros = sync.NewCollection[models.Libro](a.remote, a.conn, a.logger)
	a.mensajes = sync.NewCollection[models.ChatMessage](a.remote, a.conn, a.logger)

	extractor := genai.NewClient(a.config.GenAIBaseURL, a.config.GenAIAPIKey)
	a.asistente = genai.NewDispatcher(extractor, a.mensajes, a.categorias)
}

func (a *App) subscribeAll(ctx context.Context) {
	for _, sub := range []interface{ Subscribe(context.Context) error }{
		a.categorias, a.productos, a.empleados, a.libros, a.mensajes,
	} {
		if err := sub.Subscribe(ctx); err != nil {
			a.logger.Warn(ctx, "subscribe failed", "error", err)
		}
	}
}

func (a *App) closeCollections() {
	a.categorias.Close()
	a.productos.Close()
	a.empleados.Close()
	a.libros.Close()
	a.mensajes.Close()
}

func (a *App) isLoggedIn() bool {
	return a.remote.LoggedIn()
}

func (a *App) Run(ctx context.Context) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := connectivity.NewWatcher(a.conn, a.remote, a.config.OnlineCheckInterval)
	go watcher.Run(ctx)

	a.resumeSession(ctx)

	a.Root(ctx)

	a.closeCollections()
	a.remote.Close()
	_ = a.db.Close()
}
