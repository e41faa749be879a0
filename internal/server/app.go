// Package server initializes and runs the application server: it connects the
// auth database and the document store, applies migrations, and serves the
// HTTP API until interrupted.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"ferreadmin/internal/logging"
	"ferreadmin/internal/server/config"
	"ferreadmin/internal/server/documents"
	"ferreadmin/internal/server/httpapi"
	"ferreadmin/internal/server/repositories/repomanager"
	"ferreadmin/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	mongoClient *mongo.Client
	httpServer  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := logging.NewZapLogger(zl.Sugar())

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mgr, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	if err := mgr.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo init error: %w", err)
	}

	store := documents.NewMongoStore(mongoClient.Database(cfg.MongoDatabase))
	docs := documents.NewService(store, documents.NewHub(), logger)

	users := services.NewUserService(db, mgr, cfg)
	blobs := services.NewBlobService(cfg)

	httpServer := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, users, docs, blobs, cfg.SecretKey)

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		mongoClient: mongoClient,
		httpServer:  httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if err := app.mongoClient.Disconnect(context.Background()); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
