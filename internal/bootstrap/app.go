package bootstrap

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/vinhhn3/docker-demo/internal/api"
	"github.com/vinhhn3/docker-demo/internal/config"
	"github.com/vinhhn3/docker-demo/internal/db"
	"github.com/vinhhn3/docker-demo/internal/db/mongodb"
	"github.com/vinhhn3/docker-demo/internal/logger"
)

// App wires configuration, the database connect attempt and the HTTP listener.
type App struct {
	cfg      *config.Config
	database db.NoSQLDatabase
	server   *api.Server
	log      *logger.Logger
}

// New creates the application. Nothing is opened until Start.
func New(cfg *config.Config, database db.NoSQLDatabase, log *logger.Logger) *App {
	if log == nil {
		log = logger.GetLogger()
	}
	return &App{
		cfg:      cfg,
		database: database,
		server:   api.NewServer(log),
		log:      log,
	}
}

// Handler exposes the HTTP handler serving the route table.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Start begins the database connect attempt, binds the listener and serves
// until the process dies. The listener does not wait on the database.
// A bind failure is returned as is, without the listening notice.
func (a *App) Start(ctx context.Context) error {
	a.ConnectDatabase(ctx)

	ln, err := a.Listen()
	if err != nil {
		return err
	}

	return a.Serve(ln)
}

// ConnectDatabase starts the connect attempt on its own goroutine and returns
// a channel that receives its result exactly once and is then closed.
// A failure is logged and never retried.
func (a *App) ConnectDatabase(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		if err := a.database.Connect(ctx); err != nil {
			a.log.Error("MongoDB connection error: %v", err)
			done <- err
			return
		}

		a.log.Info("Connected to MongoDB at %s", mongodb.RedactURI(a.cfg.MongoURI))
		done <- nil
	}()

	return done
}

// Listen binds the configured port.
func (a *App) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", a.cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", a.cfg.Port, err)
	}

	a.log.Info("Server is listening on port %d", listenerPort(ln, a.cfg.Port))
	return ln, nil
}

// Serve accepts connections on ln until it fails.
func (a *App) Serve(ln net.Listener) error {
	return a.server.Run(ln)
}

// listenerPort reports the bound port, which differs from the configured one
// only when port 0 was requested.
func listenerPort(ln net.Listener, fallback int) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return fallback
}
