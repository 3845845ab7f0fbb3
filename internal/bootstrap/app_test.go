package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhhn3/docker-demo/internal/config"
	"github.com/vinhhn3/docker-demo/internal/db/mongodb"
	"github.com/vinhhn3/docker-demo/internal/logger"
	"github.com/vinhhn3/docker-demo/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// syncBuffer is written by the connect goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeDB struct {
	connect func(ctx context.Context) error
}

func (f *fakeDB) Connect(ctx context.Context) error    { return f.connect(ctx) }
func (f *fakeDB) Disconnect(ctx context.Context) error { return nil }
func (f *fakeDB) Ping(ctx context.Context) error       { return nil }

func blockingDB(release <-chan struct{}) *fakeDB {
	return &fakeDB{connect: func(ctx context.Context) error {
		<-release
		return nil
	}}
}

func newTestApp(t *testing.T, port int, database *fakeDB) (*App, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	cfg := config.DefaultConfig()
	cfg.Port = port
	return New(cfg, database, logger.New(logger.INFO, out)), out
}

// serveOnRandomPort binds port 0 and serves in the background.
func serveOnRandomPort(t *testing.T, app *App) string {
	t.Helper()
	ln, err := app.Listen()
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go app.Serve(ln)
	return fmt.Sprintf("http://127.0.0.1:%d", ln.Addr().(*net.TCPAddr).Port)
}

func getHello(t *testing.T, baseURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(baseURL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestConnectDatabase_Success(t *testing.T) {
	app, out := newTestApp(t, 0, &fakeDB{connect: func(ctx context.Context) error { return nil }})

	err := <-app.ConnectDatabase(context.Background())

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Connected to MongoDB at mongodb://localhost:27017/mydb")
}

func TestConnectDatabase_FailureIsLogged(t *testing.T) {
	app, out := newTestApp(t, 0, &fakeDB{connect: func(ctx context.Context) error {
		return errors.New("dial tcp: connection refused")
	}})

	done := app.ConnectDatabase(context.Background())
	err := <-done

	assert.EqualError(t, err, "dial tcp: connection refused")
	assert.Contains(t, out.String(), "ERROR")
	assert.Contains(t, out.String(), "MongoDB connection error: dial tcp: connection refused")

	// One result, then closed.
	_, open := <-done
	assert.False(t, open)
}

func TestConnectDatabase_NoRetry(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	app, _ := newTestApp(t, 0, &fakeDB{connect: func(ctx context.Context) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("unreachable")
	}})

	<-app.ConnectDatabase(context.Background())
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestListen_NotGatedOnDatabase(t *testing.T) {
	release := make(chan struct{})
	app, out := newTestApp(t, 0, blockingDB(release))

	done := app.ConnectDatabase(context.Background())
	baseURL := serveOnRandomPort(t, app)

	status, body := getHello(t, baseURL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello, World!", body)
	assert.Contains(t, out.String(), "Server is listening on port")

	select {
	case <-done:
		t.Fatal("connect finished before it was released")
	default:
	}

	close(release)
	assert.NoError(t, <-done)
}

func TestHello_AfterDatabaseFailure(t *testing.T) {
	app, _ := newTestApp(t, 0, &fakeDB{connect: func(ctx context.Context) error {
		return errors.New("no reachable servers")
	}})

	require.Error(t, <-app.ConnectDatabase(context.Background()))
	baseURL := serveOnRandomPort(t, app)

	status, body := getHello(t, baseURL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello, World!", body)
}

func TestStart_ServesOnConfiguredPort(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	port := freePort(t)
	app, out := newTestApp(t, port, blockingDB(release))

	go app.Start(context.Background())

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, out.String(), fmt.Sprintf("Server is listening on port %d", port))
}

func TestStart_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()
	port := occupied.Addr().(*net.TCPAddr).Port

	app, out := newTestApp(t, port, &fakeDB{connect: func(ctx context.Context) error { return nil }})

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start(context.Background()) }()

	select {
	case err := <-errCh:
		assert.Error(t, err)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to listen on port %d", port))
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not fail on an occupied port")
	}

	assert.NotContains(t, out.String(), "listening")
}

func TestStart_UnreachableMongo(t *testing.T) {
	out := &syncBuffer{}
	cfg := config.DefaultConfig()
	cfg.Port = 0
	cfg.MongoURI = "mongodb://127.0.0.1:1/mydb?serverSelectionTimeoutMS=200&connectTimeoutMS=200"

	database, err := mongodb.New(&models.Config{Provider: "mongodb", URI: cfg.MongoURI})
	require.NoError(t, err)
	app := New(cfg, database, logger.New(logger.INFO, out))

	done := app.ConnectDatabase(context.Background())
	baseURL := serveOnRandomPort(t, app)

	status, body := getHello(t, baseURL)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello, World!", body)

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("connect attempt did not resolve")
	}
	assert.Contains(t, out.String(), "MongoDB connection error")

	status, _ = getHello(t, baseURL)
	assert.Equal(t, http.StatusOK, status)
}
