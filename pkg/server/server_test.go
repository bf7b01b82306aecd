package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/server/router"
	"github.com/nimburion/storefront/pkg/server/router/factory"
)

func newRouter(t *testing.T, routerType string) router.Router {
	t.Helper()
	r, err := factory.NewRouter(routerType)
	if err != nil {
		t.Fatalf("create %s router: %v", routerType, err)
	}
	return r
}

func TestServerServeAndShutdown(t *testing.T) {
	r := newRouter(t, "gin")
	r.GET("/ping", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := NewServer(Config{ReadTimeout: time.Second, WriteTimeout: time.Second}, r, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Serve(ctx, listener) }()

	resp, err := waitForServer("http://" + listener.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("server shutdown failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("server shutdown timed out")
	}
}

func TestServerStartFailsOnBusyPort(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	srv := NewServer(Config{Port: port}, newRouter(t, "gin"), logger.NewNop())
	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("expected error when port is already bound")
	}
}

func TestNewServerDefaultsShutdownTimeout(t *testing.T) {
	srv := NewServer(Config{Port: 8080}, newRouter(t, "gorilla"), logger.NewNop())
	if srv.config.ShutdownTimeout != DefaultShutdownTimeout {
		t.Fatalf("expected %s, got %s", DefaultShutdownTimeout, srv.config.ShutdownTimeout)
	}
	if srv.httpServer.Addr != ":8080" {
		t.Fatalf("expected addr :8080, got %s", srv.httpServer.Addr)
	}
}

func waitForServer(url string) (*http.Response, error) {
	var lastErr error
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		time.Sleep(20 * time.Millisecond)
	}
	return nil, lastErr
}
