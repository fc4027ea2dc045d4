package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/sjyoon/taskhub-api/internal/engine"
	apihttp "github.com/sjyoon/taskhub-api/internal/http"
	"github.com/sjyoon/taskhub-api/internal/middleware"
	"github.com/sjyoon/taskhub-api/internal/service"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	defer l.Close()
	_, portStr, _ := net.SplitHostPort(l.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return port
}

func TestServer_StartAndShutdown(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	port := freePort(t)

	engines := engine.NewManager(engine.Repos{
		Todos:      routerTodoRepo{},
		Subtasks:   routerSubtaskRepo{},
		Tags:       routerTagRepo{},
		Categories: routerCategoryRepo{},
	})
	authSvc := service.NewAuthService(routerCognito{}, routerUserRepo{})
	auth, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true})
	if err != nil {
		t.Fatalf("NewAuth() error = %v", err)
	}

	srv := apihttp.NewServer(port, logger, auth, apihttp.NewRouter(engines, authSvc))

	go func() {
		if err := srv.Start(); err != nil {
			t.Errorf("server error: %v", err)
		}
	}()

	addr := fmt.Sprintf("http://localhost:%d/health", port)
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, _ = http.Get(addr)
		if resp != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if resp == nil {
		t.Fatal("server did not start in time")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("health body = %v, want status ok", result)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}
