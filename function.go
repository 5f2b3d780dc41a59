// Package wordladder exposes the ladder HTTP API as a Cloud Function.
//
// The function named GenerateLadder serves the same routes as the web server
// (/api/generate, /api/batch, ...). Settings come from WORDLADDER_*
// environment variables; the word graph is built on the first request.
package wordladder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	httpadapter "svw.info/wordladder/internal/adapters/http"
	"svw.info/wordladder/internal/app"
	"svw.info/wordladder/internal/config"
)

func init() {
	functions.HTTP("GenerateLadder", GenerateLadder)
}

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

// GenerateLadder is the function entry point.
func GenerateLadder(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.FromEnv()
		handler, initErr = newHandler(context.Background(), cfg, config.NewLogger(cfg.LogLevel, os.Stderr))
	})
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": initErr.Error()})
		return
	}
	handler.ServeHTTP(w, r)
}

func newHandler(ctx context.Context, cfg config.Config, log *slog.Logger) (http.Handler, error) {
	a, err := app.New(ctx, cfg, log, true)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	httpadapter.New(a.Service).Register(mux)
	return mux, nil
}
