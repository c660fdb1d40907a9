// Package api provides the geomkit REST and WebSocket conversion service.
package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geomkit/geomkit/core/geomio"
	"github.com/geomkit/geomkit/internal/logging"
	"github.com/geomkit/geomkit/internal/server"
	"github.com/geomkit/geomkit/internal/store"
)

// activeStore is the geometry store shared by the handlers (nil = disabled).
var activeStore *store.Store

// Start starts the API server with the given configuration.
func Start(cfg Config) error {
	ServerConfig = cfg

	if cfg.StorePath != "" {
		s, err := store.Open(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open geometry store: %w", err)
		}
		activeStore = s
		logging.Info("geometry store opened",
			"path", server.AbsPath(cfg.StorePath),
			"driver", store.DriverType())
	}

	handler := Handler()

	logging.ServerStartup("rest_api", "http", cfg.Port,
		"websocket_protocol", "ws",
		"store_enabled", activeStore != nil,
		"formats", len(geomio.Formats()))

	if len(cfg.AllowedOrigins) > 0 {
		logging.Info("cors restricted", "allowed_origins_count", len(cfg.AllowedOrigins))
	} else {
		logging.Warn("cors permissive", "note", "allowing all origins (*)")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	return http.ListenAndServe(addr, handler)
}

// Handler builds the complete route set with its middleware chain. It is
// split out from Start so tests can mount it on a test server.
func Handler() http.Handler {
	mux := setupRoutes()

	var handler http.Handler = server.SecurityHeadersMiddleware(mux)
	handler = MetricsMiddleware(handler)
	handler = server.CORSMiddlewareWithConfig(server.CORSConfig{
		AllowedOrigins: ServerConfig.AllowedOrigins,
	}, handler)
	handler = logging.CombinedMiddleware(handler)

	// The WebSocket upgrade needs the raw ResponseWriter; wrapped writers
	// cannot be hijacked, so the stream endpoint sits outside the chain.
	outer := http.NewServeMux()
	outer.HandleFunc("/v1/stream", handleStream)
	outer.Handle("/", handler)
	return outer
}

// setupRoutes configures all HTTP routes.
func setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/v1/formats", handleFormats)
	mux.HandleFunc("/v1/convert", handleConvert)
	mux.HandleFunc("/v1/detect", handleDetect)
	mux.HandleFunc("/v1/geometries", handleGeometries)
	mux.HandleFunc("/v1/geometries/", handleGeometryByID)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
