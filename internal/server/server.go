// Package server wires the HTTP API over the core services.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/discovery"
	"github.com/moonlinghq/moonling-core/internal/handler"
	"github.com/moonlinghq/moonling-core/internal/inventory"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/metrics"
	"github.com/moonlinghq/moonling-core/internal/mooncycle"
	"github.com/moonlinghq/moonling-core/internal/points"
	"github.com/moonlinghq/moonling-core/internal/recipe"
)

// Services bundles the core services the API exposes
type Services struct {
	Catalog   *catalog.Catalog
	Inventory inventory.Service
	Recipe    recipe.Service
	Discovery discovery.Service
	MoonCycle mooncycle.Service
	Points    points.Service
}

type Server struct {
	httpServer *http.Server
	services   Services
}

// NewServer creates a new Server instance. The pinger may be nil when
// the backing store has no connection to check.
func NewServer(port int, apiKey string, trustedProxies []string, pinger handler.Pinger, svcs Services) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost first
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(pinger))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", handler.HandleGetIngredients(svcs.Catalog))
			r.Get("/{id}", handler.HandleGetIngredient(svcs.Catalog))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", handler.HandleGetInventory(svcs.Inventory))
			r.Get("/item", handler.HandleGetItem(svcs.Inventory))
			r.Get("/search", handler.HandleSearchInventory(svcs.Inventory))
			r.Get("/stats", handler.HandleGetInventoryStats(svcs.Inventory))
			r.Post("/add", handler.HandleAddItems(svcs.Inventory))
			r.Post("/remove", handler.HandleRemoveItem(svcs.Inventory))
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", handler.HandleGetRecipes(svcs.Recipe))
			r.Get("/stats", handler.HandleGetRecipeStats(svcs.Recipe))
			r.Get("/{id}", handler.HandleGetRecipe(svcs.Recipe))
			r.Get("/{id}/requirements", handler.HandleGetRequirements(svcs.Recipe))
			r.Post("/{id}/craft", handler.HandleCraftRecipe(svcs.Recipe))
			r.Post("/{id}/craft/timed", handler.HandleStartTimedCraft(svcs.Recipe))
			r.Get("/{id}/craft/progress", handler.HandleGetCraftProgress(svcs.Recipe))
			r.Delete("/{id}/craft", handler.HandleCancelCraft(svcs.Recipe))
		})
		r.Get("/crafting/active", handler.HandleGetActiveCrafts(svcs.Recipe))

		r.Route("/discovery", func(r chi.Router) {
			r.Get("/settings", handler.HandleGetDiscoverySettings(svcs.Discovery))
			r.Patch("/settings", handler.HandleUpdateDiscoverySettings(svcs.Discovery))
			r.Post("/roll", handler.HandleDiscoverRoll(svcs.Discovery))
			r.Get("/next", handler.HandleGetNextDiscovery(svcs.Discovery))
			r.Get("/progress", handler.HandleGetDiscoveryProgress(svcs.Discovery))
			r.Get("/log", handler.HandleGetDiscoveryLog(svcs.Discovery))
			r.Post("/log/cleanup", handler.HandleCleanupDiscoveryLog(svcs.Discovery))
		})

		r.Route("/cycle", func(r chi.Router) {
			r.Get("/", handler.HandleGetCurrentCycle(svcs.MoonCycle))
			r.Get("/progress", handler.HandleGetCycleProgress(svcs.MoonCycle))
			r.Post("/stats", handler.HandleRecordDailyStats(svcs.MoonCycle))
			r.Post("/sleep/start", handler.HandleStartSleep(svcs.MoonCycle))
			r.Post("/sleep/end", handler.HandleEndSleep(svcs.MoonCycle))
			r.Post("/complete", handler.HandleCheckCycleCompletion(svcs.MoonCycle))
			r.Get("/flavor-discovery", handler.HandleFlavorDiscovery(svcs.MoonCycle))
			r.Post("/food-stars", handler.HandleFoodStars(svcs.MoonCycle, svcs.Catalog))
		})

		r.Get("/points", handler.HandleGetPointBalance(svcs.Points))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		services: svcs,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes are noisy; skip logging them
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Redact credentials before header logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
