package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelhost/internal/events"
	"modelhost/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	RescanModels() ([]types.Model, error)
	LoadModel(id string) error
	UnloadModel()
	StartModel(id string) error
	StopModel() error
	Send(text string) error
	RunPrompt(prompt, model string) error
	Status() types.StatusResponse
	Ready() bool
}

// EventSource hands out bounded notification subscriptions. *events.Bus
// satisfies it.
type EventSource interface {
	Subscribe(size int) (*events.Channel, func())
}

// NewMux builds the router. src may be nil, in which case /events and /ws
// answer 503.
func NewMux(svc Service, src EventSource) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints; text/event-stream is not in chi's default set.
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc, src: src}

	r.Get("/models", h.listModels)
	r.Post("/models/rescan", h.rescanModels)
	r.Post("/models/unload", h.unloadModel)
	r.Post("/models/{id}/load", h.loadModel)
	r.Post("/models/{id}/start", h.startModel)
	r.Post("/stop", h.stopModel)
	r.Post("/prompt", h.prompt)
	r.Post("/send", h.send)
	r.Get("/status", h.status)
	r.Get("/events", h.eventStream)
	r.Get("/ws", h.wsConnect)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no models"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}
