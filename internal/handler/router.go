package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions collects what NewRouter mounts besides the API
type RouterOptions struct {
	// Events serves the SSE stream at /events
	Events http.Handler
	// Metrics serves /metrics
	Metrics http.Handler
	// Instrument wraps every request, typically for request metrics
	Instrument func(http.Handler) http.Handler
	// Static is served at / when set
	Static      fs.FS
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter configures all routes and middleware
func NewRouter(h *ChainHandler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(logger))
	if opts.Instrument != nil {
		router.Use(opts.Instrument)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", h.Health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/recipes", h.ListRecipes)

		r.Get("/dataset", h.ExportDataset)
		r.Put("/dataset", h.ImportDataset)

		r.Get("/scene", h.GetScene)
		r.Get("/scene.svg", h.GetSceneSVG)

		r.Put("/selection", h.SelectRecipe)
		r.Post("/selection/node/{id}", h.SelectNode)
		r.Post("/selection/edge/{id}", h.SelectEdge)
		r.Delete("/selection/target", h.ClearSelection)

		r.Post("/events", h.HandleEvent)
		r.Post("/view", h.ApplyViewOp)
		r.Put("/viewport", h.Resize)

		r.Route("/views", func(r chi.Router) {
			r.Get("/", h.ListViews)
			r.Post("/", h.SaveView)
			r.Post("/{id}/apply", h.ApplyView)
			r.Delete("/{id}", h.DeleteView)
		})
	})

	if opts.Events != nil {
		router.Method(http.MethodGet, "/events", opts.Events)
	}
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.Static != nil {
		router.Handle("/*", http.FileServer(http.FS(opts.Static)))
	}

	return router
}
