package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/doyeonstory/backend/internal/handler/catalog"
	"github.com/doyeonstory/backend/internal/handler/studio"
	middlewarePkg "github.com/doyeonstory/backend/internal/middleware"
	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/observability"
	"github.com/doyeonstory/backend/internal/service/flow"
	sessionservice "github.com/doyeonstory/backend/internal/service/session"
	"github.com/doyeonstory/backend/pkg/utils"
)

// Deps are the services the HTTP layer talks to.
type Deps struct {
	Sessions       sessionservice.Store
	Machine        *flow.Machine
	Catalog        design.Catalog
	Quoter         catalog.Quoter
	Logger         *zap.Logger
	Metrics        *observability.Collector
	AllowedOrigins []string
	MaxPhotoBytes  int64
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	studioHandler := studio.New(deps.Sessions, deps.Machine, studio.Options{
		Logger:        logger,
		Metrics:       deps.Metrics,
		MaxPhotoBytes: deps.MaxPhotoBytes,
	})
	catalogHandler := catalog.New(deps.Catalog, deps.Quoter)

	r.Route("/api", func(api chi.Router) {
		studioHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
	})

	return r
}
