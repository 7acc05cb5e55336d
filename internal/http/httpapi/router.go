package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"silorealm/internal/http/handlers"
	"silorealm/internal/middleware"
)

const GenerateSiloRealmPath = "/api/generate-silo-realm"

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		middleware.Recoverer(app.Logger),
		middleware.CORS(middleware.DefaultCORS),
	)

	r.Get("/", app.Index)
	r.Get("/healthz", app.Health)
	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post(GenerateSiloRealmPath, app.GenerateSiloRealm)

	return r
}
