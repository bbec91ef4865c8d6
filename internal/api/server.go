package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/auth"
	"github.com/skillcompass/skillcompass-engine/internal/results"
	"github.com/skillcompass/skillcompass-engine/internal/session"
)

type Options struct {
	Sessions session.Store
	Catalog  *assessment.Catalog
	Results  results.Store
	Webhook  *results.Webhook // nil disables forwarding

	Auth          *auth.AuthService
	AdminUser     string
	AdminPassHash string

	CORSOrigins []string
}

// NewRouter assembles the full HTTP surface: the public assessment flow,
// catalog reads, and the JWT-protected admin listing.
func NewRouter(o Options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/roles", RolesHandler())
	r.Get("/courses", CoursesHandler(o.Catalog))

	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", CreateSessionHandler(o.Sessions))
		sr.Route("/{sessionID}", func(ir chi.Router) {
			ir.Get("/", GetSessionHandler(o.Sessions))
			ir.Put("/biodata", PutBiodataHandler(o.Sessions))
			ir.Post("/role", SelectRoleHandler(o.Sessions))
			ir.Get("/batch", GetBatchHandler(o.Sessions, o.Catalog))
			ir.Post("/answers", RecordAnswersHandler(o.Sessions))
			ir.Post("/advance", AdvanceHandler(o.Sessions, o.Catalog))
			ir.Post("/retreat", RetreatHandler(o.Sessions))
			ir.Post("/back-to-roles", BackToRolesHandler(o.Sessions))
			ir.Post("/restart", RestartHandler(o.Sessions))
			ir.Get("/results", GetResultsHandler(o.Sessions))
			ir.Post("/save", SaveResultsHandler(o.Sessions, o.Results, o.Webhook))
		})
	})

	r.Post("/admin/login", auth.AdminLoginHandler(o.Auth, o.AdminUser, o.AdminPassHash))
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin(o.Auth))
		pr.Get("/admin/results", ListResultsHandler(o.Results))
		pr.Get("/admin/results/export", ExportResultsHandler(o.Results))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
