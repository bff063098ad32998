// Package api wires services, middleware and routes into the HTTP handler
// served by cmd/api.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/openlms/lmsadmin/internal/api/handlers"
	"github.com/openlms/lmsadmin/internal/api/middleware"
	"github.com/openlms/lmsadmin/internal/audit"
	"github.com/openlms/lmsadmin/internal/auth"
	"github.com/openlms/lmsadmin/internal/cache"
	"github.com/openlms/lmsadmin/internal/catalog"
	"github.com/openlms/lmsadmin/internal/config"
	"github.com/openlms/lmsadmin/internal/course"
	"github.com/openlms/lmsadmin/internal/queue"
	"github.com/openlms/lmsadmin/internal/scorm"
	"github.com/openlms/lmsadmin/internal/tenant"
	"github.com/openlms/lmsadmin/internal/webhook"
)

type Router struct {
	mux    *chi.Mux
	db     *pgxpool.Pool
	redis  *redis.Client
	cfg    *config.Config
	issuer *auth.TokenIssuer
	jwt    *auth.Middleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	return &Router{
		mux:    chi.NewRouter(),
		db:     db,
		redis:  rdb,
		cfg:    cfg,
		issuer: issuer,
		jwt:    auth.NewMiddleware(issuer),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	authSvc := auth.NewService(rt.db, rt.issuer)
	tenantSvc := tenant.NewService(rt.db)
	resolver := tenant.NewResolver(tenantSvc)
	auditSvc := audit.NewService(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	webhookSvc := webhook.NewService(rt.db, queueClient)
	catalogSvc := catalog.NewService(rt.db, cache.New(rt.redis))
	courseSvc := course.NewService(rt.db)
	scormSvc := scorm.NewService(rt.db)

	recorder := handlers.NewMutationRecorder(auditSvc, webhookSvc, slog.Default())

	// Only catalog list/create resolve the caller's customer; reads by id and
	// the course/package collections are reachable by any authenticated user.
	slog.Warn("catalog reads by id and course/scorm routes are not tenant-scoped; only catalog list/create enforce customer membership")

	r.Route("/api", func(r chi.Router) {
		// Auth routes (no token required)
		authH := handlers.NewAuthHandler(authSvc)
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(rt.jwt.Authenticate)

			catalogH := handlers.NewCatalogHandler(catalogSvc, resolver, recorder)
			r.Route("/catalogs", func(r chi.Router) {
				r.Get("/", catalogH.List)
				r.Post("/", catalogH.Create)
				r.Post("/add-version", catalogH.AddVersion)
				r.Delete("/delete-version", catalogH.RemoveVersion)
				r.Get("/{id}", catalogH.Get)
				r.Put("/{id}", catalogH.Update)
				r.Delete("/{id}", catalogH.Delete)
			})

			courseH := handlers.NewCourseHandler(courseSvc, recorder)
			r.Route("/courses", func(r chi.Router) {
				r.Get("/", courseH.List)
				r.Post("/", courseH.Create)
				r.Post("/add-package", courseH.AddPackage)
				r.Post("/remove-package", courseH.RemovePackage)
				r.Get("/{id}", courseH.Get)
				r.Put("/{id}", courseH.Update)
				r.Delete("/{id}", courseH.Delete)
			})

			scormH := handlers.NewScormHandler(scormSvc, recorder)
			r.Route("/scorm-packages", func(r chi.Router) {
				r.Get("/", scormH.List)
				r.Post("/", scormH.Create)
				r.Get("/{id}", scormH.Get)
				r.Put("/{id}", scormH.Update)
				r.Delete("/{id}", scormH.Delete)
			})

			webhookH := handlers.NewWebhookHandler(webhookSvc, resolver)
			r.Route("/webhooks", func(r chi.Router) {
				r.Post("/", webhookH.Create)
				r.Get("/", webhookH.List)
				r.Delete("/{id}", webhookH.Delete)
			})

			adminH := handlers.NewAdminHandler(auditSvc, resolver)
			r.Route("/admin", func(r chi.Router) {
				r.Get("/audit", adminH.ListAuditLogs)
			})
		})
	})

	// Unmatched GETs serve the single-page front end.
	r.NotFound(spaHandler(rt.cfg.Static.Dir))

	return r
}

// spaHandler serves files from dir, falling back to index.html so client-side
// routes resolve on a hard refresh. Non-GET requests and /api paths 404.
func spaHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
