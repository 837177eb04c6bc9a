package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fazendagestaosvp/fazenda-vista-backend/api/controllers"
	"github.com/fazendagestaosvp/fazenda-vista-backend/api/middleware"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/admin"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/animals"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/auth"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/calendar"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/documents"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/reproduction"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/settings"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/vieweraccess"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/auth/session"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/logger"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/metrics"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Animals      animals.Service
	Reproduction reproduction.Service
	Documents    documents.Service
	Calendar     calendar.Service
	Settings     settings.Service
	Admin        admin.Service
	ViewerAccess vieweraccess.Service
}

// Deps bundles the infrastructure the router needs directly.
type Deps struct {
	DB       controllers.Pinger
	Redis    *redis.Client
	Storage  controllers.Pinger
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.Storage))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
		r.Route("/password-reset", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/", controllers.AuthForgotPassword(svcs.Auth, logg))
			r.Post("/confirm", controllers.AuthResetPassword(svcs.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/me", controllers.Me(svcs.Users, logg))
		r.Get("/me/viewer-access", controllers.MyViewerAccess(svcs.ViewerAccess, logg))

		r.Route("/animals", func(r chi.Router) {
			r.Get("/", controllers.AnimalList(svcs.Animals, svcs.ViewerAccess, logg))
			r.Get("/{animalId}", controllers.AnimalGet(svcs.Animals, svcs.ViewerAccess, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor(logg))
				r.Post("/", controllers.AnimalCreate(svcs.Animals, logg))
				r.Put("/{animalId}", controllers.AnimalUpdate(svcs.Animals, logg))
				r.Delete("/{animalId}", controllers.AnimalDelete(svcs.Animals, logg))
			})
		})

		r.Route("/reproduction", func(r chi.Router) {
			r.Route("/protocols", func(r chi.Router) {
				r.Get("/", controllers.ProtocolList(svcs.Reproduction, svcs.ViewerAccess, logg))
				r.Get("/{protocolId}", controllers.ProtocolGet(svcs.Reproduction, svcs.ViewerAccess, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEditor(logg))
					r.Post("/", controllers.ProtocolCreate(svcs.Reproduction, logg))
					r.Put("/{protocolId}", controllers.ProtocolUpdate(svcs.Reproduction, logg))
					r.Delete("/{protocolId}", controllers.ProtocolDelete(svcs.Reproduction, logg))
				})
			})
			r.Route("/ultrasounds", func(r chi.Router) {
				r.Get("/", controllers.UltrasoundList(svcs.Reproduction, svcs.ViewerAccess, logg))
				r.Get("/{examId}", controllers.UltrasoundGet(svcs.Reproduction, svcs.ViewerAccess, logg))
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEditor(logg))
					r.Post("/", controllers.UltrasoundCreate(svcs.Reproduction, logg))
					r.Put("/{examId}", controllers.UltrasoundUpdate(svcs.Reproduction, logg))
					r.Delete("/{examId}", controllers.UltrasoundDelete(svcs.Reproduction, logg))
				})
			})
		})

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", controllers.FolderList(svcs.Documents, svcs.ViewerAccess, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor(logg))
				r.Post("/", controllers.FolderCreate(svcs.Documents, logg))
				r.Put("/{folderId}", controllers.FolderRename(svcs.Documents, logg))
				r.Delete("/{folderId}", controllers.FolderDelete(svcs.Documents, logg))
			})
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", controllers.DocumentList(svcs.Documents, svcs.ViewerAccess, logg))
			r.Get("/{documentId}", controllers.DocumentGet(svcs.Documents, svcs.ViewerAccess, logg))
			r.Get("/{documentId}/content", controllers.DocumentDownload(svcs.Documents, svcs.ViewerAccess, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor(logg))
				r.Post("/", controllers.DocumentUpload(svcs.Documents, cfg.Storage.MaxUploadMB, logg))
				r.Patch("/{documentId}", controllers.DocumentUpdate(svcs.Documents, logg))
				r.Delete("/{documentId}", controllers.DocumentDelete(svcs.Documents, logg))
			})
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", controllers.EventList(svcs.Calendar, svcs.ViewerAccess, logg))
			r.Get("/{eventId}", controllers.EventGet(svcs.Calendar, svcs.ViewerAccess, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEditor(logg))
				r.Post("/", controllers.EventCreate(svcs.Calendar, logg))
				r.Put("/{eventId}", controllers.EventUpdate(svcs.Calendar, logg))
				r.Delete("/{eventId}", controllers.EventDelete(svcs.Calendar, logg))
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(svcs.Settings, logg))
			r.Put("/", controllers.SettingsUpdate(svcs.Settings, logg))
		})
	})

	// Admin routes authenticate like everything else, but every operation
	// re-verifies the caller's stored role inside the service layer; the
	// token's role claim alone never grants admin.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(svcs.Admin, logg))
			r.Post("/", controllers.AdminCreateUser(svcs.Admin, logg))
			r.Post("/delete", controllers.AdminDeleteUser(svcs.Admin, logg))
			r.Post("/role", controllers.AdminUpdateUserRole(svcs.Admin, logg))
			r.Get("/{userId}/viewer-access", controllers.AdminListViewerAccess(svcs.ViewerAccess, logg))
			r.Put("/{userId}/viewer-access", controllers.AdminReplaceViewerAccess(svcs.ViewerAccess, logg))
		})
	})

	return r
}
