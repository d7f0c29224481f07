package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"lifeband-data/internal/service"
)

// Services everything the API dispatches to.
type Services struct {
	Auth          service.AuthService
	Admins        service.AdminService
	Portadores    service.PortadorService
	InfoMedica    service.InfoMedicaService
	Contacts      service.ContactService
	Subscriptions service.SubscriptionService
	Export        service.ExportService
	Medical       []MedicalRoute
}

// Options router behavior that depends on the selected backend.
type Options struct {
	Mode string
	// ForwardToken passes the caller's bearer token to the remote backend.
	ForwardToken bool
	Storage      StorageHealth
}

// NewRouter builds the /health and /api/v1 routes.
func NewRouter(svc Services, opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	health := NewHealthHandler(opts.Mode, opts.Storage)
	r.Get("/health", health.Health)

	auth := NewAuthHandler(svc.Auth, logger)
	admin := NewAdminHandler(svc.Admins, logger)
	portadores := NewPortadorHandler(svc.Portadores, svc.Export, logger)
	info := NewInfoMedicaHandler(svc.InfoMedica, logger)
	contacts := NewContactHandler(svc.Contacts, logger)
	subs := NewSubscriptionHandler(svc.Subscriptions, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", auth.Register)
		r.Post("/auth/login", auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin(svc.Auth, opts.ForwardToken, logger))

			r.Get("/admin/profile", admin.GetProfile)
			r.Patch("/admin/profile", admin.UpdateProfile)

			r.Get("/subscriptions", subs.List)

			r.Route("/portadores", func(r chi.Router) {
				r.Get("/", portadores.List)
				r.Post("/", portadores.Create)

				r.Route("/{portadorID}", func(r chi.Router) {
					r.Get("/", portadores.Get)
					r.Patch("/", portadores.Update)
					r.Delete("/", portadores.Delete)
					r.Get("/profile", portadores.Profile)
					r.Get("/public-url", portadores.PublicURL)
					r.Post("/pdf", portadores.TriggerPDF)
					r.Get("/export", portadores.Export)

					r.Get("/info-medica", info.Get)
					r.Put("/info-medica", info.Save)

					r.Get("/contactos", contacts.List)
					r.Post("/contactos", contacts.Create)
					r.Patch("/contactos/{contactoID}", contacts.Update)
					r.Delete("/contactos/{contactoID}", contacts.Delete)

					r.Get("/subscription", subs.Get)
					r.Post("/subscription", subs.Subscribe)
					r.Post("/subscription/cancel", subs.Cancel)

					for _, m := range svc.Medical {
						m.register(r, logger)
					}
				})
			})
		})
	})
	return r
}

func portadorID(r *http.Request) string {
	return chi.URLParam(r, "portadorID")
}
