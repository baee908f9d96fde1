package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"quotations/go_backend/internal/app/http/handlers"
	"quotations/go_backend/internal/app/http/middleware"
	"quotations/go_backend/internal/domain/user"
)

type Options struct {
	CORSAllowOrigin string
	// UploadsDir is served under /uploads when logos are kept on disk.
	UploadsDir string
	Tokens     middleware.TokenParser
}

func NewRouter(opts Options, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.CORSAllowOrigin))

	r.Get("/health", h.Health)
	r.Get("/constants", h.Constants)
	if opts.UploadsDir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Handle("/uploads/*", middleware.StaticUploads(files))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.With(middleware.OptionalAuth(opts.Tokens)).Post("/register", h.Register)
		r.With(middleware.Auth(opts.Tokens)).Get("/me", h.Me)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(opts.Tokens))
		r.Use(chimw.Timeout(30 * time.Second))
		admin := middleware.RequireRole(user.RoleAdmin)

		r.Get("/currencies", h.ListCurrencies)
		r.Get("/currencies/current", h.CurrentCurrency)
		r.Get("/dashboard", h.Dashboard)

		r.Route("/configuration", func(r chi.Router) {
			r.Get("/", h.GetConfiguration)
			r.With(admin).Put("/", h.UpdateConfiguration)
			r.With(admin).Post("/logo", h.UploadLogo)
			r.With(admin).Delete("/logo", h.DeleteLogo)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Delete("/{id}", h.DeleteClient)
		})

		r.Route("/sizes", func(r chi.Router) {
			r.Get("/", h.ListSizes)
			r.Post("/", h.CreateSize)
			r.Get("/{id}", h.GetSize)
			r.Put("/{id}", h.UpdateSize)
			r.Delete("/{id}", h.DeleteSize)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Put("/{id}", h.UpdateProject)
			r.Delete("/{id}", h.DeleteProject)
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", h.ListQuotations)
			r.Post("/", h.CreateQuotation)
			r.Get("/{id}", h.GetQuotation)
			r.Put("/{id}", h.UpdateQuotation)
			r.Delete("/{id}", h.DeleteQuotation)
			r.Patch("/{id}/status", h.SetQuotationStatus)
			r.Post("/{id}/convert", h.ConvertQuotation)
			r.Post("/{id}/duplicate", h.DuplicateQuotation)
			r.Get("/{id}/pdf", h.QuotationPDF)
			r.Post("/{id}/send", h.SendQuotation)
		})

		r.Route("/catering-quotations", func(r chi.Router) {
			r.Get("/", h.ListCatering)
			r.Post("/", h.CreateCatering)
			r.Get("/{id}", h.GetCatering)
			r.Put("/{id}", h.UpdateCatering)
			r.Delete("/{id}", h.DeleteCatering)
			r.Patch("/{id}/status", h.SetCateringStatus)
			r.Get("/{id}/pdf", h.CateringPDF)
		})
	})

	return r
}
