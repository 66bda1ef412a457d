package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nikolaslacerda/book-store-manager/internal/auth"
	"github.com/nikolaslacerda/book-store-manager/internal/authors"
	"github.com/nikolaslacerda/book-store-manager/internal/books"
	"github.com/nikolaslacerda/book-store-manager/internal/publishers"
	"github.com/nikolaslacerda/book-store-manager/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthService       *auth.Service
	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	AuthorsHandler    *authors.Handler
	PublishersHandler *publishers.Handler
	BooksHandler      *books.Handler
}

// NewRouter constructs the chi.Router with application defaults. User,
// author and publisher routes are anonymous; book routes require a bearer
// token resolved into a principal by the auth middleware.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if params.UsersHandler != nil {
			r.Route("/users", func(r chi.Router) {
				params.UsersHandler.MountRoutes(r)
				if params.AuthHandler != nil {
					params.AuthHandler.MountRoutes(r)
				}
			})
		}
		if params.AuthorsHandler != nil {
			r.Route("/authors", params.AuthorsHandler.MountRoutes)
		}
		if params.PublishersHandler != nil {
			r.Route("/publishers", params.PublishersHandler.MountRoutes)
		}
		if params.BooksHandler != nil && params.AuthService != nil {
			r.Route("/books", func(r chi.Router) {
				r.Use(params.AuthService.RequireAuth)
				params.BooksHandler.MountRoutes(r)
			})
		}
	})

	return r
}
