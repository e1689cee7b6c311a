// Package httpserver mounts the user and article route groups behind the
// common middleware stack.
package httpserver

import (
	"log/slog"
	"net/http"

	"blog-api/internal/http-server/handlers/article"
	"blog-api/internal/http-server/handlers/user"
	"blog-api/internal/http-server/middleware/session"
	articleservice "blog-api/internal/service/article"
	userservice "blog-api/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(log *slog.Logger, usrService *userservice.Service, artService *articleservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	gate := session.New(log, usrService)

	usr := user.New(log, usrService, gate)
	art := article.New(log, artService, gate)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello World!"))
	})
	r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("안녕하세요 ~"))
	})
	r.Route("/users", usr.Register())
	r.Route("/articles", art.Register())

	return r
}
