package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"blog-api/internal/domain/models"
	"blog-api/internal/http-server/middleware/session"
	req "blog-api/internal/lib/api/request"
	resp "blog-api/internal/lib/api/response"
	"blog-api/internal/lib/logger/sl"
	"blog-api/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Service interface {
	Register(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) (models.User, string, error)
	Logout(ctx context.Context, id string) error
}

type User struct {
	log     *slog.Logger
	service Service
	gate    func(http.Handler) http.Handler
}

func New(log *slog.Logger, service Service, gate func(http.Handler) http.Handler) *User {
	return &User{
		log:     log,
		service: service,
		gate:    gate,
	}
}

func (u *User) Register() func(r chi.Router) {
	return func(r chi.Router) {
		// Public routes
		r.Post("/register", u.register)
		r.Post("/login", u.login)

		// Require auth
		r.Group(func(r chi.Router) {
			r.Use(u.gate)

			r.Get("/auth", u.auth)
			r.Get("/logout", u.logout)
		})
	}
}

func (u *User) register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.register"

	log := u.log.With(slog.String("op", op))

	var body req.Register
	if err := render.Decode(r, &body); err != nil {
		log.Info("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request body"))
		return
	}

	// Send to service layer
	err := u.service.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		if known := match(err, user.ErrPasswordTooShort, user.ErrPasswordTooLong, user.ErrEmptyField, user.ErrUserExists); known != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Err(known.Error()))
			return
		}
		log.Error("failed to register user", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	render.JSON(w, r, resp.OK())
}

func (u *User) login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.login"

	log := u.log.With(slog.String("op", op))

	var body req.Login
	if err := render.Decode(r, &body); err != nil {
		log.Info("failed to decode request", sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Login{Message: "invalid request body"})
		return
	}

	// Send to service layer
	usr, token, err := u.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if known := match(err, user.ErrUserNotFound, user.ErrWrongPassword); known != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Login{Message: known.Error()})
			return
		}
		log.Error("failed to login", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Login{Message: "internal error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(usr.TokenExp, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	render.JSON(w, r, resp.Login{LoginSuccess: true, UserID: usr.ID})
}

func (u *User) auth(w http.ResponseWriter, r *http.Request) {
	usr, _ := session.UserFromContext(r.Context())

	render.JSON(w, r, resp.AuthOf(usr))
}

func (u *User) logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.logout"

	log := u.log.With(slog.String("op", op))

	usr, _ := session.UserFromContext(r.Context())

	if err := u.service.Logout(r.Context(), usr.ID); err != nil {
		log.Error("failed to logout", sl.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Err("internal error"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	render.JSON(w, r, resp.OK())
}

// match returns the first of targets that err wraps, or nil.
func match(err error, targets ...error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}
