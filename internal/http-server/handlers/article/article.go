package article

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"blog-api/internal/domain/models"
	"blog-api/internal/http-server/middleware/session"
	req "blog-api/internal/lib/api/request"
	resp "blog-api/internal/lib/api/response"
	"blog-api/internal/lib/logger/sl"
	"blog-api/internal/service/article"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Service interface {
	Create(ctx context.Context, author models.User, title, content string) (models.Article, error)
	GetAll(ctx context.Context) ([]models.Article, error)
	GetByID(ctx context.Context, id string) (models.Article, error)
	ToggleLike(ctx context.Context, userID, articleID string) (bool, error)
	AddComment(ctx context.Context, author models.User, articleID, content string) (models.Comment, error)
	Comments(ctx context.Context, articleID string) ([]models.Comment, error)
}

// clientErrors are answered with 400; anything else is a store failure.
var clientErrors = []error{
	article.ErrArticleNotFound,
	article.ErrInvalidArticleID,
	article.ErrEmptyTitle,
	article.ErrEmptyContent,
}

type Article struct {
	log     *slog.Logger
	service Service
	gate    func(http.Handler) http.Handler
}

func New(log *slog.Logger, service Service, gate func(http.Handler) http.Handler) *Article {
	return &Article{
		log:     log,
		service: service,
		gate:    gate,
	}
}

func (a *Article) Register() func(r chi.Router) {
	return func(r chi.Router) {
		// Public routes
		r.Get("/load", a.getAllArticles)
		r.Post("/find", a.getArticleByID)
		r.Post("/load/comment", a.getComments)

		// Require auth
		r.Group(func(r chi.Router) {
			r.Use(a.gate)

			r.Post("/post", a.createArticle)
			r.Post("/like", a.toggleLike)
			r.Post("/add/comment", a.addComment)
		})
	}
}

func (a *Article) getAllArticles(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.getAllArticles"

	arts, err := a.service.GetAll(r.Context())
	if err != nil {
		a.fail(w, r, op, err)
		return
	}

	render.JSON(w, r, arts)
}

func (a *Article) getArticleByID(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.getArticleByID"

	var body req.ArticleRef
	if !a.decode(w, r, op, &body) {
		return
	}

	art, err := a.service.GetByID(r.Context(), body.ID)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}

	render.JSON(w, r, art)
}

func (a *Article) createArticle(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.createArticle"

	var body req.PostArticle
	if !a.decode(w, r, op, &body) {
		return
	}

	author, _ := session.UserFromContext(r.Context())

	if _, err := a.service.Create(r.Context(), author, body.Title, body.Content); err != nil {
		a.fail(w, r, op, err)
		return
	}

	render.JSON(w, r, resp.OK())
}

func (a *Article) toggleLike(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.toggleLike"

	var body req.ArticleRef
	if !a.decode(w, r, op, &body) {
		return
	}

	usr, _ := session.UserFromContext(r.Context())

	liked, err := a.service.ToggleLike(r.Context(), usr.ID, body.ID)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}

	render.JSON(w, r, resp.Like{Success: true, Liked: liked})
}

func (a *Article) addComment(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.addComment"

	var body req.AddComment
	if !a.decode(w, r, op, &body) {
		return
	}

	author, _ := session.UserFromContext(r.Context())

	if _, err := a.service.AddComment(r.Context(), author, body.ArticleID, body.Content); err != nil {
		a.fail(w, r, op, err)
		return
	}

	render.JSON(w, r, resp.OK())
}

func (a *Article) getComments(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.getComments"

	var body req.LoadComments
	if !a.decode(w, r, op, &body) {
		return
	}

	comments, err := a.service.Comments(r.Context(), body.ArticleID)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}

	render.JSON(w, r, comments)
}

func (a *Article) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := render.Decode(r, v); err != nil {
		a.log.Info("failed to decode request", slog.String("op", op), sl.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Err("invalid request body"))
		return false
	}
	return true
}

func (a *Article) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Err(target.Error()))
			return
		}
	}

	a.log.Error("request failed", slog.String("op", op), sl.Error(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, resp.Err("internal error"))
}
