package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blog-api/internal/domain/models"
	"blog-api/internal/lib/logger/sl"
	"blog-api/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrArticleNotFound  = errors.New("can not find article")
	ErrInvalidArticleID = errors.New("invalid article id")
	ErrEmptyTitle       = errors.New("title is required")
	ErrEmptyContent     = errors.New("content is required")
)

type Storage interface {
	SaveArticle(ctx context.Context, art models.Article) error
	Articles(ctx context.Context) ([]models.Article, error)
	ArticleByID(ctx context.Context, id string) (models.Article, error)

	Like(ctx context.Context, userID, articleID string) (models.Like, error)
	SaveLike(ctx context.Context, like models.Like) error
	RemoveLike(ctx context.Context, userID, articleID string) error
	IncrementLikes(ctx context.Context, articleID string, delta int) error

	SaveComment(ctx context.Context, c models.Comment) error
	IncrementComments(ctx context.Context, articleID string, delta int) error
	CommentsByArticle(ctx context.Context, articleID string) ([]models.Comment, error)
}

type Service struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Service {
	return &Service{
		log:     log,
		storage: storage,
	}
}

// canonicalID returns id in the lower-case hyphenated form the stores hold.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidArticleID
	}
	return parsed.String(), nil
}

func (s *Service) Create(ctx context.Context, author models.User, title, content string) (models.Article, error) {
	const op = "service.article.Create"

	log := s.log.With(slog.String("op", op))

	if strings.TrimSpace(title) == "" {
		return models.Article{}, fmt.Errorf("%s: %w", op, ErrEmptyTitle)
	}
	if strings.TrimSpace(content) == "" {
		return models.Article{}, fmt.Errorf("%s: %w", op, ErrEmptyContent)
	}

	art := models.Article{
		ID:       uuid.NewString(),
		Title:    title,
		Content:  content,
		AuthorID: author.ID,
		Writer:   author.Name,
	}

	// Send to storage layer
	if err := s.storage.SaveArticle(ctx, art); err != nil {
		log.Error("failed to save article", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

func (s *Service) GetAll(ctx context.Context) ([]models.Article, error) {
	const op = "service.article.GetAll"

	log := s.log.With(slog.String("op", op))

	// Send to storage layer
	arts, err := s.storage.Articles(ctx)
	if err != nil {
		log.Error("failed to get all articles", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (models.Article, error) {
	const op = "service.article.GetByID"

	log := s.log.With(slog.String("op", op))

	id, err := canonicalID(id)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	// Send to storage layer
	art, err := s.storage.ArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			log.Info("article not found", slog.String("article_id", id))
			return models.Article{}, fmt.Errorf("%s: %w", op, ErrArticleNotFound)
		}
		log.Error("failed to get article", sl.Error(err))
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

// ToggleLike flips the like of userID on articleID and reports whether the
// article is liked afterwards. The like record is written before the counter;
// a counter failure leaves the two out of step.
func (s *Service) ToggleLike(ctx context.Context, userID, articleID string) (bool, error) {
	const op = "service.article.ToggleLike"

	log := s.log.With(slog.String("op", op), slog.String("article_id", articleID))

	articleID, err := canonicalID(articleID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.Like(ctx, userID, articleID)
	switch {
	case errors.Is(err, storage.ErrLikeNotFound):
		like := models.Like{ID: uuid.NewString(), UserID: userID, ArticleID: articleID}
		if err := s.storage.SaveLike(ctx, like); err != nil {
			return false, contentErr(log, op, "failed to save like", err)
		}
		if err := s.storage.IncrementLikes(ctx, articleID, 1); err != nil {
			return false, contentErr(log, op, "failed to increment likes", err)
		}
		return true, nil
	case err != nil:
		log.Error("failed to get like", sl.Error(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.RemoveLike(ctx, userID, articleID); err != nil {
		return false, contentErr(log, op, "failed to remove like", err)
	}
	if err := s.storage.IncrementLikes(ctx, articleID, -1); err != nil {
		return false, contentErr(log, op, "failed to decrement likes", err)
	}

	return false, nil
}

// AddComment stores a comment and then bumps the article's comment counter.
func (s *Service) AddComment(ctx context.Context, author models.User, articleID, content string) (models.Comment, error) {
	const op = "service.article.AddComment"

	log := s.log.With(slog.String("op", op), slog.String("article_id", articleID))

	articleID, err := canonicalID(articleID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrEmptyContent)
	}

	c := models.Comment{
		ID:         uuid.NewString(),
		Content:    content,
		ArticleID:  articleID,
		AuthorID:   author.ID,
		WriterName: author.Name,
	}

	if err := s.storage.SaveComment(ctx, c); err != nil {
		return models.Comment{}, contentErr(log, op, "failed to save comment", err)
	}
	if err := s.storage.IncrementComments(ctx, articleID, 1); err != nil {
		return models.Comment{}, contentErr(log, op, "failed to increment comments", err)
	}

	return c, nil
}

func (s *Service) Comments(ctx context.Context, articleID string) ([]models.Comment, error) {
	const op = "service.article.Comments"

	log := s.log.With(slog.String("op", op))

	articleID, err := canonicalID(articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments, err := s.storage.CommentsByArticle(ctx, articleID)
	if err != nil {
		log.Error("failed to get comments", sl.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

func contentErr(log *slog.Logger, op, msg string, err error) error {
	if errors.Is(err, storage.ErrArticleNotFound) {
		log.Info("article not found")
		return fmt.Errorf("%s: %w", op, ErrArticleNotFound)
	}
	log.Error(msg, sl.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
