// Package postgres is the PostgreSQL backend for users, articles, likes and
// comments. It is interchangeable with the sqlite backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-api/internal/domain/models"
	"blog-api/internal/storage"
	"blog-api/internal/storage/migrations"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Storage struct {
	db *sql.DB
}

// New connects to dsn and brings the schema up to date.
func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := migrations.Up(ctx, db, "postgres", "postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened and migrated connection pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.postgres.SaveUser"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, lastname, role, image, pass_hash, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Name, user.Lastname, user.Role, user.Image, user.PassHash, time.Now())
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const selectUser = `SELECT id, email, name, lastname, role, image, pass_hash, token, token_exp, registration_date FROM users`

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.UserByEmail"

	user, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.postgres.UserByID"

	user, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user    models.User
		regDate time.Time
	)

	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Lastname, &user.Role, &user.Image,
		&user.PassHash, &user.Token, &user.TokenExp, &regDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}
		return models.User{}, err
	}
	user.RegistrationDate = &regDate

	return user, nil
}

func (s *Storage) UpdateToken(ctx context.Context, id, token string, exp int64) error {
	const op = "storage.postgres.UpdateToken"

	res, err := s.db.ExecContext(ctx, `UPDATE users SET token = $1, token_exp = $2 WHERE id = $3`, token, exp, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (s *Storage) SaveArticle(ctx context.Context, art models.Article) error {
	const op = "storage.postgres.SaveArticle"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, title, content, author_id, writer, publish_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		art.ID, art.Title, art.Content, art.AuthorID, art.Writer, time.Now())
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, storage.ErrArticleExists)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const selectArticle = `SELECT id, title, content, author_id, writer, like_count, comment_count, publish_date FROM articles`

func (s *Storage) Articles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.postgres.Articles"

	rows, err := s.db.QueryContext(ctx, selectArticle+` ORDER BY publish_date`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	arts := make([]models.Article, 0)
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		arts = append(arts, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

func (s *Storage) ArticleByID(ctx context.Context, id string) (models.Article, error) {
	const op = "storage.postgres.ArticleByID"

	art, err := scanArticle(s.db.QueryRowContext(ctx, selectArticle+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (models.Article, error) {
	var (
		art     models.Article
		pubDate time.Time
	)

	err := row.Scan(&art.ID, &art.Title, &art.Content, &art.AuthorID, &art.Writer,
		&art.LikeCount, &art.CommentCount, &pubDate)
	if err != nil {
		return models.Article{}, err
	}
	art.PublishDate = &pubDate

	return art, nil
}

func (s *Storage) Like(ctx context.Context, userID, articleID string) (models.Like, error) {
	const op = "storage.postgres.Like"

	var like models.Like
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, article_id FROM likes WHERE user_id = $1 AND article_id = $2`, userID, articleID,
	).Scan(&like.ID, &like.UserID, &like.ArticleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Like{}, fmt.Errorf("%s: %w", op, storage.ErrLikeNotFound)
		}
		return models.Like{}, fmt.Errorf("%s: %w", op, err)
	}

	return like, nil
}

func (s *Storage) SaveLike(ctx context.Context, like models.Like) error {
	const op = "storage.postgres.SaveLike"

	_, err := s.db.ExecContext(ctx, `INSERT INTO likes (id, user_id, article_id) VALUES ($1, $2, $3)`,
		like.ID, like.UserID, like.ArticleID)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w", op, storage.ErrLikeExists)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveLike(ctx context.Context, userID, articleID string) error {
	const op = "storage.postgres.RemoveLike"

	_, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND article_id = $2`, userID, articleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) IncrementLikes(ctx context.Context, articleID string, delta int) error {
	const op = "storage.postgres.IncrementLikes"

	return s.increment(ctx, op, `UPDATE articles SET like_count = like_count + $1 WHERE id = $2`, articleID, delta)
}

func (s *Storage) IncrementComments(ctx context.Context, articleID string, delta int) error {
	const op = "storage.postgres.IncrementComments"

	return s.increment(ctx, op, `UPDATE articles SET comment_count = comment_count + $1 WHERE id = $2`, articleID, delta)
}

func (s *Storage) increment(ctx context.Context, op, query, articleID string, delta int) error {
	res, err := s.db.ExecContext(ctx, query, delta, articleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	} else if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
	}

	return nil
}

func (s *Storage) SaveComment(ctx context.Context, c models.Comment) error {
	const op = "storage.postgres.SaveComment"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, content, article_id, author_id, writer_name, publish_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Content, c.ArticleID, c.AuthorID, c.WriterName, time.Now())
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) CommentsByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	const op = "storage.postgres.CommentsByArticle"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, article_id, author_id, writer_name, publish_date
		FROM comments WHERE article_id = $1 ORDER BY publish_date`, articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var (
			c       models.Comment
			pubDate time.Time
		)
		if err := rows.Scan(&c.ID, &c.Content, &c.ArticleID, &c.AuthorID, &c.WriterName, &pubDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.PublishDate = &pubDate
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}
