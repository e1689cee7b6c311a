package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-api/internal/domain/models"
	"blog-api/internal/storage"
	"blog-api/internal/storage/migrations"

	"github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", withForeignKeys(storagePath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := migrations.Up(context.Background(), db, "sqlite3", "sqlite"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// withForeignKeys turns on FK enforcement for every pooled connection.
func withForeignKeys(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.sqlite.SaveUser"

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO users (id, email, name, lastname, role, image, pass_hash, registration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, user.ID, user.Email, user.Name, user.Lastname, user.Role, user.Image,
		user.PassHash, time.Now())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const selectUser = `SELECT id, email, name, lastname, role, image, pass_hash, token, token_exp, registration_date FROM users`

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.sqlite.UserByEmail"

	user, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email))
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.sqlite.UserByID"

	user, err := scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id))
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
	const op = "storage.sqlite.UpdateToken"

	res, err := s.db.ExecContext(ctx, `UPDATE users SET token = ?, token_exp = ? WHERE id = ?`, token, exp, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

func (s *Storage) SaveArticle(ctx context.Context, art models.Article) error {
	const op = "storage.sqlite.SaveArticle"

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO articles (id, title, content, author_id, writer, publish_date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, art.ID, art.Title, art.Content, art.AuthorID, art.Writer, time.Now())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
				return fmt.Errorf("%s: %w", op, storage.ErrArticleExists)
			case sqlite3.ErrConstraintForeignKey:
				return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const selectArticle = `SELECT id, title, content, author_id, writer, like_count, comment_count, publish_date FROM articles`

func (s *Storage) Articles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.Articles"

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
	const op = "storage.sqlite.ArticleByID"

	art, err := scanArticle(s.db.QueryRowContext(ctx, selectArticle+` WHERE id = ?`, id))
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
	const op = "storage.sqlite.Like"

	var like models.Like
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, article_id FROM likes WHERE user_id = ? AND article_id = ?`, userID, articleID,
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
	const op = "storage.sqlite.SaveLike"

	_, err := s.db.ExecContext(ctx, `INSERT INTO likes (id, user_id, article_id) VALUES (?, ?, ?)`,
		like.ID, like.UserID, like.ArticleID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.ExtendedCode {
			case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
				return fmt.Errorf("%s: %w", op, storage.ErrLikeExists)
			case sqlite3.ErrConstraintForeignKey:
				return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveLike(ctx context.Context, userID, articleID string) error {
	const op = "storage.sqlite.RemoveLike"

	_, err := s.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND article_id = ?`, userID, articleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) IncrementLikes(ctx context.Context, articleID string, delta int) error {
	const op = "storage.sqlite.IncrementLikes"

	return s.increment(ctx, op, `UPDATE articles SET like_count = like_count + ? WHERE id = ?`, articleID, delta)
}

func (s *Storage) IncrementComments(ctx context.Context, articleID string, delta int) error {
	const op = "storage.sqlite.IncrementComments"

	return s.increment(ctx, op, `UPDATE articles SET comment_count = comment_count + ? WHERE id = ?`, articleID, delta)
}

func (s *Storage) increment(ctx context.Context, op, query, articleID string, delta int) error {
	res, err := s.db.ExecContext(ctx, query, delta, articleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
	}

	return nil
}

func (s *Storage) SaveComment(ctx context.Context, c models.Comment) error {
	const op = "storage.sqlite.SaveComment"

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO comments (id, content, article_id, author_id, writer_name, publish_date)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, c.ID, c.Content, c.ArticleID, c.AuthorID, c.WriterName, time.Now())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) CommentsByArticle(ctx context.Context, articleID string) ([]models.Comment, error) {
	const op = "storage.sqlite.CommentsByArticle"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, article_id, author_id, writer_name, publish_date
		FROM comments WHERE article_id = ? ORDER BY publish_date`, articleID)
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
