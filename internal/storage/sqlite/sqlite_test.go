package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"blog-api/internal/domain/models"
	"blog-api/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Storage, email string) models.User {
	t.Helper()
	user := models.User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        "alice",
		Credentials: models.Credentials{PassHash: []byte("hash")},
	}
	require.NoError(t, s.SaveUser(context.Background(), user))
	return user
}

func seedArticle(t *testing.T, s *Storage, author models.User) models.Article {
	t.Helper()
	art := models.Article{
		ID:       uuid.NewString(),
		Title:    "title",
		Content:  "content",
		AuthorID: author.ID,
		Writer:   author.Name,
	}
	require.NoError(t, s.SaveArticle(context.Background(), art))
	return art
}

func TestSaveUser_ThenLookup(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@x.com")

	got, err := s.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, []byte("hash"), got.PassHash)
	assert.Empty(t, got.Token)
	assert.NotNil(t, got.RegistrationDate)

	got, err = s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestSaveUser_DuplicateEmail(t *testing.T) {
	s := setupStorage(t)

	seedUser(t, s, "a@x.com")

	err := s.SaveUser(context.Background(), models.User{
		ID:          uuid.NewString(),
		Email:       "a@x.com",
		Credentials: models.Credentials{PassHash: []byte("other")},
	})
	require.ErrorIs(t, err, storage.ErrUserExists)
}

func TestUserByEmail_NotFound(t *testing.T) {
	s := setupStorage(t)

	_, err := s.UserByEmail(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUpdateToken_SetAndClear(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	user := seedUser(t, s, "a@x.com")

	require.NoError(t, s.UpdateToken(ctx, user.ID, "tok", 42))
	got, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, int64(42), got.TokenExp)

	require.NoError(t, s.UpdateToken(ctx, user.ID, "", 0))
	got, err = s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Token)

	err = s.UpdateToken(ctx, uuid.NewString(), "tok", 0)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestArticles_SaveListFind(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	user := seedUser(t, s, "a@x.com")

	arts, err := s.Articles(ctx)
	require.NoError(t, err)
	assert.Empty(t, arts)

	art := seedArticle(t, s, user)

	arts, err = s.Articles(ctx)
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, art.ID, arts[0].ID)
	assert.Equal(t, 0, arts[0].LikeCount)
	assert.Equal(t, 0, arts[0].CommentCount)

	got, err := s.ArticleByID(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Writer)

	_, err = s.ArticleByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, storage.ErrArticleNotFound)
}

func TestSaveArticle_UnknownAuthor(t *testing.T) {
	s := setupStorage(t)

	err := s.SaveArticle(context.Background(), models.Article{
		ID: uuid.NewString(), Title: "t", Content: "c", AuthorID: uuid.NewString(),
	})
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestLikes_SaveFindRemove(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	user := seedUser(t, s, "a@x.com")
	art := seedArticle(t, s, user)

	_, err := s.Like(ctx, user.ID, art.ID)
	require.ErrorIs(t, err, storage.ErrLikeNotFound)

	like := models.Like{ID: uuid.NewString(), UserID: user.ID, ArticleID: art.ID}
	require.NoError(t, s.SaveLike(ctx, like))

	got, err := s.Like(ctx, user.ID, art.ID)
	require.NoError(t, err)
	assert.Equal(t, like, got)

	err = s.SaveLike(ctx, models.Like{ID: uuid.NewString(), UserID: user.ID, ArticleID: art.ID})
	require.ErrorIs(t, err, storage.ErrLikeExists)

	require.NoError(t, s.RemoveLike(ctx, user.ID, art.ID))
	_, err = s.Like(ctx, user.ID, art.ID)
	require.ErrorIs(t, err, storage.ErrLikeNotFound)
}

func TestSaveLike_UnknownArticle(t *testing.T) {
	s := setupStorage(t)
	user := seedUser(t, s, "a@x.com")

	err := s.SaveLike(context.Background(), models.Like{
		ID: uuid.NewString(), UserID: user.ID, ArticleID: uuid.NewString(),
	})
	require.ErrorIs(t, err, storage.ErrArticleNotFound)
}

func TestIncrementCounters(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	user := seedUser(t, s, "a@x.com")
	art := seedArticle(t, s, user)

	require.NoError(t, s.IncrementLikes(ctx, art.ID, 1))
	require.NoError(t, s.IncrementLikes(ctx, art.ID, 1))
	require.NoError(t, s.IncrementLikes(ctx, art.ID, -1))
	require.NoError(t, s.IncrementComments(ctx, art.ID, 1))

	got, err := s.ArticleByID(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 1, got.CommentCount)

	require.ErrorIs(t, s.IncrementLikes(ctx, uuid.NewString(), 1), storage.ErrArticleNotFound)
	require.ErrorIs(t, s.IncrementComments(ctx, uuid.NewString(), 1), storage.ErrArticleNotFound)
}

func TestComments_SaveAndListByArticle(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	user := seedUser(t, s, "a@x.com")
	art := seedArticle(t, s, user)
	other := seedArticle(t, s, user)

	for _, body := range []string{"first", "second"} {
		require.NoError(t, s.SaveComment(ctx, models.Comment{
			ID: uuid.NewString(), Content: body, ArticleID: art.ID, AuthorID: user.ID, WriterName: user.Name,
		}))
	}

	comments, err := s.CommentsByArticle(ctx, art.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "alice", comments[1].WriterName)

	comments, err = s.CommentsByArticle(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	err = s.SaveComment(ctx, models.Comment{
		ID: uuid.NewString(), Content: "x", ArticleID: uuid.NewString(), AuthorID: user.ID,
	})
	require.ErrorIs(t, err, storage.ErrArticleNotFound)
}
