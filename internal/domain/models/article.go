package models

import "time"

type Article struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	AuthorID     string     `json:"author"`
	Writer       string     `json:"writer"`
	LikeCount    int        `json:"like"`
	CommentCount int        `json:"commentCnt"`
	PublishDate  *time.Time `json:"createdAt,omitempty"`
}

// Like marks that UserID likes ArticleID. At most one exists per pair.
type Like struct {
	ID        string `json:"_id"`
	UserID    string `json:"userId"`
	ArticleID string `json:"articleId"`
}

type Comment struct {
	ID          string     `json:"_id"`
	Content     string     `json:"content"`
	ArticleID   string     `json:"articleId"`
	AuthorID    string     `json:"authorId"`
	WriterName  string     `json:"writerName"`
	PublishDate *time.Time `json:"createdAt,omitempty"`
}
