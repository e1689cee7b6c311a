// Package request holds the bodies accepted by the HTTP handlers. Every body
// may arrive as JSON or as a urlencoded form.
package request

type Register struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
}

type Login struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type PostArticle struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

// ArticleRef addresses an article by its id, as /articles/find and /articles/like expect.
type ArticleRef struct {
	ID string `json:"_id" form:"_id"`
}

type AddComment struct {
	Content   string `json:"content" form:"content"`
	ArticleID string `json:"articleId" form:"articleId"`
}

type LoadComments struct {
	ArticleID string `json:"articleId" form:"articleId"`
}
