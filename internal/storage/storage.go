package storage

import "errors"

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	ErrArticleExists   = errors.New("article already exists")
	ErrArticleNotFound = errors.New("article not found")

	ErrLikeExists   = errors.New("like already exists")
	ErrLikeNotFound = errors.New("like not found")
)
