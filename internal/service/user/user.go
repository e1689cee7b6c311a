package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"blog-api/internal/domain/models"
	"blog-api/internal/lib/jwt"
	"blog-api/internal/lib/logger/sl"
	"blog-api/internal/storage"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 6
	// bcrypt refuses longer input.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrEmptyField       = errors.New("email and name are required")
	ErrUserExists       = errors.New("email already registered")
	ErrUserNotFound     = errors.New("no user with this email")
	ErrWrongPassword    = errors.New("wrong password")
	ErrInvalidToken     = errors.New("invalid token")
)

type Storage interface {
	SaveUser(ctx context.Context, user models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	UpdateToken(ctx context.Context, id, token string, exp int64) error
}

type Service struct {
	log       *slog.Logger
	storage   Storage
	tokenTTL  time.Duration
	secret    string
	tokenAuth *jwtauth.JWTAuth
}

func New(log *slog.Logger, storage Storage, ttl time.Duration, secret string) *Service {
	return &Service{
		log:       log,
		storage:   storage,
		tokenTTL:  ttl,
		secret:    secret,
		tokenAuth: jwtauth.New("HS256", []byte(secret), nil),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password, name string) error {
	const op = "service.user.Register"

	log := s.log.With(slog.String("op", op))

	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("%s: %w", op, ErrPasswordTooShort)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyField)
	}

	// The unique index on email still rejects a concurrent duplicate that
	// slips past this check.
	_, err := s.storage.UserByEmail(ctx, email)
	if err == nil {
		log.Info("email already registered", slog.String("email", email))
		return fmt.Errorf("%s: %w", op, ErrUserExists)
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		log.Error("failed to look up user", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	// Hashing password
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
		}
		log.Error("failed to generate hash from password", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        strings.TrimSpace(name),
		Role:        models.RoleUser,
		Credentials: models.Credentials{PassHash: passHash},
	}

	// Send to data layer
	err = s.storage.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("email already registered", slog.String("email", email))
			return fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to register user", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	return nil
}

// Login checks the credentials and issues a fresh session token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, string, error) {
	const op = "service.user.Login"

	log := s.log.With(slog.String("op", op))

	// Send to data layer
	user, err := s.storage.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("user not found", slog.String("email", email))
			return models.User{}, "", fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user by email", sl.Error(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	if !s.VerifyPassword(user, password) {
		log.Info("incorrect password", slog.String("user_id", user.ID))
		return models.User{}, "", fmt.Errorf("%s: %w", op, ErrWrongPassword)
	}

	return s.IssueToken(ctx, user)
}

func (s *Service) VerifyPassword(user models.User, password string) bool {
	return bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)) == nil
}

// IssueToken mints a token for user and stores it as the user's only valid session.
func (s *Service) IssueToken(ctx context.Context, user models.User) (models.User, string, error) {
	const op = "service.user.IssueToken"

	log := s.log.With(slog.String("op", op))

	expiresAt := time.Now().Add(s.tokenTTL)

	token, err := jwt.NewToken(user, expiresAt, s.secret)
	if err != nil {
		log.Error("failed to create new token", sl.Error(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	err = s.storage.UpdateToken(ctx, user.ID, token, expiresAt.Unix())
	if err != nil {
		log.Error("failed to store token", sl.Error(err))
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	user.Token = token
	user.TokenExp = expiresAt.Unix()

	return user, token, nil
}

// ResolveToken returns the owner of token. The token must be correctly signed,
// unexpired, and still the one stored on the user record.
func (s *Service) ResolveToken(ctx context.Context, token string) (models.User, error) {
	const op = "service.user.ResolveToken"

	log := s.log.With(slog.String("op", op))

	if token == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := jwt.UserID(s.tokenAuth, token)
	if err != nil {
		log.Debug("token rejected", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.storage.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		log.Error("failed to get user by id", sl.Error(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if user.Token == "" || user.Token != token {
		log.Debug("token is not current", slog.String("user_id", uid))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return user, nil
}

// Logout clears the stored token, which invalidates every token issued before.
func (s *Service) Logout(ctx context.Context, id string) error {
	const op = "service.user.Logout"

	log := s.log.With(slog.String("op", op))

	err := s.storage.UpdateToken(ctx, id, "", 0)
	if err != nil {
		log.Error("failed to clear token", sl.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
