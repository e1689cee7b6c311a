package jwt

import (
	"errors"
	"fmt"
	"time"

	"blog-api/internal/domain/models"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const ClaimUID = "uid"

var ErrNoUID = errors.New("token has no uid claim")

// NewToken signs an HS256 token carrying the user id and an expiry.
func NewToken(user models.User, expiresAt time.Time, secret string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims[ClaimUID] = user.ID
	claims["exp"] = expiresAt.Unix()
	claims["iat"] = time.Now().Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// UserID verifies the signature and expiry of tokenString and returns its uid claim.
func UserID(tokenAuth *jwtauth.JWTAuth, tokenString string) (string, error) {
	const op = "jwt.UserID"

	token, err := jwtauth.VerifyToken(tokenAuth, tokenString)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	c, ok := token.Get(ClaimUID)
	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrNoUID)
	}

	uid, ok := c.(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("%s: %w", op, ErrNoUID)
	}

	return uid, nil
}
