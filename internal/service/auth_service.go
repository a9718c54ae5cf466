package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL           = time.Hour
	fallbackSigningKey = "taskhub-dev-secret" // used only when jwt.secret is not configured
)

// Domain errors for auth flows.
var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password so that login failures don't leak which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	users      repository.Users
	signingKey []byte
}

func NewAuthService(users repository.Users) *AuthService {
	return &AuthService{users: users, signingKey: signingKeyFromConfig()}
}

// signingKeyFromConfig reads jwt.secret, falling back to an insecure
// development default when unset.
func signingKeyFromConfig() []byte {
	if s := viper.GetString("jwt.secret"); s != "" {
		return []byte(s)
	}
	return []byte(fallbackSigningKey)
}

// SignUp validates inputs, hashes the password and creates the user.
func (s *AuthService) SignUp(name, email, password string) (int, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return 0, ErrMissingFields
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.users.Create(name, email, hash)
}

// Claims defines JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// SignIn validates credentials and returns a signed token plus the
// public user projection.
func (s *AuthService) SignIn(email, password string) (string, models.PublicUser, error) {
	u, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", models.PublicUser{}, err
	}
	if u == nil {
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID, u.Name)
	if err != nil {
		return "", models.PublicUser{}, err
	}
	return token, u.Public(), nil
}

// ParseToken verifies a session token and returns its claims.
func (s *AuthService) ParseToken(accessToken string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	return TokenClaims{UserID: claims.UserID, Name: claims.Name}, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int, name string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Name:   name,
	})
	return token.SignedString(s.signingKey)
}
