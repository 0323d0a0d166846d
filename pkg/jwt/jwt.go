package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
)

const devSecret = "babyboss-dev-secret-change-in-production"

var (
	mu     sync.RWMutex
	secret = []byte(devSecret)
	ttl    = 24 * time.Hour
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Branch       string   `json:"branch"`
	Privileges   []string `json:"privileges"`
	TokenVersion string   `json:"token_version"`
	jwt.RegisteredClaims
}

// Configure sets the signing secret and token lifetime. An empty secret keeps
// the development default.
func Configure(signingSecret string, lifetime time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if signingSecret != "" {
		secret = []byte(signingSecret)
	}
	if lifetime > 0 {
		ttl = lifetime
	}
}

// GetSecretKey returns the configured signing secret
func GetSecretKey() []byte {
	mu.RLock()
	defer mu.RUnlock()
	return secret
}

func lifetime() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ttl
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(userID, username, name, role, branch string, privileges []string, tokenVersion string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:       userID,
		Username:     username,
		Name:         name,
		Role:         role,
		Branch:       branch,
		Privileges:   privileges,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "babyboss-sales",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetSecretKey())
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return GetSecretKey(), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
