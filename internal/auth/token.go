package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	roleAdmin = "admin"
	issuer    = "portfolio-admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator checks the admin credential pair and issues a signed
// capability token. The password only ever lives here as a bcrypt hash.
type Authenticator struct {
	username     string
	passwordHash []byte
	secretKey    []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(username, password, secret string, ttl time.Duration) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}
	return &Authenticator{
		username:     username,
		passwordHash: hash,
		secretKey:    []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// Issue returns a token when username and password exactly match the
// configured pair.
func (a *Authenticator) Issue(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	now := a.now()
	claims := jwt.MapClaims{
		"sub":  a.username,
		"role": roleAdmin,
		"iss":  issuer,
		"iat":  now.Unix(),
	}
	if a.ttl > 0 {
		claims["exp"] = now.Add(a.ttl).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Verify reports whether tokenString is an admin token signed with our key.
func (a *Authenticator) Verify(tokenString string) bool {
	if tokenString == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		slog.Warn("Invalid session token", "error", err)
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	sub, _ := claims["sub"].(string)
	return role == roleAdmin && sub == a.username
}
