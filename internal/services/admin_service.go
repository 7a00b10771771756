package services

import (
	"errors"
	"log"

	"github.com/aquarela/backend/internal/config"
	"github.com/aquarela/backend/pkg/crypto"
	"github.com/aquarela/backend/pkg/jwt"
)

var ErrInvalidPassword = errors.New("invalid password")

// AdminService gates the admin area behind the single shared password.
// The configured password is hashed once at startup so login compares
// against a bcrypt digest rather than the plaintext.
type AdminService struct {
	cfg          *config.Config
	passwordHash string
}

func NewAdminService(cfg *config.Config) *AdminService {
	hash, err := crypto.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		// bcrypt only fails on absurd cost values; treat as fatal misconfig.
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	return &AdminService{cfg: cfg, passwordHash: hash}
}

// Login checks the password and returns a short-lived admin token.
func (s *AdminService) Login(password string) (string, error) {
	if !crypto.CheckPassword(password, s.passwordHash) {
		return "", ErrInvalidPassword
	}
	return jwt.GenerateToken(jwt.AdminToken, s.cfg.JWTSecret, s.cfg.AdminSessionDuration)
}

// ValidateToken reports whether an admin token is still good.
func (s *AdminService) ValidateToken(token string) bool {
	return jwt.IsTokenValid(token, s.cfg.JWTSecret, jwt.AdminToken)
}
