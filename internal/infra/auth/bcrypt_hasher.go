// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultMinPasswordLength = 8
	defaultMaxPasswordLength = 72 // bcrypt's input limit
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	policy := config.PasswordStrengthConfig{
		MinLength:        defaultMinPasswordLength,
		MaxLength:        defaultMaxPasswordLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
	}
	if cfg != nil && cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
		if policy.MinLength <= 0 {
			policy.MinLength = defaultMinPasswordLength
		}
		if policy.MaxLength <= 0 {
			policy.MaxLength = defaultMaxPasswordLength
		}
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks a plaintext password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	runes := []rune(password)
	if len(runes) < h.policy.MinLength {
		return errors.Errorf("password must be at least %d characters long", h.policy.MinLength)
	}
	if len([]byte(password)) > h.policy.MaxLength {
		return errors.Errorf("password must be at most %d bytes long", h.policy.MaxLength)
	}
	if h.policy.RequireUppercase && !hasUppercase(password) {
		return errors.New("password must contain at least one uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLowercase(password) {
		return errors.New("password must contain at least one lowercase letter")
	}
	if h.policy.RequireNumbers && !hasNumbers(password) {
		return errors.New("password must contain at least one number")
	}
	if h.policy.RequireSpecial && !hasSpecialChars(password) {
		return errors.New("password must contain at least one special character")
	}

	return nil
}

func hasUppercase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}

	return false
}

func hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}

	return false
}

func hasNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

func hasSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}

	return false
}
