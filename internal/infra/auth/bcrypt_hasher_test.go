package auth

import (
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func testHasherConfig(cost int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{BcryptCost: cost},
	}
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig(bcrypt.MinCost))

	password := "StrongPass123"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig(bcrypt.MinCost))
	password := "StrongPass123"

	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("WrongPassword123", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_CustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasher(testHasherConfig(customCost))

	hash, err := hasher.Hash("StrongPass123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify the hash uses the configured cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig(bcrypt.MinCost))

	// Test valid passwords under the default policy
	validPasswords := []string{
		"StrongPass123",
		"MySecurePass1",
		"ComplexSecret9",
		"ValidPhrase2024",
	}

	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "Expected no error for valid password: %s", password)
	}

	// Test invalid passwords with specific error cases
	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"123", "must be at least 8 characters long"},
		{"", "must be at least 8 characters long"},
		{"PASSWORD123", "must contain at least one lowercase letter"},
		{"password123", "must contain at least one uppercase letter"},
		{"PasswordABC", "must contain at least one number"},
	}

	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.Error(t, err, "Expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr, "Error message should contain: %s", tc.expectedErr)
	}
}

func TestBcryptHasher_ValidatePasswordStrength_CustomPolicy(t *testing.T) {
	cfg := testHasherConfig(bcrypt.MinCost)
	cfg.PasswordStrength = &config.PasswordStrengthConfig{
		MinLength:      12,
		RequireSpecial: true,
	}
	hasher := NewBcryptHasher(cfg)

	// Too short for the custom minimum
	err := hasher.ValidatePasswordStrength("Short1!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 12 characters long")

	// Missing the required special character
	err = hasher.ValidatePasswordStrength("LongEnoughPass1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must contain at least one special character")

	// Case and digit rules are disabled under the custom policy
	err = hasher.ValidatePasswordStrength("alllowercase!")
	assert.NoError(t, err)
}

func TestBcryptHasher_ValidatePasswordStrength_EdgeCases(t *testing.T) {
	hasher := NewBcryptHasher(testHasherConfig(bcrypt.MinCost))

	// Passwords beyond bcrypt's 72-byte input limit are rejected
	longPassword := "Aa1" + string(make([]byte, 100))
	err := hasher.ValidatePasswordStrength(longPassword)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be at most 72 bytes long")

	// Password with unicode characters
	unicodePassword := "Pässphräse123"
	err = hasher.ValidatePasswordStrength(unicodePassword)
	assert.NoError(t, err)
}

func TestBcryptHasher_PasswordStrengthHelpers(t *testing.T) {
	assert.True(t, hasUppercase("Password"))
	assert.False(t, hasUppercase("password"))

	assert.True(t, hasLowercase("Password"))
	assert.False(t, hasLowercase("PASSWORD"))

	assert.True(t, hasNumbers("Password123"))
	assert.False(t, hasNumbers("Password"))

	assert.True(t, hasSpecialChars("Password!"))
	assert.False(t, hasSpecialChars("Password"))
}
