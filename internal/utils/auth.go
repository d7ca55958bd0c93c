package utils

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// NormalizeInput trims surrounding whitespace and collapses inner runs of
// whitespace to a single space.
func NormalizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeEmail(s string) string {
	return strings.ToLower(NormalizeInput(s))
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
