package auth

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt truncates passwords at 72 bytes; enforce that explicitly so
	// login behavior stays consistent with registration.
	bcryptMaxPasswordBytes = 72
	minPasswordChars       = 8
)

var errPasswordValidation = errors.New("password validation")

func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password required", errPasswordValidation)
	}
	if utf8.RuneCountInString(plain) < minPasswordChars {
		return "", fmt.Errorf("%w: password must be at least %d characters", errPasswordValidation, minPasswordChars)
	}
	if len(plain) > bcryptMaxPasswordBytes {
		return "", fmt.Errorf("%w: password too long, bcrypt supports at most %d bytes", errPasswordValidation, bcryptMaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func ComparePasswordHash(hash string, plain string) error {
	if plain == "" {
		return fmt.Errorf("password required")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

func IsPasswordValidationError(err error) bool {
	return errors.Is(err, errPasswordValidation)
}
