// Package auth issues and inspects bearer tokens for CRM users.
package auth

import (
	"crm/source/middlewares"

	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	users  UserRepository
	tokens *middlewares.TokenIssuer
}

func NewHandler(users UserRepository, tokens *middlewares.TokenIssuer) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// HashPassword uses bcrypt, which is what the legacy password_hash() produced.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
