package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var hashCost = bcrypt.DefaultCost

var errPasswordMismatch = errors.New("password mismatch")

/*
* Generate a bcrypt hash for the given password
 */
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

/*
* Compare the stored hash with the input password
 */
func verifyPassword(dbPassword string, inputPassword string) error {
	if strings.TrimSpace(dbPassword) == "" {
		return errors.New("stored password missing or invalid")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(dbPassword), []byte(inputPassword)); err != nil {
		return errPasswordMismatch
	}
	return nil
}
