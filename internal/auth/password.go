package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/openlms/lmsadmin/internal/apperr"
)

const specialChars = "!@#$^*"

// ValidatePassword enforces the registration password policy. Rules are
// checked in a fixed order and the first unmet rule is reported.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return apperr.New(apperr.CodeInvalid, "Password must be at least 6 characters long.")
	}
	if !containsFunc(password, unicode.IsUpper) {
		return apperr.New(apperr.CodeInvalid, "Password must have at least one upper case letter.")
	}
	if !containsFunc(password, unicode.IsDigit) {
		return apperr.New(apperr.CodeInvalid, "Password must have at least one numeric character.")
	}
	if !strings.ContainsAny(password, specialChars) {
		return apperr.New(apperr.CodeInvalid, "Password must have at least one special character (!@#$^*).")
	}
	return nil
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
