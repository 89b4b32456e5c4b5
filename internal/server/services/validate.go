package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

const minPasswordLength = 7

// normalizeEmail lowercases and trims an email for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email must be provided", common.ErrorValidation)
	}
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: email must be a valid email address", common.ErrorValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, minPasswordLength)
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf(`%w: password must not contain "password"`, common.ErrorValidation)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must be provided", common.ErrorValidation)
	}
	return nil
}

func validateAge(age int) error {
	if age < 0 {
		return fmt.Errorf("%w: age must be a non-negative number", common.ErrorValidation)
	}
	return nil
}
