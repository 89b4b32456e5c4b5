package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "mike@example.com", normalizeEmail("  Mike@Example.COM "))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"mike@example.com", true},
		{"m.ike+tag@sub.example.co.uk", true},
		{"", false},
		{"mike", false},
		{"mike@", false},
		{"@example.com", false},
		{"mike@@example.com", false},
	}

	for _, tt := range tests {
		err := validateEmail(tt.email)
		if tt.valid {
			assert.NoError(t, err, tt.email)
		} else {
			assert.Error(t, err, tt.email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"horsestaple", true},
		{"1234567", true},
		{"123456", false},
		{"", false},
		{"password1", false},
		{"MyPaSSworD!", false},
	}

	for _, tt := range tests {
		err := validatePassword(tt.password)
		if tt.valid {
			assert.NoError(t, err, tt.password)
		} else {
			assert.Error(t, err, tt.password)
		}
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, validateName("Mike"))
	assert.Error(t, validateName(""))
	assert.Error(t, validateName("   "))
}

func TestValidateAge(t *testing.T) {
	assert.NoError(t, validateAge(0))
	assert.NoError(t, validateAge(18))
	assert.Error(t, validateAge(-1))
}
