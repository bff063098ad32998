package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/lmsadmin/internal/apperr"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantMsg  string // empty means valid
	}{
		{"valid", "Ab1!cd", ""},
		{"valid with all classes", "Str0ng#Pass", ""},
		{"too short", "Ab1!", "Password must be at least 6 characters long."},
		{"no uppercase", "abcdef", "Password must have at least one upper case letter."},
		{"no digit", "ABCDEFg", "Password must have at least one numeric character."},
		{"no special", "ABCDEF1", "Password must have at least one special character (!@#$^*)."},
		{"length checked before uppercase", "ab1", "Password must be at least 6 characters long."},
		{"uppercase checked before digit", "abcdefgh", "Password must have at least one upper case letter."},
		{"percent is not a valid special char", "Abcde1%", "Password must have at least one special character (!@#$^*)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.CodeInvalid, apperr.CodeOf(err))
			assert.Equal(t, tt.wantMsg, apperr.Message(err))
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Abc1!23")
	require.NoError(t, err)
	require.NotEqual(t, "Abc1!23", hash)

	assert.True(t, CheckPassword(hash, "Abc1!23"))
	assert.False(t, CheckPassword(hash, "Abc1!24"))
}
