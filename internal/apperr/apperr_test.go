package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", New(CodeInvalid, "bad password"), http.StatusBadRequest},
		{"unauthorized", New(CodeUnauthorized, "bad token"), http.StatusUnauthorized},
		{"forbidden", New(CodeForbidden, "no customer"), http.StatusForbidden},
		{"not found", New(CodeNotFound, "missing"), http.StatusNotFound},
		{"conflict", New(CodeConflict, "duplicate"), http.StatusConflict},
		{"internal", Wrap(CodeInternal, "query", errors.New("boom")), http.StatusInternalServerError},
		{"untagged", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped in fmt", fmt.Errorf("outer: %w", New(CodeNotFound, "missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestMessageSuppressesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "internal server error", Message(Wrap(CodeInternal, "insert user", errors.New("dsn leak"))))
	assert.Equal(t, "Catalog not found", Message(New(CodeNotFound, "Catalog not found")))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := Wrap(CodeConflict, "duplicate username", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, CodeConflict, CodeOf(err))
}
