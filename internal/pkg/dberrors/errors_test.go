package dberrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), true},
		{"too many connections", pgError(pgerrcode.TooManyConnections), true},
		{"deadlock victim", pgError(pgerrcode.DeadlockDetected), true},
		{"serialization failure", pgError(pgerrcode.SerializationFailure), true},
		{"unique violation", pgError(pgerrcode.UniqueViolation), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnavailable(tt.err))
		})
	}
}

func TestIsUnavailableWrapped(t *testing.T) {
	err := fmt.Errorf("submit selection: %w", pgError(pgerrcode.DeadlockDetected))
	assert.True(t, IsUnavailable(err))
}
