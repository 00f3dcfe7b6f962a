package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/boutique-api/internal/domain"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"único", &pgconn.PgError{Code: codeUniqueViolation}, domain.ErrDuplicate},
		{"fk", &pgconn.PgError{Code: codeForeignKeyViolation}, domain.ErrConflict},
		{"stock negativo", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: stockConstraint}, domain.ErrInsufficientStock},
		{"otro check", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "sales_total_check"}, domain.ErrValidation},
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, domain.ErrTransient},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.ErrTransient},
		{"deadline", context.DeadlineExceeded, domain.ErrTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate(tc.err, "op")
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "op")
		})
	}
}

func TestTranslate_SinCategoria(t *testing.T) {
	assert.NoError(t, translate(nil, "op"))

	err := translate(errors.New("boom"), "insert sale")
	assert.EqualError(t, err, "insert sale: boom")
	assert.False(t, domain.IsRetryable(err))

	err = translate(fmt.Errorf("envuelto: %w", context.Canceled), "op")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsRetryable(err))

	err = translate(&pgconn.PgError{Code: "42P01"}, "op")
	assert.False(t, errors.Is(err, domain.ErrValidation))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(fmt.Errorf("x: %w", &pgconn.PgError{Code: codeForeignKeyViolation})))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isForeignKeyViolation(errors.New("x")))
}
