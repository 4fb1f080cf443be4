package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
		{name: "bad connection", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: Retryable},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: Retryable},
		{name: "deadlock", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: Retryable},
		{name: "connection failure", err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, want: Retryable},
		{name: "cannot connect now", err: &pgconn.PgError{Code: pgerrcode.CannotConnectNow}, want: Retryable},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: NonRetryable},
		{name: "wrapped pg error", err: fmt.Errorf("tx: %w", &pgconn.PgError{Code: pgerrcode.LockNotAvailable}), want: Retryable},
	}

	classifier := NewPostgresErrorClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.NotNullViolation}))
	assert.False(t, isUniqueViolation(nil))
}

func TestDB_wrap(t *testing.T) {
	db := &DB{errorClassificator: NewPostgresErrorClassifier()}

	err := db.wrap(ErrExecutingQuery, &pgconn.PgError{Code: pgerrcode.SerializationFailure})
	assert.ErrorIs(t, err, ErrRetryable)
	assert.ErrorIs(t, err, ErrExecutingQuery)

	err = db.wrap(ErrExecutingQuery, errors.New("syntax"))
	assert.NotErrorIs(t, err, ErrRetryable)
	assert.ErrorIs(t, err, ErrExecutingQuery)

	// SQLite has no classifier
	err = (&DB{}).wrap(ErrExecutingQuery, driver.ErrBadConn)
	assert.NotErrorIs(t, err, ErrRetryable)
}
