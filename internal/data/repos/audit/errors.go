package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("audit record not found")
	ErrConflict  = errors.New("audit record conflict")
	ErrRetryable = errors.New("audit store temporarily unavailable")
)

// MapError tags storage failures so callers can branch with errors.Is.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return fmt.Errorf("%s: %w: %w", op, ErrConflict, err) // unique_violation
		case "40001", "40P01", "55P03", "57P01":
			return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "deadlock"):
		return fmt.Errorf("%s: %w: %w", op, ErrRetryable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
