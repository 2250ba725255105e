package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrConflict indicates a uniqueness conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrPersistence indicates the snapshot could not be encoded or written.
	ErrPersistence = errors.New("aggregate persistence")
	// ErrRestoreFormat indicates a malformed restore document.
	ErrRestoreFormat = errors.New("aggregate restore format")
)

func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// PersistenceError tags a gateway or encoding failure.
func PersistenceError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrPersistence, err)
}

func RestoreFormatError(msg string) error {
	return errors.Join(ErrRestoreFormat, errors.New(strings.TrimSpace(msg)))
}

// MapError maps infrastructure/domain failures into aggregate error codes.
// Errors that already carry a code pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
	}

	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrConflict):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, ErrRestoreFormat):
		return domainagg.Wrap(domainagg.CodeRestoreFormat, op, err)
	case errors.Is(err, ErrPersistence),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		pgErr != nil:
		return domainagg.Wrap(domainagg.CodePersistence, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"):
		return domainagg.Wrap(domainagg.CodePersistence, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}
