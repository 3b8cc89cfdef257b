package history

import (
	"errors"

	"textchecker/internal/models"
)

var (
	// ErrUnsupportedBackend is returned by New for an unknown history type.
	ErrUnsupportedBackend = errors.New("unsupported history backend")

	// ErrInvalidRecord is returned when a record is nil or has no ID.
	ErrInvalidRecord = errors.New("invalid check record")
)

func validateRecord(rec *models.CheckRecord) error {
	if rec == nil || rec.ID == "" {
		return ErrInvalidRecord
	}
	return nil
}
