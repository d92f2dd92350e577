package event

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var nilID = uuid.Nil

// ConfigurationError reports a record or rule that breaks its structural
// invariants. It points at bad data in the store and is never retried.
type ConfigurationError struct {
	RecordID uuid.UUID
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.RecordID == uuid.Nil {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error in event %s: %s", e.RecordID, e.Reason)
}

func newConfigurationError(id uuid.UUID, reason string) *ConfigurationError {
	return &ConfigurationError{RecordID: id, Reason: reason}
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// WithRecordID attaches id to a ConfigurationError that was raised without
// knowing which record it belongs to. Other errors are returned unchanged.
func WithRecordID(err error, id uuid.UUID) error {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) && cfgErr.RecordID == uuid.Nil {
		return newConfigurationError(id, cfgErr.Reason)
	}
	return err
}
