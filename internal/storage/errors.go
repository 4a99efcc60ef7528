package storage

import (
	"errors"
	"fmt"

	"github.com/DukeRupert/sitewalk/internal/domain"
)

var (
	// ErrNotFound is returned when a requested object doesn't exist.
	ErrNotFound = errors.New("object not found")

	// ErrKeyExists is returned by Put when the key is taken and
	// PutOptions.Overwrite is false.
	ErrKeyExists = errors.New("object already exists at this key")

	// ErrInvalidKey is returned for empty keys and keys that escape the
	// storage root ("../").
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrTooLarge is returned when an object exceeds PutOptions.MaxSize.
	ErrTooLarge = errors.New("object exceeds maximum size")

	// ErrAccessDenied is returned when the provider rejects the credentials.
	ErrAccessDenied = errors.New("access denied")
)

// StorageError records the operation and key of a failed storage call.
type StorageError struct {
	Op  string // "Put", "Get", "Delete", "URL" or "Exists"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidKey reports whether err is or wraps ErrInvalidKey.
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}

// DomainError converts a storage failure into an application error for op.
// Size and key problems are the caller's fault; anything else is internal
// and keeps the storage error as its cause.
func DomainError(err error, op, message string) *domain.Error {
	switch {
	case errors.Is(err, ErrTooLarge):
		return domain.Wrap(err, domain.ETOOLARGE, op, "Media exceeds the maximum upload size")
	case errors.Is(err, ErrInvalidKey):
		return domain.Wrap(err, domain.EINVALID, op, "Invalid media path")
	case errors.Is(err, ErrKeyExists):
		return domain.Wrap(err, domain.ECONFLICT, op, "Media already exists")
	default:
		return domain.Internal(err, op, message)
	}
}
