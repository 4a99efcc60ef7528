// Package kv is the key-value collaborator the progress store persists to.
//
// A Store only needs Get and Set. Values are opaque bytes; the progress
// store writes JSON. Backends never expire or evict keys.
package kv

import (
	"context"
	"errors"
	"strings"
)

const (
	keyPrefix    = "inspection-"
	recordSuffix = "-data"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a durable byte-valued map.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// RecordKey is the key of the full inspection record for id.
func RecordKey(inspectionID string) string {
	return keyPrefix + inspectionID + recordSuffix
}

// SeedKey is the key of the basic info seed written when id was scheduled.
func SeedKey(inspectionID string) string {
	return keyPrefix + inspectionID
}

// ReservedID reports whether the seed key of inspectionID is the record key
// of another inspection: SeedKey("X-data") == RecordKey("X").
func ReservedID(inspectionID string) bool {
	return strings.HasSuffix(inspectionID, recordSuffix)
}
