package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
)

// ErrInvalidSnapshot indicates a stored snapshot that cannot be decoded.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// State tells whether a store holds a usable snapshot.
type State int

const (
	// StateAbsent means the collection must be fetched.
	StateAbsent State = iota
	// StatePresent means Records holds the stored collection.
	StatePresent
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePresent:
		return "present"
	default:
		return "absent"
	}
}

// Snapshot is the result of a store lookup.
type Snapshot struct {
	State   State
	Records swapi.Collection
	// Size is the encoded size in bytes, zero when absent.
	Size int
}

// Absent is the empty lookup result.
func Absent() Snapshot {
	return Snapshot{State: StateAbsent}
}

// Present wraps a stored collection.
func Present(records swapi.Collection, size int) Snapshot {
	return Snapshot{State: StatePresent, Records: records, Size: size}
}

// Store persists whole-collection snapshots.
type Store interface {
	// Lookup returns the stored snapshot or Absent.
	Lookup(ctx context.Context, name swapi.Name) (Snapshot, error)
	// Save replaces the snapshot of name with records in a single operation.
	Save(ctx context.Context, name swapi.Name, records swapi.Collection) (int, error)
	// Delete removes the snapshot of name. Deleting an absent snapshot is not an error.
	Delete(ctx context.Context, name swapi.Name) error
	// Backend names the store for logs and metric labels.
	Backend() string
}

// decodeSnapshot turns stored bytes into a lookup result. Empty input and an
// empty array both count as absent, so an interrupted or empty fetch is
// retried on the next run.
func decodeSnapshot(data []byte) (Snapshot, error) {
	if len(data) == 0 {
		return Absent(), nil
	}
	var records swapi.Collection
	if err := json.Unmarshal(data, &records); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if len(records) == 0 {
		return Absent(), nil
	}
	return Present(records, len(data)), nil
}

func encodeSnapshot(records swapi.Collection) ([]byte, error) {
	if records == nil {
		records = swapi.Collection{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
