package cache

import (
	"strings"

	"github.com/Sternrassler/swapi-reader/pkg/swapi"
)

// DefaultNamespace prefixes every redis key.
const DefaultNamespace = "swapi"

// SnapshotKey identifies the stored snapshot of one collection.
type SnapshotKey struct {
	// Namespace separates independent caches sharing one redis database.
	Namespace string

	// Collection is the SWAPI collection name.
	Collection swapi.Name
}

// String generates the redis key.
// Format: namespace:collection:name
//
// Example:
//
//	swapi:collection:people
func (k SnapshotKey) String() string {
	ns := strings.Trim(k.Namespace, ":")
	if ns == "" {
		ns = DefaultNamespace
	}
	return strings.Join([]string{ns, "collection", string(k.Collection)}, ":")
}

// FileName returns the snapshot file name, {collection}.json.
func (k SnapshotKey) FileName() string {
	return string(k.Collection) + ".json"
}
