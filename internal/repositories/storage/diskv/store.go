// Package diskv implements the durable storage slots on top of a
// peterbourgon/diskv key-value store. Each slot holds one serialized blob
// and is rewritten in full on every mutation; the owning service is the
// only writer of its slot.
package diskv

import (
	"github.com/peterbourgon/diskv/v3"
)

const (
	// entriesSlot holds the full serialized journal entry collection.
	entriesSlot = "journal-entries"
	// preferencesSlot holds the user's category/focus/notification choices.
	preferencesSlot = "user-preferences"
)

// NewStore opens (creating if needed) the diskv store rooted at basePath.
func NewStore(basePath string) *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(s string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})
}
