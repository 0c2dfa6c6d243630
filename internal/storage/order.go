package storage

import (
	"slices"

	"github.com/sagar5412/webNotes/internal/model"
)

// SortForDisplay orders notes in place: pinned notes first, most recently
// pinned leading, then the rest by most recent update. Ties keep their
// input order.
func SortForDisplay(notes []model.Note) {
	slices.SortStableFunc(notes, CompareForDisplay)
}

// CompareForDisplay is the comparison behind SortForDisplay.
func CompareForDisplay(a, b model.Note) int {
	if a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}
		return 1
	}
	if a.IsPinned {
		at, bt := int64(0), int64(0)
		if a.PinnedAt != nil {
			at = a.PinnedAt.UnixNano()
		}
		if b.PinnedAt != nil {
			bt = b.PinnedAt.UnixNano()
		}
		return cmpDesc(at, bt)
	}
	return cmpDesc(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
}

func cmpDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
