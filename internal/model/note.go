package model

import "time"

// DefaultNoteTitle is used when a note is created without a title.
const DefaultNoteTitle = "Untitled"

type Note struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	UserID    string     `json:"userId,omitempty"`
	FolderID  *string    `json:"folderId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	IsPinned  bool       `json:"isPinned"`
	PinnedAt  *time.Time `json:"pinnedAt"`
}

// InFolder reports whether the note is filed under folderID.
// A nil folderID matches unfiled notes.
func (n Note) InFolder(folderID *string) bool {
	if folderID == nil {
		return n.FolderID == nil
	}
	return n.FolderID != nil && *n.FolderID == *folderID
}

// NoteInput carries the optional fields of a note creation.
type NoteInput struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	FolderID *string `json:"folderId,omitempty"`
}

// NotePatch is a partial note update. FolderID is only applied when
// SetFolder is true, so that nil can mean "unfile".
type NotePatch struct {
	Title     *string
	Content   *string
	SetFolder bool
	FolderID  *string
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && !p.SetFolder
}

// NoteFilter selects notes by folder. The zero value selects every note.
type NoteFilter struct {
	set      bool
	folderID *string
}

// AllNotes selects every note.
func AllNotes() NoteFilter { return NoteFilter{} }

// Unfiled selects notes without a folder.
func Unfiled() NoteFilter { return NoteFilter{set: true} }

// InFolder selects the notes of one folder.
func InFolder(id string) NoteFilter { return NoteFilter{set: true, folderID: &id} }

// All reports whether the filter selects every note.
func (f NoteFilter) All() bool { return !f.set }

// FolderID returns the selected folder, nil meaning unfiled. Only meaningful
// when All is false.
func (f NoteFilter) FolderID() *string { return f.folderID }

// Match reports whether n passes the filter.
func (f NoteFilter) Match(n Note) bool {
	if !f.set {
		return true
	}
	return n.InFolder(f.folderID)
}

// String renders the filter the way the remote API expects it in a query.
func (f NoteFilter) String() string {
	switch {
	case !f.set:
		return ""
	case f.folderID == nil:
		return "null"
	default:
		return *f.folderID
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
