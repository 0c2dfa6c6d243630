package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

var _ storage.Adapter = (*Client)(nil)

type createNoteRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	FolderID *string `json:"folderId,omitempty"`
}

type updateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type moveNoteRequest struct {
	FolderID *string `json:"folderId"`
}

func notePath(id string, suffix ...string) string {
	p := "/notes/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) ListNotes(ctx context.Context, filter model.NoteFilter) ([]model.Note, error) {
	path := "/notes"
	if !filter.All() {
		path += "?folderId=" + url.QueryEscape(filter.String())
	}
	notes := []model.Note{}
	if err := c.do(ctx, "list notes", http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (model.Note, error) {
	var n model.Note
	if err := c.do(ctx, "get note", http.MethodGet, notePath(id), nil, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// CreateNote fills in the same defaults the local store uses so both stores
// hand back equivalent notes.
func (c *Client) CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error) {
	req := createNoteRequest{Title: model.DefaultNoteTitle, FolderID: in.FolderID}
	if in.Title != nil && *in.Title != "" {
		req.Title = *in.Title
	}
	if in.Content != nil {
		req.Content = *in.Content
	}

	var n model.Note
	if err := c.do(ctx, "create note", http.MethodPost, "/notes", req, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// UpdateNote applies the folder through the move endpoint, then title and
// content through PUT. PUT replaces both title and content, so a patch that
// sets only one of them is completed from the current remote copy. A failed
// move leaves the note untouched; a failed PUT after a successful move
// leaves it in the new folder with the old text.
func (c *Client) UpdateNote(ctx context.Context, id string, patch model.NotePatch) (model.Note, error) {
	var (
		n   model.Note
		err error
	)
	switch {
	case patch.SetFolder:
		if n, err = c.MoveNote(ctx, id, patch.FolderID); err != nil {
			return model.Note{}, err
		}
	case (patch.Title == nil) != (patch.Content == nil) || patch.Empty():
		if n, err = c.GetNote(ctx, id); err != nil {
			return model.Note{}, err
		}
	}

	if patch.Title == nil && patch.Content == nil {
		return n, nil
	}
	req := updateNoteRequest{Title: n.Title, Content: n.Content}
	if patch.Title != nil {
		req.Title = *patch.Title
	}
	if patch.Content != nil {
		req.Content = *patch.Content
	}
	if err := c.do(ctx, "update note", http.MethodPut, notePath(id), req, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, "delete note", http.MethodDelete, notePath(id), nil, nil)
}

func (c *Client) MoveNote(ctx context.Context, id string, folderID *string) (model.Note, error) {
	var n model.Note
	if err := c.do(ctx, "move note", http.MethodPatch, notePath(id, "move"), moveNoteRequest{FolderID: folderID}, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// PinNote toggles the pin state on the server.
func (c *Client) PinNote(ctx context.Context, id string) (model.Note, error) {
	var n model.Note
	if err := c.do(ctx, "pin note", http.MethodPatch, notePath(id, "pin"), nil, &n); err != nil {
		return model.Note{}, err
	}
	return n, nil
}
