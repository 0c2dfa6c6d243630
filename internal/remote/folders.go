package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

type foldersResponse struct {
	Folders []model.Folder `json:"folders"`
}

type folderResponse struct {
	Folder model.Folder `json:"folder"`
}

type createFolderRequest struct {
	Name string `json:"name"`
}

type renameFolderRequest struct {
	NewName string `json:"newName"`
}

func folderPath(id string, suffix ...string) string {
	p := "/folders/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var resp foldersResponse
	if err := c.do(ctx, "list folders", http.MethodGet, "/folders", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Folders == nil {
		return []model.Folder{}, nil
	}
	return resp.Folders, nil
}

// GetFolder picks the folder out of the folder list; the API has no
// single-folder endpoint.
func (c *Client) GetFolder(ctx context.Context, id string) (model.Folder, error) {
	folders, err := c.ListFolders(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	for _, f := range folders {
		if f.ID == id {
			return f, nil
		}
	}
	return model.Folder{}, fmt.Errorf("get folder %s: %w", id, storage.ErrNotFound)
}

func (c *Client) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	name, err := storage.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("create folder: %w", err)
	}
	var resp folderResponse
	if err := c.do(ctx, "create folder", http.MethodPost, "/folders", createFolderRequest{Name: name}, &resp); err != nil {
		return model.Folder{}, err
	}
	return resp.Folder, nil
}

// RenameFolder renames the folder and reads it back, since the rename
// endpoint only answers with a message.
func (c *Client) RenameFolder(ctx context.Context, id, name string) (model.Folder, error) {
	name, err := storage.ValidateFolderName(name)
	if err != nil {
		return model.Folder{}, fmt.Errorf("rename folder %s: %w", id, err)
	}
	if err := c.do(ctx, "rename folder", http.MethodPatch, folderPath(id, "rename"), renameFolderRequest{NewName: name}, nil); err != nil {
		return model.Folder{}, err
	}
	return c.GetFolder(ctx, id)
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.do(ctx, "delete folder", http.MethodDelete, folderPath(id), nil, nil)
}

// GetSettings returns fixed defaults: settings are never stored remotely.
func (c *Client) GetSettings(ctx context.Context) (model.Settings, error) {
	s := model.DefaultSettings()
	s.SyncStatus = model.SyncStatusSynced
	return s, nil
}

func (c *Client) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	c.logger.Debug("remote settings update ignored")
	return c.GetSettings(ctx)
}
