package model

import "time"

// DefaultFolderName is used when seeding folders without a name.
const DefaultFolderName = "New Folder"

type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
