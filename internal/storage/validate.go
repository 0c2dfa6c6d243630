package storage

import "strings"

// ValidateFolderName trims name and rejects it when nothing is left.
func ValidateFolderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("name", "folder name is required")
	}
	return name, nil
}
