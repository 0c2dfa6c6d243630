package store

import (
	"context"
	"fmt"

	"github.com/sagar5412/webNotes/internal/model"
	"github.com/sagar5412/webNotes/internal/storage"
)

// GetSettings returns the persisted settings, or the defaults when none were
// saved. SyncStatus is always unsynced here; the coordinator derives it.
func (s *LocalStore) GetSettings(ctx context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSettings(ctx)
}

func (s *LocalStore) loadSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := s.load(ctx, SettingsKey, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings.SyncStatus = model.SyncStatusUnsynced
	return settings, nil
}

// ValidateSettings rejects unknown theme and font size values.
func ValidateSettings(patch model.SettingsPatch) error {
	if patch.Theme != nil && !model.ValidTheme(*patch.Theme) {
		return storage.Invalid("theme", "theme must be dark, light, or system")
	}
	if patch.FontSize != nil && !model.ValidFontSize(*patch.FontSize) {
		return storage.Invalid("fontSize", "font size must be small, medium, or large")
	}
	return nil
}

func (s *LocalStore) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	if err := ValidateSettings(patch); err != nil {
		return model.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	updated := patch.Apply(current)
	if err := s.save(ctx, SettingsKey, updated); err != nil {
		return model.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return updated, nil
}
