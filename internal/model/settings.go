package model

// SyncStatus tells the UI which backing store is currently authoritative.
type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusSyncing  SyncStatus = "syncing"
	SyncStatusUnsynced SyncStatus = "unsynced"
)

var validThemes = map[string]bool{
	"dark":   true,
	"light":  true,
	"system": true,
}

var validFontSizes = map[string]bool{
	"small":  true,
	"medium": true,
	"large":  true,
}

// Settings are persisted locally only. SyncStatus is derived on read and
// never written.
type Settings struct {
	Theme           string     `json:"theme"`
	FontSize        string     `json:"fontSize"`
	ShowLineNumbers bool       `json:"showLineNumbers"`
	SyncStatus      SyncStatus `json:"-"`
}

// DefaultSettings returns the settings of a fresh client.
func DefaultSettings() Settings {
	return Settings{
		Theme:           "dark",
		FontSize:        "medium",
		ShowLineNumbers: false,
		SyncStatus:      SyncStatusUnsynced,
	}
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Theme           *string
	FontSize        *string
	ShowLineNumbers *bool
}

// ValidTheme reports whether theme is a known theme name.
func ValidTheme(theme string) bool { return validThemes[theme] }

// ValidFontSize reports whether size is a known font size.
func ValidFontSize(size string) bool { return validFontSizes[size] }

// Apply returns s with the patch applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.ShowLineNumbers != nil {
		s.ShowLineNumbers = *p.ShowLineNumbers
	}
	return s
}
