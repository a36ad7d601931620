// File: internal/domain/settings.go
package domain

// AppSettings is a flat configuration record with no relationships; it is
// replaced wholesale on save.
type AppSettings struct {
	Theme               string `json:"theme"`
	ChatMode            string `json:"chatMode"`
	ShowCopy            bool   `json:"showCopy"`
	ShowEdit            bool   `json:"showEdit"`
	ShowRegenerate      bool   `json:"showRegenerate"`
	AutoSave            bool   `json:"autoSave"`
	TemplateSuggestions bool   `json:"templateSuggestions"`
	AutoComplete        bool   `json:"autoComplete"`
	StickyMode          bool   `json:"stickyMode"`
	MaxFileSizeMB       int    `json:"maxFileSize"`
}

// DefaultSettings returns the settings applied when no stored record
// exists.
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:               "light",
		ChatMode:            "normal",
		ShowCopy:            true,
		ShowEdit:            true,
		ShowRegenerate:      true,
		AutoSave:            true,
		TemplateSuggestions: true,
		AutoComplete:        true,
		StickyMode:          true,
		MaxFileSizeMB:       10,
	}
}
