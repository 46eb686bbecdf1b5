package model

// Preferences holds the user-tunable settings persisted in the preferences
// namespace.
type Preferences struct {
	Theme          string `json:"theme"`
	Language       string `json:"language"`
	AutoSave       bool   `json:"auto_save"`
	AutoCalculate  bool   `json:"auto_calculate"`
	Notifications  bool   `json:"notifications"`
	ShowTooltips   bool   `json:"show_tooltips"`
	ShowAnimations bool   `json:"show_animations"`
}

// DefaultPreferences returns the settings applied before any stored
// preferences are loaded.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          "light",
		Language:       "id",
		AutoSave:       true,
		AutoCalculate:  true,
		Notifications:  true,
		ShowTooltips:   true,
		ShowAnimations: true,
	}
}
