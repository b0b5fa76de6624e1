package docgrab

import (
	"context"
	"strconv"
)

// Preference keys.
const (
	PrefShowNotifications = "show-notifications"
	PrefExtension         = "extension"
)

// Preferences holds user settings read by the presentation layer.
type Preferences struct {
	ShowNotifications bool
	Extension         string
}

// DefaultPreferences returns the settings used when nothing is stored.
func DefaultPreferences() *Preferences {
	return &Preferences{
		ShowNotifications: true,
		Extension:         DefaultExtension,
	}
}

// Set applies a stored key/value pair to p.
// Returns EINVALID for unknown keys or malformed values.
func (p *Preferences) Set(key, value string) error {
	switch key {
	case PrefShowNotifications:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Errorf(EINVALID, "%s must be true or false", key)
		}
		p.ShowNotifications = b
	case PrefExtension:
		p.Extension = NormalizeExtension(value)
	default:
		return Errorf(EINVALID, "unknown preference %q", key)
	}
	return nil
}

// PreferenceService reads and writes user preferences.
type PreferenceService interface {
	// FindPreferences returns stored preferences merged over the defaults.
	FindPreferences(ctx context.Context) (*Preferences, error)

	// SetPreference stores a value. Returns EINVALID for unknown keys.
	SetPreference(ctx context.Context, key, value string) error
}
