package domain

import (
	"time"
)

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ValidTheme reports whether t is one of the known themes.
func ValidTheme(t Theme) bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Preference holds per-identity settings. Real identities have exactly one
// remote row; anonymous identities keep preferences in device-local storage
// only.
type Preference struct {
	OwnerID              string
	CurrencyCode         string
	CurrencySymbol       string
	CurrencyName         string
	Theme                Theme
	NotificationsEnabled bool
	UpdatedAt            time.Time
}

// DefaultPreference returns the preference row created on first load for a
// new identity: USD, auto theme, notifications on.
func DefaultPreference(ownerID string) Preference {
	usd := Currencies()[0]
	return Preference{
		OwnerID:              ownerID,
		CurrencyCode:         usd.Code,
		CurrencySymbol:       usd.Symbol,
		CurrencyName:         usd.Name,
		Theme:                ThemeAuto,
		NotificationsEnabled: true,
	}
}

// HasDefaultCurrency reports whether the preference still carries the
// bootstrap currency. Used to decide whether guest values win on migration.
func (p Preference) HasDefaultCurrency() bool {
	return p.CurrencyCode == Currencies()[0].Code
}
