package state

import (
	"encoding/json"

	"github.com/microacademy/tracker/internal/types"
)

// DefaultPreferences returns the canonical default preferences. Every merge
// in the package starts from this value, so a missing stored field can never
// surface as an undefined read.
func DefaultPreferences() types.Preferences {
	return types.Preferences{
		Theme:              "light",
		Notifications:      true,
		EmailUpdates:       true,
		Language:           "en",
		SelectedSDGs:       []string{},
		CurrentSelectedSDG: "",
		NewGoal:            types.NewGoalDraft{},
		Name:               "Guest",
		SelectedFont:       "philosopher-mulish",
		ProgressIntensity:  5,
	}
}

// DefaultState returns the guest snapshot used when nothing is persisted.
func DefaultState() types.UserState {
	return types.UserState{
		Preferences:   DefaultPreferences(),
		Goals:         []types.Goal{},
		Progress:      []types.ProgressEntry{},
		CurrentScreen: 0,
	}
}

// mergePreferences decodes raw stored preferences over the defaults.
// Fields present in raw win, fields absent keep their default, so explicit
// zero values (e.g. notifications turned off) survive the merge.
func mergePreferences(raw json.RawMessage) types.Preferences {
	prefs := DefaultPreferences()
	if len(raw) == 0 {
		return prefs
	}
	// Decode errors leave the defaults intact; the caller already logged
	// the snapshot as suspect.
	_ = json.Unmarshal(raw, &prefs)
	return prefs
}

// fillPreferenceDefaults patches holes in an already-decoded preferences
// value, used for remote profiles where field presence is no longer known.
func fillPreferenceDefaults(prefs *types.Preferences) {
	defaults := DefaultPreferences()
	if prefs.Theme == "" {
		prefs.Theme = defaults.Theme
	}
	if prefs.Language == "" {
		prefs.Language = defaults.Language
	}
	if prefs.Name == "" {
		prefs.Name = defaults.Name
	}
	if prefs.SelectedFont == "" {
		prefs.SelectedFont = defaults.SelectedFont
	}
	if prefs.ProgressIntensity == 0 {
		prefs.ProgressIntensity = defaults.ProgressIntensity
	}
	if prefs.SelectedSDGs == nil {
		prefs.SelectedSDGs = []string{}
	}
}
