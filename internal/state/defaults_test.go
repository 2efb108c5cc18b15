package state

import (
	"encoding/json"
	"testing"
)

func TestMergePreferences_AbsentFieldsKeepDefaults(t *testing.T) {
	prefs := mergePreferences(json.RawMessage(`{"name":"Najuma"}`))

	if prefs.Name != "Najuma" {
		t.Errorf("Name = %q, want stored value", prefs.Name)
	}
	if prefs.Theme != "light" {
		t.Errorf("Theme = %q, want default light", prefs.Theme)
	}
	if !prefs.Notifications {
		t.Error("Notifications = false, want default true when absent")
	}
	if prefs.ProgressIntensity != 5 {
		t.Errorf("ProgressIntensity = %d, want default 5", prefs.ProgressIntensity)
	}
}

func TestMergePreferences_ExplicitZeroValuesWin(t *testing.T) {
	prefs := mergePreferences(json.RawMessage(`{"notifications":false,"emailUpdates":false}`))

	if prefs.Notifications {
		t.Error("Notifications = true, explicit false must win over the default")
	}
	if prefs.EmailUpdates {
		t.Error("EmailUpdates = true, explicit false must win over the default")
	}
}

func TestMergePreferences_EmptyRaw(t *testing.T) {
	prefs := mergePreferences(nil)

	defaults := DefaultPreferences()
	if prefs.Name != defaults.Name || prefs.SelectedFont != defaults.SelectedFont {
		t.Errorf("mergePreferences(nil) = %+v, want pure defaults", prefs)
	}
}

func TestDefaultState_Shape(t *testing.T) {
	state := DefaultState()

	if state.Preferences.Name != "Guest" {
		t.Errorf("Name = %q, want Guest", state.Preferences.Name)
	}
	if state.Goals == nil || state.Progress == nil {
		t.Error("default goals/progress must be empty slices, not nil")
	}
	if state.CurrentScreen != 0 {
		t.Errorf("CurrentScreen = %d, want 0", state.CurrentScreen)
	}
}
