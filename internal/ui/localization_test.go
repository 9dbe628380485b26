package ui

import "testing"

func TestLocalization(t *testing.T) {
	l := NewLocalization()

	if l.GetCurrentLanguage() != "en" {
		t.Errorf("Expected default language en, got %s", l.GetCurrentLanguage())
	}
	if got := l.GetText(KeyDeletedItem); got != "Deleted item from list" {
		t.Errorf("Unexpected text: %q", got)
	}
	if got := l.Format(KeyDownloadingPercent, 55); got != "Downloading... 55%" {
		t.Errorf("Unexpected formatted text: %q", got)
	}
	if got := l.GetText("missing_key"); got != "missing_key" {
		t.Errorf("Expected key fallback, got %q", got)
	}

	l.SetLanguage("de")
	if l.GetCurrentLanguage() != "en" {
		t.Error("Unknown language should be ignored")
	}

	l.SetLanguage("system")
	if l.GetCurrentLanguage() != "en" {
		t.Error("System language should resolve to en")
	}
}

func TestLocalization_AllLanguagesComplete(t *testing.T) {
	l := NewLocalization()
	english := l.texts["en"]

	for code := range l.GetAvailableLanguages() {
		texts, ok := l.texts[code]
		if !ok {
			t.Errorf("No texts for %s", code)
			continue
		}
		for key := range english {
			if texts[key] == "" {
				t.Errorf("Language %s is missing %s", code, key)
			}
		}
	}
}
