package themes

import "testing"

func TestGetThemeByName(t *testing.T) {
	if got := GetThemeByName("dracula").Name; got != "dracula" {
		t.Errorf("GetThemeByName(dracula) = %q", got)
	}
	if got := GetThemeByName("missing").Name; got != "dark" {
		t.Errorf("expected dark fallback, got %q", got)
	}
}

func TestGetThemeByBackendName(t *testing.T) {
	tests := []struct {
		backend string
		current string
		want    string
	}{
		{"light-theme", "dark", "light"},
		{"dark-theme", "dracula", "dracula"},
		{"dark-theme", "light", "dark"},
		{"", "pink", "pink"},
		{"solarized", "ascii", "ascii"},
	}

	for _, tt := range tests {
		if got := GetThemeByBackendName(tt.backend, tt.current).Name; got != tt.want {
			t.Errorf("GetThemeByBackendName(%q, %q) = %q, want %q", tt.backend, tt.current, got, tt.want)
		}
	}
}

func TestEveryThemeIsComplete(t *testing.T) {
	for _, theme := range AvailableThemes {
		if theme.BackendName == "" || theme.ProgressStart == "" || theme.BorderColor == "" {
			t.Errorf("theme %q has empty fields: %+v", theme.Name, theme)
		}
	}
}

func TestGetSpinnerFramesFallback(t *testing.T) {
	for _, name := range GetSpinnerTypes() {
		if len(GetSpinnerFrames(name)) == 0 {
			t.Errorf("spinner %q has no frames", name)
		}
	}
	if got := GetSpinnerFrames("unknown"); got[0] != "⠋" {
		t.Errorf("expected braille fallback, got %v", got)
	}
}
