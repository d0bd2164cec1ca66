package themes

type Theme struct {
	Name              string
	GlamourStyle      string
	TitleColor        string
	TitleColorFg      string
	SelectedItemColor string
	FilterColor       string
	BorderColor       string
	MutedColor        string
	ProgressStart     string
	ProgressEnd       string
	HighlightStyle    string // "background", "underline", "prefix", "prefix-underline"
	// BackendName is the theme name the web client stores in uiSettings.currentTheme
	BackendName string
}

var AvailableThemes = []Theme{
	{
		Name:              "dark",
		GlamourStyle:      "dark",
		TitleColor:        "62",
		TitleColorFg:      "231",
		SelectedItemColor: "170",
		FilterColor:       "#555555",
		BorderColor:       "238",
		MutedColor:        "245",
		ProgressStart:     "#5A56E0",
		ProgressEnd:       "#EE6FF8",
		HighlightStyle:    "prefix-underline",
		BackendName:       "dark-theme",
	},
	{
		Name:              "light",
		GlamourStyle:      "light",
		TitleColor:        "12",
		TitleColorFg:      "0",
		SelectedItemColor: "75",
		FilterColor:       "#999999",
		BorderColor:       "250",
		MutedColor:        "242",
		ProgressStart:     "#1F6FEB",
		ProgressEnd:       "#4FB3F6",
		HighlightStyle:    "prefix-underline",
		BackendName:       "light-theme",
	},
	{
		Name:              "dracula",
		GlamourStyle:      "dracula",
		TitleColor:        "141",
		TitleColorFg:      "231",
		SelectedItemColor: "212",
		FilterColor:       "#6272a4",
		BorderColor:       "61",
		MutedColor:        "103",
		ProgressStart:     "#BD93F9",
		ProgressEnd:       "#FF79C6",
		HighlightStyle:    "prefix-underline",
		BackendName:       "dark-theme",
	},
	{
		Name:              "pink",
		GlamourStyle:      "pink",
		TitleColor:        "200",
		TitleColorFg:      "0",
		SelectedItemColor: "205",
		FilterColor:       "#cc99cc",
		BorderColor:       "218",
		MutedColor:        "176",
		ProgressStart:     "#FF5FAF",
		ProgressEnd:       "#FFAFD7",
		HighlightStyle:    "prefix-underline",
		BackendName:       "light-theme",
	},
	{
		Name:              "ascii",
		GlamourStyle:      "ascii",
		TitleColor:        "7",
		TitleColorFg:      "0",
		SelectedItemColor: "7",
		FilterColor:       "#808080",
		BorderColor:       "7",
		MutedColor:        "7",
		ProgressStart:     "#808080",
		ProgressEnd:       "#C0C0C0",
		HighlightStyle:    "prefix",
		BackendName:       "dark-theme",
	},
}

func GetThemeByName(name string) *Theme {
	for i := range AvailableThemes {
		if AvailableThemes[i].Name == name {
			return &AvailableThemes[i]
		}
	}
	// Return default dark theme if not found
	return &AvailableThemes[0]
}

// GetThemeByBackendName maps a web client theme name to a local theme.
// The current theme wins when it already matches.
func GetThemeByBackendName(backendName string, current string) *Theme {
	if t := GetThemeByName(current); t.BackendName == backendName {
		return t
	}
	for i := range AvailableThemes {
		if AvailableThemes[i].BackendName == backendName {
			return &AvailableThemes[i]
		}
	}
	return GetThemeByName(current)
}

func GetThemeNames() []string {
	names := make([]string, len(AvailableThemes))
	for i, theme := range AvailableThemes {
		names[i] = theme.Name
	}
	return names
}

func GetHighlightStyles() []string {
	return []string{
		"background",
		"underline",
		"prefix",
		"prefix-underline",
	}
}

func GetSpinnerTypes() []string {
	return []string{
		"braille",
		"dots",
		"line",
		"arrow",
		"star",
		"circle",
		"square",
		"triangle",
	}
}

func GetSpinnerFrames(spinnerType string) []string {
	switch spinnerType {
	case "braille":
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	case "dots":
		return []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	case "line":
		return []string{"-", "\\", "|", "/"}
	case "arrow":
		return []string{"←", "↖", "↑", "↗", "→", "↘", "↓", "↙"}
	case "star":
		return []string{"✶", "✸", "✹", "✺", "✹", "✸"}
	case "circle":
		return []string{"◐", "◓", "◑", "◒"}
	case "square":
		return []string{"◰", "◳", "◲", "◱"}
	case "triangle":
		return []string{"◢", "◣", "◤", "◥"}
	default:
		// Default to braille
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	}
}

// GetStatusColor returns the color used for a download status label
func GetStatusColor(status string) string {
	switch status {
	case "pending", "queued":
		return "214"
	case "downloading", "analysing", "analyzing":
		return "39"
	case "downloaded", "done", "complete", "completed":
		return "42"
	case "failed", "error":
		return "196"
	case "skip", "skipped":
		return "244"
	default:
		return ""
	}
}
