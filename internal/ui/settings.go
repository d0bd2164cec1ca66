package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jarv/ytgoat/internal/config"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/render"
	"github.com/jarv/ytgoat/internal/themes"
)

type settingKind int

const (
	settingText settingKind = iota
	settingInt
	settingChoice
)

type settingDef struct {
	label   string
	help    string
	kind    settingKind
	choices func() []string
	get     func(c config.Config) string
	set     func(c *config.Config, value string) error
}

func intSetting(dst func(c *config.Config) *int) func(c *config.Config, value string) error {
	return func(c *config.Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("not a number: %q", value)
		}
		*dst(c) = n
		return nil
	}
}

var settingDefs = []settingDef{
	{
		label: "Server URL",
		help:  "Backend address, used after a restart",
		kind:  settingText,
		get:   func(c config.Config) string { return c.ServerURL },
		set: func(c *config.Config, value string) error {
			if err := config.ValidateURL(strings.TrimSpace(value)); err != nil {
				return err
			}
			c.ServerURL = strings.TrimSpace(value)
			return nil
		},
	},
	{
		label: "Request timeout (s)",
		help:  "Seconds to wait for each backend request",
		kind:  settingInt,
		get:   func(c config.Config) string { return strconv.Itoa(c.RequestTimeout) },
		set:   intSetting(func(c *config.Config) *int { return &c.RequestTimeout }),
	},
	{
		label: "Max idle checks",
		help:  "Idle responses in a row before polling stops",
		kind:  settingInt,
		get:   func(c config.Config) string { return strconv.Itoa(c.MaxIdleChecks) },
		set:   intSetting(func(c *config.Config) *int { return &c.MaxIdleChecks }),
	},
	{
		label: "Refresh timeout factor (ms)",
		help:  "Delay added for every idle response",
		kind:  settingInt,
		get:   func(c config.Config) string { return strconv.Itoa(c.RefreshTimeoutFactor) },
		set:   intSetting(func(c *config.Config) *int { return &c.RefreshTimeoutFactor }),
	},
	{
		label: "Min poll delay (ms)",
		help:  "Shortest delay between two polls",
		kind:  settingInt,
		get:   func(c config.Config) string { return strconv.Itoa(c.MinPollDelay) },
		set:   intSetting(func(c *config.Config) *int { return &c.MinPollDelay }),
	},
	{
		label:   "View mode",
		help:    "Table rows or cards",
		kind:    settingChoice,
		choices: func() []string { return []string{config.ViewModeTable, config.ViewModeGrid} },
		get:     func(c config.Config) string { return c.ViewMode },
		set: func(c *config.Config, value string) error {
			c.ViewMode = value
			return nil
		},
	},
	{
		label: "Cards per row",
		help:  "Cards placed side by side in grid mode",
		kind:  settingInt,
		get:   func(c config.Config) string { return strconv.Itoa(c.MaxGridCardsPerRow) },
		set:   intSetting(func(c *config.Config) *int { return &c.MaxGridCardsPerRow }),
	},
	{
		label:   "Theme",
		help:    "Colors, also sent to the web client",
		kind:    settingChoice,
		choices: themes.GetThemeNames,
		get:     func(c config.Config) string { return c.ThemeName },
		set: func(c *config.Config, value string) error {
			c.ThemeName = value
			return nil
		},
	},
	{
		label:   "Highlight style",
		help:    "How the cursor line is shown",
		kind:    settingChoice,
		choices: themes.GetHighlightStyles,
		get:     func(c config.Config) string { return c.HighlightStyle },
		set: func(c *config.Config, value string) error {
			c.HighlightStyle = value
			return nil
		},
	},
	{
		label:   "Spinner",
		help:    "Animation shown while polling",
		kind:    settingChoice,
		choices: themes.GetSpinnerTypes,
		get:     func(c config.Config) string { return c.SpinnerType },
		set: func(c *config.Config, value string) error {
			c.SpinnerType = value
			return nil
		},
	},
	{
		label:   "Reset analysis input",
		help:    "Clear the analyze prompt after submitting",
		kind:    settingChoice,
		choices: func() []string { return []string{"true", "false"} },
		get:     func(c config.Config) string { return strconv.FormatBool(c.ResetAnalysisInput) },
		set: func(c *config.Config, value string) error {
			c.ResetAnalysisInput = value == "true"
			return nil
		},
	},
}

// nextChoice returns the choice after current, wrapping around
func nextChoice(choices []string, current string) string {
	if len(choices) == 0 {
		return current
	}
	for i, choice := range choices {
		if choice == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// updateSetting applies value to the setting under the cursor and saves the
// configuration
func (m *Model) updateSetting(def settingDef, value string) {
	previous := m.config

	next := m.config
	if err := def.set(&next, value); err != nil {
		m.setStatus(def.label+": "+err.Error(), "error")
		return
	}
	next = next.Validate()

	if err := config.SaveConfig(m.queries, next); err != nil {
		logging.Error("Failed to save config", "error", err)
		m.setStatus("could not save settings: "+err.Error(), "error")
		return
	}
	m.config = next
	m.applyConfig(previous)
}

// applyConfig pushes a changed configuration into the session and the styles
func (m *Model) applyConfig(previous config.Config) {
	m.session.Poll().SetConfig(m.config.PollConfig())

	if m.config.ViewMode != previous.ViewMode {
		m.session.SetMode(render.ParseMode(m.config.ViewMode))
	}

	if m.config.ThemeName != previous.ThemeName ||
		m.config.HighlightStyle != previous.HighlightStyle ||
		m.config.MaxGridCardsPerRow != previous.MaxGridCardsPerRow {
		m.applyTheme()
	}

	if m.config.ThemeName != previous.ThemeName {
		backend := themes.GetThemeByName(m.config.ThemeName).BackendName
		if backend != m.session.BackendTheme() {
			m.session.SetBackendTheme(backend)
			m.events.settingsDirty = true
		}
	}

	if m.config.ServerURL != previous.ServerURL || m.config.RequestTimeout != previous.RequestTimeout {
		m.setStatus("restart ytgoat to use the new server settings", "info")
	}
}

func (m Model) handleSettingsViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	def := settingDefs[m.settingsCursor]

	if m.editingSettings {
		switch msg.Type {
		case tea.KeyEsc:
			m.editingSettings = false
			m.settingInput = ""
			return m, nil

		case tea.KeyEnter:
			m.editingSettings = false
			m.updateSetting(def, m.settingInput)
			m.settingInput = ""
			return m, nil

		case tea.KeyBackspace:
			if len(m.settingInput) > 0 {
				runes := []rune(m.settingInput)
				m.settingInput = string(runes[:len(runes)-1])
			}
			return m, nil

		case tea.KeyRunes, tea.KeySpace:
			m.settingInput += string(msg.Runes)
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		m.helpViewScroll = 0
		return m, nil

	case "q", "esc":
		m.state = ItemListView
		return m, nil

	case "j", "down":
		if m.settingsCursor < len(settingDefs)-1 {
			m.settingsCursor++
		}

	case "k", "up":
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}

	case "enter", " ":
		if def.kind == settingChoice {
			m.updateSetting(def, nextChoice(def.choices(), def.get(m.config)))
			return m, nil
		}
		m.editingSettings = true
		m.settingInput = def.get(m.config)
	}

	return m, nil
}

func (m Model) renderSettingsView() string {
	header := m.title("Settings") + "\n"

	labelWidth := 0
	for _, def := range settingDefs {
		labelWidth = max(labelWidth, len(def.label))
	}

	var b strings.Builder
	for i, def := range settingDefs {
		value := def.get(m.config)
		if m.editingSettings && i == m.settingsCursor {
			value = m.settingInput + "█"
		}
		line := fmt.Sprintf("%-*s  %s", labelWidth, def.label, value)
		b.WriteString(m.applyHighlight(line, i == m.settingsCursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(m.theme.MutedColor)).Render(settingDefs[m.settingsCursor].help))

	return m.layout(header, b.String(), m.footer(SettingsView, ""))
}
