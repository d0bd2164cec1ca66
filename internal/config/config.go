package config

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jarv/ytgoat/internal/database"
	"github.com/jarv/ytgoat/internal/poll"
)

type Config struct {
	ServerURL            string
	RequestTimeout       int // Seconds per backend request
	MaxIdleChecks        int // Consecutive IDLE observations before polling stops
	RefreshTimeoutFactor int // Milliseconds of delay added per idle observation
	MinPollDelay         int // Milliseconds, lower bound for the poll delay
	ViewMode             string
	MaxGridCardsPerRow   int
	ThemeName            string
	HighlightStyle       string
	SpinnerType          string
	ResetAnalysisInput   bool // Clear the analyze prompt after submitting
}

// Setting keys
const (
	KeyServerURL            = "server_url"
	KeyRequestTimeout       = "request_timeout"
	KeyMaxIdleChecks        = "max_idle_checks"
	KeyRefreshTimeoutFactor = "refresh_timeout_factor"
	KeyMinPollDelay         = "min_poll_delay"
	KeyViewMode             = "view_mode"
	KeyMaxGridCardsPerRow   = "max_grid_cards_per_row"
	KeyThemeName            = "theme_name"
	KeyHighlightStyle       = "highlight_style"
	KeySpinnerType          = "spinner_type"
	KeyResetAnalysisInput   = "reset_analysis_input"
)

const (
	ViewModeTable = "table"
	ViewModeGrid  = "grid"
)

func GetDefaultConfig() Config {
	return Config{
		ServerURL:            "http://localhost:5000",
		RequestTimeout:       10,
		MaxIdleChecks:        5,
		RefreshTimeoutFactor: 100,
		MinPollDelay:         250,
		ViewMode:             ViewModeTable,
		MaxGridCardsPerRow:   2,
		ThemeName:            "dark",
		HighlightStyle:       "prefix-underline",
		SpinnerType:          "braille",
		ResetAnalysisInput:   true,
	}
}

func LoadConfig(queries *database.Queries) (Config, error) {
	config := GetDefaultConfig()
	ctx := context.Background()

	if val, err := getSetting(queries, ctx, KeyServerURL); err == nil {
		config.ServerURL = val
	}

	loadInt(queries, ctx, KeyRequestTimeout, &config.RequestTimeout)
	loadInt(queries, ctx, KeyMaxIdleChecks, &config.MaxIdleChecks)
	loadInt(queries, ctx, KeyRefreshTimeoutFactor, &config.RefreshTimeoutFactor)
	loadInt(queries, ctx, KeyMinPollDelay, &config.MinPollDelay)
	loadInt(queries, ctx, KeyMaxGridCardsPerRow, &config.MaxGridCardsPerRow)

	if val, err := getSetting(queries, ctx, KeyViewMode); err == nil {
		config.ViewMode = val
	}

	if val, err := getSetting(queries, ctx, KeyThemeName); err == nil {
		config.ThemeName = val
	}

	if val, err := getSetting(queries, ctx, KeyHighlightStyle); err == nil {
		config.HighlightStyle = val
	}

	if val, err := getSetting(queries, ctx, KeySpinnerType); err == nil {
		config.SpinnerType = val
	}

	if val, err := getSetting(queries, ctx, KeyResetAnalysisInput); err == nil {
		config.ResetAnalysisInput = (val == "true" || val == "yes")
	}

	return config.Validate(), nil
}

// Validate clamps out of range values and replaces unusable ones with defaults
func (c Config) Validate() Config {
	defaults := GetDefaultConfig()

	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if u, err := url.Parse(c.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.ServerURL = defaults.ServerURL
	}

	c.RequestTimeout = clamp(c.RequestTimeout, 1, 120)
	c.MaxIdleChecks = clamp(c.MaxIdleChecks, 1, 100)
	c.RefreshTimeoutFactor = clamp(c.RefreshTimeoutFactor, 0, 60000)
	c.MinPollDelay = clamp(c.MinPollDelay, 0, 60000)
	c.MaxGridCardsPerRow = clamp(c.MaxGridCardsPerRow, 1, 6)

	if c.ViewMode != ViewModeTable && c.ViewMode != ViewModeGrid {
		c.ViewMode = defaults.ViewMode
	}

	return c
}

// PollConfig converts the poll settings for the poll controller
func (c Config) PollConfig() poll.Config {
	return poll.Config{
		MaxIdleChecks: c.MaxIdleChecks,
		Factor:        time.Duration(c.RefreshTimeoutFactor) * time.Millisecond,
		MinDelay:      time.Duration(c.MinPollDelay) * time.Millisecond,
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func SaveConfig(queries *database.Queries, config Config) error {
	ctx := context.Background()

	values := []struct {
		key   string
		value string
	}{
		{KeyServerURL, config.ServerURL},
		{KeyRequestTimeout, strconv.Itoa(config.RequestTimeout)},
		{KeyMaxIdleChecks, strconv.Itoa(config.MaxIdleChecks)},
		{KeyRefreshTimeoutFactor, strconv.Itoa(config.RefreshTimeoutFactor)},
		{KeyMinPollDelay, strconv.Itoa(config.MinPollDelay)},
		{KeyViewMode, config.ViewMode},
		{KeyMaxGridCardsPerRow, strconv.Itoa(config.MaxGridCardsPerRow)},
		{KeyThemeName, config.ThemeName},
		{KeyHighlightStyle, config.HighlightStyle},
		{KeySpinnerType, config.SpinnerType},
		{KeyResetAnalysisInput, strconv.FormatBool(config.ResetAnalysisInput)},
	}

	for _, v := range values {
		if err := setSetting(queries, ctx, v.key, v.value); err != nil {
			return err
		}
	}

	return nil
}

func loadInt(queries *database.Queries, ctx context.Context, key string, dst *int) {
	val, err := getSetting(queries, ctx, key)
	if err != nil {
		return
	}
	if intVal, err := strconv.Atoi(val); err == nil {
		*dst = intVal
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func getSetting(queries *database.Queries, ctx context.Context, key string) (string, error) {
	setting, err := queries.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func setSetting(queries *database.Queries, ctx context.Context, key, value string) error {
	return queries.SetSetting(ctx, database.SetSettingParams{
		Key:   key,
		Value: value,
	})
}
