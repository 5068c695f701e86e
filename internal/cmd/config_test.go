package cmd

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/slatecli/slate/internal/log"
)

func TestDefaultGlobalConfig(t *testing.T) {
	config := defaultGlobalConfig()

	if config.Tracker.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", config.Tracker.TimeoutSeconds)
	}
	if config.Defaults.Format != "text" {
		t.Errorf("Defaults.Format = %q, want %q", config.Defaults.Format, "text")
	}
	if config.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", config.Logging.Level, "info")
	}
	if config.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", config.Logging.Format, "text")
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if config.Tracker.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want default 30", config.Tracker.TimeoutSeconds)
	}

	path, err := getConfigPath()
	if err != nil {
		t.Fatalf("getConfigPath() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if err := setNestedValue(config, "tracker.base_url", "https://tracker.example.com"); err != nil {
		t.Fatalf("setNestedValue() error = %v", err)
	}
	if err := setNestedValue(config, "defaults.created_by", "op@example.com"); err != nil {
		t.Fatalf("setNestedValue() error = %v", err)
	}

	path, err := getConfigPath()
	if err != nil {
		t.Fatalf("getConfigPath() error = %v", err)
	}
	if err := saveConfig(config, path); err != nil {
		t.Fatalf("saveConfig() error = %v", err)
	}

	reloaded, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() after save error = %v", err)
	}
	if reloaded.Tracker.BaseURL != "https://tracker.example.com" {
		t.Errorf("BaseURL = %q, want the saved value", reloaded.Tracker.BaseURL)
	}
	if reloaded.Defaults.CreatedBy != "op@example.com" {
		t.Errorf("CreatedBy = %q, want the saved value", reloaded.Defaults.CreatedBy)
	}
	if reloaded.Tracker.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, untouched default should survive the save", reloaded.Tracker.TimeoutSeconds)
	}
}

func TestSetAndGetNestedValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"tracker.base_url", "https://tracker.example.com"},
		{"tracker.token", "tok_123"},
		{"tracker.timeout_seconds", "45"},
		{"defaults.intent", "staffing"},
		{"defaults.created_by", "op@example.com"},
		{"defaults.format", "json"},
		{"defaults.no_color", "true"},
		{"logging.level", "debug"},
		{"logging.format", "json"},
	}

	config := defaultGlobalConfig()
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := setNestedValue(config, tt.key, tt.value); err != nil {
				t.Fatalf("setNestedValue(%q) error = %v", tt.key, err)
			}
			got, err := getNestedValue(config, tt.key)
			if err != nil {
				t.Fatalf("getNestedValue(%q) error = %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("getNestedValue(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestSetNestedValueUnknownKey(t *testing.T) {
	config := defaultGlobalConfig()
	if err := setNestedValue(config, "tracker.port", "8080"); err == nil {
		t.Error("setNestedValue() with unknown key should fail")
	}
	if _, err := getNestedValue(config, "tracker.port"); err == nil {
		t.Error("getNestedValue() with unknown key should fail")
	}
}

func TestSetNestedValueBadTimeout(t *testing.T) {
	config := defaultGlobalConfig()
	if err := setNestedValue(config, "tracker.timeout_seconds", "soon"); err == nil {
		t.Error("setNestedValue() with non-integer timeout should fail")
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "yes", "1"} {
		if !parseBool(s) {
			t.Errorf("parseBool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"false", "no", "0", ""} {
		if parseBool(s) {
			t.Errorf("parseBool(%q) = true, want false", s)
		}
	}
}

func TestApiConfig(t *testing.T) {
	config := &GlobalConfig{
		Tracker: TrackerConfig{
			BaseURL:        "https://tracker.example.com",
			Token:          "tok_123",
			TimeoutSeconds: 45,
		},
	}
	logger := log.Default()

	got := apiConfig(config, logger)

	if got.BaseURL != config.Tracker.BaseURL {
		t.Errorf("BaseURL = %q, want %q", got.BaseURL, config.Tracker.BaseURL)
	}
	if got.Token != config.Tracker.Token {
		t.Errorf("Token = %q, want %q", got.Token, config.Tracker.Token)
	}
	if got.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", got.Timeout)
	}
	if got.Logger != logger {
		t.Error("Logger was not passed through")
	}
}

func TestNewLoggerVerboseOverridesLevel(t *testing.T) {
	config := defaultGlobalConfig()
	ctx := context.Background()

	quiet := newLogger(config, &CommandContext{})
	if quiet.Enabled(ctx, log.LevelDebug) {
		t.Error("debug should be disabled at the default level")
	}

	verbose := newLogger(config, &CommandContext{Verbose: true})
	if !verbose.Enabled(ctx, log.LevelDebug) {
		t.Error("debug should be enabled with --verbose")
	}
}
