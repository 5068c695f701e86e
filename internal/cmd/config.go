package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/slatecli/slate/internal/api"
	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/log"
	"github.com/slatecli/slate/internal/ux"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit slate configuration",
	Long: `Manage slate global configuration stored at ~/.slate/config.yaml

Configuration includes:
  • Tracker base URL and API token
  • Request timeout
  • Default submission intent
  • Output and logging settings

Examples:
  # View current configuration
  slate config view

  # Edit configuration in $EDITOR
  slate config edit

  # Get a specific value
  slate config get tracker.base_url

  # Set a specific value
  slate config set tracker.token <token>

  # Show configuration file path
  slate config path
`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display current configuration",
	Long:  `Display the current slate configuration in the specified format.`,
	RunE:  runConfigView,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration in $EDITOR",
	Long:  `Open the configuration file in your default editor (from $EDITOR environment variable).`,
	RunE:  runConfigEdit,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  `Retrieve the value of a specific configuration key using dot notation (e.g., tracker.base_url).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific configuration value",
	Long:  `Set the value of a specific configuration key using dot notation (e.g., tracker.token abc123).`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the global configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

// GlobalConfig represents the global slate configuration
type GlobalConfig struct {
	Tracker  TrackerConfig   `yaml:"tracker,omitempty"`
	Defaults CommandDefaults `yaml:"defaults,omitempty"`
	Logging  LoggingConfig   `yaml:"logging,omitempty"`
}

// TrackerConfig holds the connection settings for the tracker API.
type TrackerConfig struct {
	BaseURL        string `yaml:"base_url,omitempty"`
	Token          string `yaml:"token,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// CommandDefaults seeds per-invocation behavior.
type CommandDefaults struct {
	Intent    string `yaml:"intent,omitempty"`     // default intent for new submissions
	CreatedBy string `yaml:"created_by,omitempty"` // recorded on created submissions
	Format    string `yaml:"format,omitempty"`     // "text", "json", "yaml"
	NoColor   bool   `yaml:"no_color,omitempty"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format,omitempty"` // "text", "json"
}

// getConfigPath returns the path to the global configuration file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".slate")
	configFile := filepath.Join(configDir, "config.yaml")

	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configFile, nil
}

// loadConfig loads the global configuration, creating default if it doesn't exist
func loadConfig() (*GlobalConfig, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := defaultGlobalConfig()
		if err := saveConfig(defaultConfig, configPath); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigWriteFailed, "failed to create default config", err)
		}
		return defaultConfig, nil
	}

	// Load existing config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, fmt.Sprintf("failed to read config: %s", configPath), err)
	}

	var config GlobalConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewConfigInvalidError(configPath, err)
	}

	return &config, nil
}

// saveConfig saves the configuration to the file
func saveConfig(config *GlobalConfig, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file carries the API token, keep it owner-only
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWriteFailed, fmt.Sprintf("failed to write config: %s", path), err)
	}

	return nil
}

// defaultGlobalConfig returns the default global configuration
func defaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Tracker: TrackerConfig{
			TimeoutSeconds: 30,
		},
		Defaults: CommandDefaults{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// newLogger builds the structured logger for one invocation. Logs go
// to stderr so they never interleave with the TUI on stdout.
func newLogger(config *GlobalConfig, cmdCtx *CommandContext) *log.Logger {
	level := log.ParseLevel(config.Logging.Level)
	if cmdCtx.Verbose {
		level = log.LevelDebug
	}

	return log.New(log.Config{
		Level:  level,
		Format: log.ParseFormat(config.Logging.Format),
		Output: log.OutputStderr(),
	})
}

// apiConfig assembles the tracker client settings from the loaded
// configuration.
func apiConfig(config *GlobalConfig, logger *log.Logger) api.Config {
	return api.Config{
		BaseURL: config.Tracker.BaseURL,
		Token:   config.Tracker.Token,
		Timeout: time.Duration(config.Tracker.TimeoutSeconds) * time.Second,
		Logger:  logger,
	}
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	config, err := loadConfig()
	if err != nil {
		return err
	}

	// Use formatter for JSON/YAML output
	if cmdCtx.Format == "json" || cmdCtx.Format == "yaml" {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{
			NoColor: cmdCtx.NoColor,
		})
		if err != nil {
			return err
		}
		return formatter.Format(config)
	}

	// Text output
	configPath, _ := getConfigPath()
	fmt.Printf("Configuration file: %s\n\n", configPath)

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure config exists
	if _, err := loadConfig(); err != nil {
		return err
	}

	// Get editor from environment
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	// Validate the edited config
	if _, err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Configuration may contain errors: %v\n", err)
		return err
	}

	fmt.Println("✓ Configuration updated successfully")
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	config, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := getNestedValue(config, key)
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if err := setNestedValue(config, key, value); err != nil {
		return err
	}

	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := saveConfig(config, configPath); err != nil {
		return err
	}

	fmt.Printf("✓ Set %s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	fmt.Println(configPath)
	return nil
}

// getNestedValue retrieves a value from the config using dot notation
func getNestedValue(config *GlobalConfig, key string) (string, error) {
	switch key {
	case "tracker.base_url":
		return config.Tracker.BaseURL, nil
	case "tracker.token":
		return config.Tracker.Token, nil
	case "tracker.timeout_seconds":
		return strconv.Itoa(config.Tracker.TimeoutSeconds), nil
	case "defaults.intent":
		return config.Defaults.Intent, nil
	case "defaults.created_by":
		return config.Defaults.CreatedBy, nil
	case "defaults.format":
		return config.Defaults.Format, nil
	case "defaults.no_color":
		return strconv.FormatBool(config.Defaults.NoColor), nil
	case "logging.level":
		return config.Logging.Level, nil
	case "logging.format":
		return config.Logging.Format, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setNestedValue sets a value in the config using dot notation
func setNestedValue(config *GlobalConfig, key, value string) error {
	switch key {
	case "tracker.base_url":
		config.Tracker.BaseURL = value
	case "tracker.token":
		config.Tracker.Token = value
	case "tracker.timeout_seconds":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout_seconds must be an integer: %w", err)
		}
		config.Tracker.TimeoutSeconds = v
	case "defaults.intent":
		config.Defaults.Intent = value
	case "defaults.created_by":
		config.Defaults.CreatedBy = value
	case "defaults.format":
		config.Defaults.Format = value
	case "defaults.no_color":
		config.Defaults.NoColor = parseBool(value)
	case "logging.level":
		config.Logging.Level = value
	case "logging.format":
		config.Logging.Format = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "yes" || s == "1"
}
