package cmd

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/slatecli/slate/internal/api"
	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/tracker"
	"github.com/slatecli/slate/internal/ux"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostics against the tracker",
	Long: `Run diagnostics to check if slate is properly configured.

Checks include:
  • Configuration file at ~/.slate/config.yaml
  • Tracker base URL and API token
  • Tracker connectivity and authentication
  • API contract coverage for every route the wizard calls

Examples:
  # Run diagnostics with colored output
  slate doctor

  # Output as JSON for CI/CD
  slate doctor --format json
`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// DoctorReport represents the complete health check report
type DoctorReport struct {
	Config       *DoctorCheck `json:"config"`
	BaseURL      *DoctorCheck `json:"base_url"`
	Token        *DoctorCheck `json:"token"`
	Connectivity *DoctorCheck `json:"connectivity,omitempty"`
	Contract     *DoctorCheck `json:"contract"`
	Issues       []string     `json:"issues"`
	Warnings     []string     `json:"warnings"`
	NextSteps    []string     `json:"next_steps"`
	Healthy      bool         `json:"healthy"`
}

// DoctorCheck represents a single health check result
type DoctorCheck struct {
	Name    string                 `json:"name"`
	Status  string                 `json:"status"` // "ok", "warning", "error", "missing"
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	report := &DoctorReport{
		Issues:    []string{},
		Warnings:  []string{},
		NextSteps: []string{},
	}

	config := checkConfig(report)
	if config != nil {
		checkBaseURL(config, report)
		checkToken(config, report)
		checkConnectivity(cmd.Context(), cmdCtx, config, report)
	}
	checkContract(cmd.Context(), report)

	generateNextSteps(report)

	report.Healthy = len(report.Issues) == 0

	return outputReport(cmdCtx, report)
}

func checkConfig(report *DoctorReport) *GlobalConfig {
	configPath, pathErr := getConfigPath()

	config, err := loadConfig()
	if err != nil {
		report.Config = &DoctorCheck{
			Name:    "Config",
			Status:  "error",
			Message: fmt.Sprintf("Failed to load configuration: %v", err),
		}
		report.Issues = append(report.Issues, "Configuration file could not be loaded")
		return nil
	}

	check := &DoctorCheck{
		Name:    "Config",
		Status:  "ok",
		Message: "Configuration loaded",
	}
	if pathErr == nil {
		check.Message = fmt.Sprintf("Configuration loaded from %s", configPath)
		check.Details = map[string]interface{}{
			"path": configPath,
		}
	}
	report.Config = check
	return config
}

func checkBaseURL(config *GlobalConfig, report *DoctorReport) {
	if config.Tracker.BaseURL == "" {
		report.BaseURL = &DoctorCheck{
			Name:    "Base URL",
			Status:  "missing",
			Message: "Tracker base URL is not configured",
		}
		report.Issues = append(report.Issues, "No tracker base URL configured")
		return
	}

	parsed, err := url.Parse(config.Tracker.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		report.BaseURL = &DoctorCheck{
			Name:    "Base URL",
			Status:  "error",
			Message: fmt.Sprintf("Tracker base URL is not a valid http(s) URL: %s", config.Tracker.BaseURL),
		}
		report.Issues = append(report.Issues, "Tracker base URL is invalid")
		return
	}

	report.BaseURL = &DoctorCheck{
		Name:    "Base URL",
		Status:  "ok",
		Message: fmt.Sprintf("Tracker base URL is %s", config.Tracker.BaseURL),
		Details: map[string]interface{}{
			"url": config.Tracker.BaseURL,
		},
	}
}

func checkToken(config *GlobalConfig, report *DoctorReport) {
	if config.Tracker.Token == "" {
		report.Token = &DoctorCheck{
			Name:    "Token",
			Status:  "warning",
			Message: "No API token configured",
		}
		report.Warnings = append(report.Warnings, "Requests will be sent without authentication")
		return
	}

	report.Token = &DoctorCheck{
		Name:    "Token",
		Status:  "ok",
		Message: "API token is set",
	}
}

// checkConnectivity pings the tracker with a cheap list call. A 401
// means the tracker itself is reachable, so that outcome downgrades
// the token check instead of the connectivity check.
func checkConnectivity(ctx context.Context, cmdCtx *CommandContext, config *GlobalConfig, report *DoctorReport) {
	if report.BaseURL == nil || report.BaseURL.Status != "ok" {
		return
	}

	logger := newLogger(config, cmdCtx)
	client, err := api.NewClient(apiConfig(config, logger))
	if err != nil {
		report.Connectivity = &DoctorCheck{
			Name:    "Connectivity",
			Status:  "error",
			Message: fmt.Sprintf("Failed to build tracker client: %v", err),
		}
		report.Issues = append(report.Issues, "Tracker client could not be created")
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	refs, pingErr := client.ListAll(pingCtx, tracker.KindManager)
	latency := time.Since(start)

	details := map[string]interface{}{
		"latency_ms": latency.Milliseconds(),
	}

	switch {
	case pingErr == nil:
		report.Connectivity = &DoctorCheck{
			Name:    "Connectivity",
			Status:  "ok",
			Message: fmt.Sprintf("Tracker responded in %dms (%d managers listed)", latency.Milliseconds(), len(refs)),
			Details: details,
		}
	case errors.HasCode(pingErr, errors.ErrCodeAPIUnauthorized):
		report.Connectivity = &DoctorCheck{
			Name:    "Connectivity",
			Status:  "ok",
			Message: fmt.Sprintf("Tracker responded in %dms", latency.Milliseconds()),
			Details: details,
		}
		report.Token = &DoctorCheck{
			Name:    "Token",
			Status:  "error",
			Message: "Tracker rejected the API token",
		}
		report.Issues = append(report.Issues, "API token was rejected by the tracker")
	case errors.HasCode(pingErr, errors.ErrCodeAPITimeout):
		details["error"] = pingErr.Error()
		report.Connectivity = &DoctorCheck{
			Name:    "Connectivity",
			Status:  "error",
			Message: fmt.Sprintf("Tracker did not respond within %ds", 10),
			Details: details,
		}
		report.Issues = append(report.Issues, "Tracker timed out")
	default:
		details["error"] = pingErr.Error()
		report.Connectivity = &DoctorCheck{
			Name:    "Connectivity",
			Status:  "error",
			Message: fmt.Sprintf("Tracker request failed: %v", pingErr),
			Details: details,
		}
		report.Issues = append(report.Issues, "Tracker is unreachable")
	}
}

func checkContract(ctx context.Context, report *DoctorReport) {
	findings, err := api.VerifyContract(ctx)
	if err != nil {
		report.Contract = &DoctorCheck{
			Name:    "Contract",
			Status:  "error",
			Message: fmt.Sprintf("Embedded API contract failed to load: %v", err),
		}
		report.Issues = append(report.Issues, "API contract could not be verified")
		return
	}

	if len(findings) > 0 {
		details := map[string]interface{}{
			"findings": findings,
		}
		report.Contract = &DoctorCheck{
			Name:    "Contract",
			Status:  "warning",
			Message: fmt.Sprintf("%d client routes are missing from the contract", len(findings)),
			Details: details,
		}
		for _, finding := range findings {
			report.Warnings = append(report.Warnings, finding)
		}
		return
	}

	report.Contract = &DoctorCheck{
		Name:    "Contract",
		Status:  "ok",
		Message: fmt.Sprintf("Contract declares all %d routes the client calls", len(api.ClientRoutes())),
	}
}

func generateNextSteps(report *DoctorReport) {
	if report.BaseURL != nil && report.BaseURL.Status != "ok" {
		report.NextSteps = append(report.NextSteps, "Set the tracker URL with 'slate config set tracker.base_url <url>'")
	}
	if report.Token != nil && report.Token.Status != "ok" {
		report.NextSteps = append(report.NextSteps, "Set the API token with 'slate config set tracker.token <token>'")
	}

	if len(report.Issues) == 0 && len(report.NextSteps) == 0 {
		report.NextSteps = append(report.NextSteps, "Create a submission with 'slate new'")
	}
}

func outputReport(cmdCtx *CommandContext, report *DoctorReport) error {
	// For JSON and YAML, use the formatter
	if cmdCtx.Format == "json" || cmdCtx.Format == "yaml" {
		formatter, err := ux.NewFormatter(cmdCtx.Format, &ux.FormatterOptions{
			NoColor: cmdCtx.NoColor,
		})
		if err != nil {
			return err
		}
		return formatter.Format(report)
	}

	// For text format, use custom formatted output
	return outputText(report)
}

func outputText(report *DoctorReport) error {
	printHeader()
	printConfiguration(report)
	printTracker(report)
	printContract(report)
	printIssues(report)
	printWarnings(report)
	printNextSteps(report)
	return printOverallHealth(report)
}

// printHeader prints the diagnostics header
func printHeader() {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      Slate Diagnostics                       ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// printConfiguration prints the configuration checks
func printConfiguration(report *DoctorReport) {
	fmt.Println("Configuration:")
	if report.Config != nil {
		printCheck(report.Config)
	}
	if report.BaseURL != nil {
		printCheck(report.BaseURL)
	}
	if report.Token != nil {
		printCheck(report.Token)
	}
	fmt.Println()
}

// printTracker prints the tracker connectivity check
func printTracker(report *DoctorReport) {
	if report.Connectivity != nil {
		fmt.Println("Tracker:")
		printCheck(report.Connectivity)
		fmt.Println()
	}
}

// printContract prints the API contract check
func printContract(report *DoctorReport) {
	if report.Contract != nil {
		fmt.Println("Contract:")
		printCheck(report.Contract)
		fmt.Println()
	}
}

// printIssues prints issues if any exist
func printIssues(report *DoctorReport) {
	if len(report.Issues) > 0 {
		fmt.Println("❌ Issues:")
		for _, issue := range report.Issues {
			fmt.Printf("   • %s\n", issue)
		}
		fmt.Println()
	}
}

// printWarnings prints warnings if any exist
func printWarnings(report *DoctorReport) {
	if len(report.Warnings) > 0 {
		fmt.Println("⚠️  Warnings:")
		for _, warning := range report.Warnings {
			fmt.Printf("   • %s\n", warning)
		}
		fmt.Println()
	}
}

// printNextSteps prints next steps if any exist
func printNextSteps(report *DoctorReport) {
	if len(report.NextSteps) > 0 {
		fmt.Println("📋 Next Steps:")
		for i, step := range report.NextSteps {
			fmt.Printf("   %d. %s\n", i+1, step)
		}
		fmt.Println()
	}
}

// printOverallHealth prints overall health status and returns error if unhealthy
func printOverallHealth(report *DoctorReport) error {
	if report.Healthy {
		fmt.Println("✅ Slate is ready to use!")
		return nil
	}

	fmt.Println("❌ Slate has issues that need attention")
	if len(report.Issues) == 0 {
		fmt.Println("   (Warnings present but slate is functional)")
	}
	return fmt.Errorf("health check failed")
}

func printCheck(check *DoctorCheck) {
	icon := " "
	switch check.Status {
	case "ok":
		icon = "✓"
	case "warning":
		icon = "⚠"
	case "error":
		icon = "✗"
	case "missing":
		icon = "○"
	}

	fmt.Printf("  %s %s: %s\n", icon, check.Name, check.Message)
}
