package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slatecli/slate/internal/api"
	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/tracker"
	"github.com/slatecli/slate/internal/tui"
	"github.com/slatecli/slate/internal/wizard"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a submission through the interactive wizard",
	Long: `Walk through the submission wizard step by step.

The wizard asks for the intent, the creatives being submitted, the
project and staffing need, the recipients, mandates, and writing
samples, then reviews the whole selection before creating the
submission. Later steps offer options scoped to earlier answers, and
projects, needs, and mandates can be created inline without leaving
the wizard.

Examples:
  # Start the wizard from scratch
  slate new

  # Pre-select the intent
  slate new --intent staffing

  # Pre-select a project by title or ID
  slate new --project "Night Shift"
`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().String("intent", "", "pre-select the submission intent (staffing, sell_project, recruit_talent, general_intro, other)")
	newCmd.Flags().String("project", "", "pre-select a project by ID or title")

	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return fmt.Errorf("failed to create command context: %w", err)
	}

	config, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(config, cmdCtx)

	client, err := api.NewClient(apiConfig(config, logger))
	if err != nil {
		return err
	}

	initial, err := seedSelection(ctx, cmd, client, config)
	if err != nil {
		return err
	}

	engine, err := wizard.Open(ctx, client, wizard.Options{
		Initial:   initial,
		CreatedBy: config.Defaults.CreatedBy,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	created, err := tui.RunWizard(ctx, engine)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created submission %s\n", created.ID)
	return nil
}

// seedSelection builds the initial wizard selection from the command
// flags and the configured defaults. It returns nil when nothing is
// pre-selected.
func seedSelection(ctx context.Context, cmd *cobra.Command, client *api.Client, config *GlobalConfig) (*wizard.Selection, error) {
	intentFlag, err := cmd.Flags().GetString("intent")
	if err != nil {
		return nil, err
	}
	projectFlag, err := cmd.Flags().GetString("project")
	if err != nil {
		return nil, err
	}

	if intentFlag == "" {
		intentFlag = config.Defaults.Intent
	}

	var initial *wizard.Selection

	if intentFlag != "" {
		intent, err := tracker.ParseIntent(intentFlag)
		if err != nil {
			return nil, err
		}
		initial = &wizard.Selection{}
		initial.SetIntent(intent)
	}

	if projectFlag != "" {
		project, err := findProject(ctx, client, projectFlag)
		if err != nil {
			return nil, err
		}
		if initial == nil {
			initial = &wizard.Selection{}
		}
		initial.SetProject(project.Ref(), project.Personal)
	}

	return initial, nil
}

// findProject resolves a --project flag value, matching by ID first
// and then by case-insensitive title.
func findProject(ctx context.Context, client *api.Client, nameOrID string) (tracker.Project, error) {
	projects, err := client.ListProjects(ctx, "")
	if err != nil {
		return tracker.Project{}, err
	}

	for _, project := range projects {
		if project.ID == nameOrID {
			return project, nil
		}
	}
	for _, project := range projects {
		if strings.EqualFold(project.Title, nameOrID) {
			return project, nil
		}
	}

	return tracker.Project{}, errors.New(errors.ErrCodeLookupFailed, fmt.Sprintf("no project matches %q", nameOrID)).
		WithSuggestion("Use the exact project title or its ID").
		WithSuggestion("Omit --project to pick from the list in the wizard")
}
