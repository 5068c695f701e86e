package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/slatecli/slate/internal/tracker"
	"github.com/slatecli/slate/internal/wizard"
)

// WizardModel represents the TUI state for the submission wizard.
// Each step renders as one huh form; quick-create flows swap in a
// nested form and return to the step they interrupted.
type WizardModel struct {
	ctx       context.Context
	engine    *wizard.Engine
	styles    Styles
	form      *huh.Form
	index     optionIndex
	nested    *nestedFlow
	banner    string
	quitting  bool
	completed bool
	created   tracker.CreatedSub
	err       error
	width     int
	height    int
}

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Quit key.Binding
	Back key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// NewWizardModel creates a new wizard TUI model over an open engine.
func NewWizardModel(ctx context.Context, engine *wizard.Engine) (*WizardModel, error) {
	m := &WizardModel{
		ctx:    ctx,
		engine: engine,
		styles: DefaultStyles(),
	}

	if err := m.createForm(); err != nil {
		return nil, fmt.Errorf("create initial form: %w", err)
	}

	return m, nil
}

// Init initializes the model
func (m *WizardModel) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return nil
}

// Update handles messages and updates the model
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.engine.Cancel()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Back):
			if !m.completed && m.err == nil {
				return m.goBack()
			}
		}
	}

	// If completed or error, any key exits
	if m.completed || m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	// Update form
	if m.form != nil {
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f

			if m.form.State == huh.StateCompleted {
				return m.submitForm()
			}
		}
		return m, cmd
	}

	return m, nil
}

// goBack leaves a nested flow without creating anything, or steps the
// wizard back one screen.
func (m *WizardModel) goBack() (tea.Model, tea.Cmd) {
	if m.nested != nil {
		m.engine.EndNested()
		m.nested = nil
	} else {
		m.engine.Back()
	}
	m.banner = ""
	if err := m.createForm(); err != nil {
		m.err = err
		return m, nil
	}
	return m, m.form.Init()
}

// submitForm routes a completed form: nested flows create their
// entity and fall back to the interrupted step, step forms apply the
// choice and advance.
func (m *WizardModel) submitForm() (tea.Model, tea.Cmd) {
	if m.nested != nil {
		m.finishNested()
	} else if err := m.applyStep(); err != nil {
		m.err = err
		return m, nil
	}

	if m.completed {
		return m, nil
	}

	if err := m.createForm(); err != nil {
		m.err = err
		return m, nil
	}
	return m, m.form.Init()
}

// applyStep reads the completed step form into the engine, starts a
// quick-create flow when its sentinel was chosen, and otherwise
// advances. A blocked advance stays on the step with its failures in
// the banner.
func (m *WizardModel) applyStep() error {
	step := m.engine.CurrentStep()
	m.banner = ""

	switch step.Key {
	case wizard.StepIntent:
		intent, err := tracker.ParseIntent(m.form.GetString(keyIntent))
		if err != nil {
			return fmt.Errorf("read intent: %w", err)
		}
		m.engine.SetIntent(intent)

	case wizard.StepCreatives:
		m.engine.SetCreatives(m.index.refs(keyCreatives, m.formStrings(keyCreatives)))
		m.engine.SetManagers(m.index.refs(keyManagers, m.formStrings(keyManagers)))

	case wizard.StepProject:
		switch value := m.form.GetString(keyProject); value {
		case sentinelNewProject:
			m.beginNested(nestedProject)
			return nil
		case valueNone:
			m.engine.ClearProject()
		default:
			opt, ok := m.index.lookup(keyProject, value)
			if !ok {
				return fmt.Errorf("unknown project selection %q", value)
			}
			m.engine.SetProject(opt.Ref, opt.Personal)
		}

	case wizard.StepNeed:
		switch value := m.form.GetString(keyNeed); value {
		case sentinelNewNeeds:
			m.beginNested(nestedNeeds)
			return nil
		case valueNone:
			m.engine.ClearNeed()
		default:
			opt, ok := m.index.lookup(keyNeed, value)
			if !ok {
				return fmt.Errorf("unknown need selection %q", value)
			}
			m.engine.SetNeed(opt.Ref)
		}

	case wizard.StepRecipients:
		m.engine.SetRecipients(m.index.recipients(keyRecipients, m.formStrings(keyRecipients)))

	case wizard.StepMandates:
		values := m.formStrings(keyMandates)
		var create bool
		kept := make([]string, 0, len(values))
		for _, value := range values {
			if value == sentinelNewMandate {
				create = true
				continue
			}
			kept = append(kept, value)
		}
		m.engine.SetMandates(m.index.refs(keyMandates, kept))
		if create {
			if len(m.engine.Companies(m.ctx)) == 0 {
				m.banner = "choose a project with linked companies before creating a mandate"
			} else {
				m.beginNested(nestedMandate)
			}
			return nil
		}

	case wizard.StepMaterials:
		m.engine.SetWritingSamples(m.index.refs(keySamples, m.formStrings(keySamples)))

	case wizard.StepReview:
		if !m.form.GetBool(keyConfirm) {
			m.engine.Back()
			return nil
		}
		return m.save()
	}

	if err := m.engine.Next(); err != nil {
		m.banner = err.Error()
	}
	return nil
}

// save runs the submission. Failure keeps the wizard open on the
// review step with the reason in the banner so nothing is lost.
func (m *WizardModel) save() error {
	created, err := m.engine.Save(m.ctx)
	if err != nil {
		m.banner = err.Error()
		return nil
	}
	m.created = created
	m.completed = true
	return nil
}

// formStrings reads a multi-select result from the completed form.
func (m *WizardModel) formStrings(key string) []string {
	values, _ := m.form.Get(key).([]string)
	return values
}

// View renders the UI
func (m *WizardModel) View() string {
	if m.quitting {
		return "Submission cancelled.\n"
	}

	if m.err != nil {
		return m.renderError()
	}

	if m.completed {
		return m.renderCompletion()
	}

	if m.form != nil {
		return m.renderStep()
	}

	return "Loading...\n"
}

// RunWizard drives the wizard TUI to completion and returns the
// created submission.
func RunWizard(ctx context.Context, engine *wizard.Engine) (tracker.CreatedSub, error) {
	model, err := NewWizardModel(ctx, engine)
	if err != nil {
		return tracker.CreatedSub{}, fmt.Errorf("create wizard model: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return tracker.CreatedSub{}, fmt.Errorf("run TUI: %w", err)
	}

	m, ok := finalModel.(*WizardModel)
	if !ok {
		return tracker.CreatedSub{}, fmt.Errorf("invalid final model type")
	}

	if m.err != nil {
		return tracker.CreatedSub{}, m.err
	}

	if !m.completed {
		return tracker.CreatedSub{}, fmt.Errorf("submission cancelled")
	}

	return m.created, nil
}
