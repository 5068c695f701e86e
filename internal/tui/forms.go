package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/slatecli/slate/internal/tracker"
	"github.com/slatecli/slate/internal/wizard"
)

// Form field keys. Step fields are read back by key after the form
// completes; nested flows use their own keys.
const (
	keyIntent     = "intent"
	keyCreatives  = "creatives"
	keyManagers   = "managers"
	keyProject    = "project"
	keyNeed       = "need"
	keyRecipients = "recipients"
	keyMandates   = "mandates"
	keySamples    = "samples"
	keyConfirm    = "confirm"

	keyProjectName     = "project_name"
	keyProjectPersonal = "project_personal"
	keyNeedRows        = "need_rows"
	keyMandateCompany  = "mandate_company"
	keyMandateName     = "mandate_name"
	keyMandateDesc     = "mandate_description"
)

// Sentinel option values that start a quick-create flow instead of
// selecting a row. valueNone clears an optional single-select.
const (
	valueNone          = ""
	sentinelNewProject = "__new_project__"
	sentinelNewNeeds   = "__new_needs__"
	sentinelNewMandate = "__new_mandate__"
)

type nestedKind int

const (
	nestedProject nestedKind = iota
	nestedNeeds
	nestedMandate
)

// nestedFlow is an in-flight quick-create form. companies backs the
// mandate flow's company select.
type nestedFlow struct {
	kind      nestedKind
	companies map[string]tracker.CompanyRef
}

// beginNested suspends the step flow until the quick-create form is
// confirmed or abandoned.
func (m *WizardModel) beginNested(kind nestedKind) {
	m.engine.BeginNested()
	m.nested = &nestedFlow{kind: kind}
}

// optionIndex maps a field's encoded option values back to the picker
// rows they came from. It is rebuilt with every form.
type optionIndex map[string]map[string]wizard.Option

func (ix optionIndex) put(field, value string, opt wizard.Option) {
	if ix[field] == nil {
		ix[field] = make(map[string]wizard.Option)
	}
	ix[field][value] = opt
}

func (ix optionIndex) lookup(field, value string) (wizard.Option, bool) {
	opt, ok := ix[field][value]
	return opt, ok
}

func (ix optionIndex) refs(field string, values []string) []tracker.EntityRef {
	refs := make([]tracker.EntityRef, 0, len(values))
	for _, value := range values {
		if opt, ok := ix.lookup(field, value); ok {
			refs = append(refs, opt.Ref)
		}
	}
	return refs
}

func (ix optionIndex) recipients(field string, values []string) []tracker.RecipientRef {
	refs := make([]tracker.RecipientRef, 0, len(values))
	for _, value := range values {
		if opt, ok := ix.lookup(field, value); ok && opt.Recipient != nil {
			refs = append(refs, *opt.Recipient)
		}
	}
	return refs
}

// createForm builds the huh form for the current screen: the active
// quick-create flow if one is open, the current step otherwise.
func (m *WizardModel) createForm() error {
	m.index = make(optionIndex)

	if m.nested != nil {
		return m.createNestedForm()
	}

	step := m.engine.CurrentStep()

	var group *huh.Group
	var err error
	switch step.Key {
	case wizard.StepIntent:
		group = m.intentGroup()
	case wizard.StepCreatives:
		group, err = m.creativesGroup()
	case wizard.StepProject:
		group, err = m.projectGroup()
	case wizard.StepNeed:
		group, err = m.needGroup()
	case wizard.StepRecipients:
		group, err = m.recipientsGroup()
	case wizard.StepMandates:
		group, err = m.mandatesGroup()
	case wizard.StepMaterials:
		group, err = m.materialsGroup()
	case wizard.StepReview:
		group = m.reviewGroup()
	default:
		err = fmt.Errorf("no form for step %q", step.Key)
	}
	if err != nil {
		return err
	}

	m.form = huh.NewForm(
		group.
			Title(m.formatProgress()).
			Description(m.formatHelp()),
	)
	return nil
}

func (m *WizardModel) intentGroup() *huh.Group {
	sel := m.engine.Selection()

	defaultVal := ""
	if sel.Intent.Validate() == nil {
		defaultVal = string(sel.Intent)
	}

	intents := tracker.Intents()
	options := make([]huh.Option[string], 0, len(intents))
	for _, intent := range intents {
		options = append(options, huh.NewOption(intent.Display(), string(intent)))
	}

	return huh.NewGroup(
		huh.NewSelect[string]().
			Key(keyIntent).
			Title("What is this submission for?").
			Options(options...).
			Value(&defaultVal),
	)
}

func (m *WizardModel) creativesGroup() (*huh.Group, error) {
	creativeOpts, err := m.selectOptions(keyCreatives, wizard.PickerCreatives)
	if err != nil {
		return nil, err
	}
	managerOpts, err := m.selectOptions(keyManagers, wizard.PickerManagers)
	if err != nil {
		return nil, err
	}

	sel := m.engine.Selection()
	creatives := refIDs(sel.Creatives)
	managers := refIDs(sel.Managers)

	return huh.NewGroup(
		huh.NewMultiSelect[string]().
			Key(keyCreatives).
			Title("Creatives").
			Description("Who is being submitted").
			Options(creativeOpts...).
			Value(&creatives),
		huh.NewMultiSelect[string]().
			Key(keyManagers).
			Title("Originating managers").
			Description("Optional, who the submission goes out from").
			Options(managerOpts...).
			Value(&managers),
	), nil
}

func (m *WizardModel) projectGroup() (*huh.Group, error) {
	options, err := m.selectOptions(keyProject, wizard.PickerProjects)
	if err != nil {
		return nil, err
	}

	sel := m.engine.Selection()
	defaultVal := valueNone
	if sel.Project != nil {
		defaultVal = sel.Project.ID
	}

	all := make([]huh.Option[string], 0, len(options)+2)
	all = append(all, huh.NewOption("No project", valueNone))
	all = append(all, options...)
	all = append(all, huh.NewOption("Create a new project", sentinelNewProject))

	return huh.NewGroup(
		huh.NewSelect[string]().
			Key(keyProject).
			Title("Project").
			Description("The production this submission targets").
			Options(all...).
			Value(&defaultVal),
	), nil
}

func (m *WizardModel) needGroup() (*huh.Group, error) {
	options, err := m.selectOptions(keyNeed, wizard.PickerNeeds)
	if err != nil {
		return nil, err
	}

	sel := m.engine.Selection()
	defaultVal := valueNone
	if sel.Need != nil {
		defaultVal = sel.Need.ID
	}

	all := make([]huh.Option[string], 0, len(options)+2)
	all = append(all, huh.NewOption("No staffing need", valueNone))
	all = append(all, options...)
	if sel.Project != nil {
		all = append(all, huh.NewOption("Create new needs", sentinelNewNeeds))
	}

	return huh.NewGroup(
		huh.NewSelect[string]().
			Key(keyNeed).
			Title("Staffing need").
			Description("The open need this submission answers").
			Options(all...).
			Value(&defaultVal),
	), nil
}

func (m *WizardModel) recipientsGroup() (*huh.Group, error) {
	options, err := m.selectOptions(keyRecipients, wizard.PickerRecipients)
	if err != nil {
		return nil, err
	}

	defaults := recipientValues(m.engine.Selection().Recipients)

	return huh.NewGroup(
		huh.NewMultiSelect[string]().
			Key(keyRecipients).
			Title("Recipients").
			Description("Who receives the submission").
			Options(options...).
			Value(&defaults),
	), nil
}

func (m *WizardModel) mandatesGroup() (*huh.Group, error) {
	options, err := m.selectOptions(keyMandates, wizard.PickerMandates)
	if err != nil {
		return nil, err
	}

	sel := m.engine.Selection()
	if sel.Project != nil {
		options = append(options, huh.NewOption("Create a new mandate", sentinelNewMandate))
	}

	defaults := refIDs(sel.Mandates)

	return huh.NewGroup(
		huh.NewMultiSelect[string]().
			Key(keyMandates).
			Title("Mandates").
			Description("Optional, company mandates this submission answers").
			Options(options...).
			Value(&defaults),
	), nil
}

func (m *WizardModel) materialsGroup() (*huh.Group, error) {
	options, err := m.selectOptions(keySamples, wizard.PickerSamples)
	if err != nil {
		return nil, err
	}

	defaults := refIDs(m.engine.Selection().WritingSamples)

	return huh.NewGroup(
		huh.NewMultiSelect[string]().
			Key(keySamples).
			Title("Writing samples").
			Description("Optional, material to attach").
			Options(options...).
			Value(&defaults),
	), nil
}

func (m *WizardModel) reviewGroup() *huh.Group {
	defaultVal := true
	return huh.NewGroup(
		huh.NewConfirm().
			Key(keyConfirm).
			Title("Create this submission?").
			Value(&defaultVal).
			Affirmative("Create").
			Negative("Go back"),
	)
}

// createNestedForm builds the quick-create form for the open flow.
func (m *WizardModel) createNestedForm() error {
	var group *huh.Group
	switch m.nested.kind {
	case nestedProject:
		group = m.nestedProjectGroup()
	case nestedNeeds:
		group = m.nestedNeedsGroup()
	case nestedMandate:
		group = m.nestedMandateGroup()
	}

	m.form = huh.NewForm(
		group.Description("Enter to confirm • Esc to go back without creating"),
	)
	return nil
}

func (m *WizardModel) nestedProjectGroup() *huh.Group {
	name := ""
	personal := false

	return huh.NewGroup(
		huh.NewInput().
			Key(keyProjectName).
			Title("Project name").
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a project needs a name")
				}
				return nil
			}),
		huh.NewConfirm().
			Key(keyProjectPersonal).
			Title("Personal development project?").
			Value(&personal).
			Affirmative("Yes").
			Negative("No"),
	).Title("New project")
}

func (m *WizardModel) nestedNeedsGroup() *huh.Group {
	rows := ""

	return huh.NewGroup(
		huh.NewText().
			Key(keyNeedRows).
			Title("Staffing needs").
			Description("One need per line as: description | qualifications").
			Value(&rows).
			Validate(func(s string) error {
				if len(parseNeedRows(s)) == 0 {
					return fmt.Errorf("enter at least one need")
				}
				return nil
			}),
	).Title("New staffing needs")
}

func (m *WizardModel) nestedMandateGroup() *huh.Group {
	companies := m.engine.Companies(m.ctx)
	m.nested.companies = make(map[string]tracker.CompanyRef, len(companies))

	options := make([]huh.Option[string], 0, len(companies))
	for _, company := range companies {
		m.nested.companies[company.ID] = company
		options = append(options, huh.NewOption(company.Label, company.ID))
	}

	name := ""
	description := ""

	return huh.NewGroup(
		huh.NewSelect[string]().
			Key(keyMandateCompany).
			Title("Company").
			Description("Which company holds the mandate").
			Options(options...),
		huh.NewInput().
			Key(keyMandateName).
			Title("Mandate name").
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a mandate needs a name")
				}
				return nil
			}),
		huh.NewInput().
			Key(keyMandateDesc).
			Title("Description").
			Value(&description),
	).Title("New mandate")
}

// finishNested runs the quick-create behind the completed nested form
// and returns to the step it interrupted. A creation failure lands in
// the banner; the step keeps its state either way.
func (m *WizardModel) finishNested() {
	flow := m.nested
	m.nested = nil
	m.banner = ""

	var err error
	switch flow.kind {
	case nestedProject:
		name := strings.TrimSpace(m.form.GetString(keyProjectName))
		personal := m.form.GetBool(keyProjectPersonal)
		_, err = m.engine.CreateProject(m.ctx, name, personal)

	case nestedNeeds:
		rows := parseNeedRows(m.form.GetString(keyNeedRows))
		_, err = m.engine.CreateNeeds(m.ctx, rows)

	case nestedMandate:
		company, ok := flow.companies[m.form.GetString(keyMandateCompany)]
		if !ok {
			err = fmt.Errorf("no company chosen for the mandate")
			break
		}
		_, err = m.engine.CreateMandate(m.ctx, tracker.NewMandate{
			Name:        strings.TrimSpace(m.form.GetString(keyMandateName)),
			CompanyID:   company.ID,
			CompanyType: company.Type,
			Description: strings.TrimSpace(m.form.GetString(keyMandateDesc)),
		})
	}

	m.engine.EndNested()
	if err != nil {
		m.banner = err.Error()
	}
}

// selectOptions resolves one picker and flattens its groups into huh
// options, recording the value mapping in the option index. Group
// labels fold into the option text since huh selects render flat.
func (m *WizardModel) selectOptions(field string, picker wizard.Picker) ([]huh.Option[string], error) {
	groups, err := m.engine.Options(m.ctx, picker, "")
	if err != nil {
		return nil, err
	}

	var options []huh.Option[string]
	for _, group := range groups {
		for _, opt := range group.Options {
			value := optionValue(opt)
			m.index.put(field, value, opt)
			options = append(options, huh.NewOption(optionTitle(group.Label, opt), value))
		}
	}
	return options, nil
}

// optionValue encodes a picker row as a stable form value. Recipients
// carry their role so the same person in two roles stays two rows.
func optionValue(opt wizard.Option) string {
	if opt.Recipient != nil {
		return recipientValue(*opt.Recipient)
	}
	return opt.Ref.ID
}

func optionTitle(group string, opt wizard.Option) string {
	title := opt.Ref.Label
	if opt.Detail != "" && opt.Detail != title {
		title = fmt.Sprintf("%s (%s)", title, opt.Detail)
	}
	if group != "" {
		title = fmt.Sprintf("%s / %s", group, title)
	}
	return title
}

func recipientValue(ref tracker.RecipientRef) string {
	return string(ref.Kind) + "/" + ref.ID
}

func recipientValues(refs []tracker.RecipientRef) []string {
	values := make([]string, 0, len(refs))
	for _, ref := range refs {
		values = append(values, recipientValue(ref))
	}
	return values
}

func refIDs(refs []tracker.EntityRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// parseNeedRows splits the needs text into creation rows. Lines read
// as description | qualifications; the qualifications half may be
// omitted.
func parseNeedRows(raw string) []tracker.NeedRow {
	var rows []tracker.NeedRow
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		description, qualifications, _ := strings.Cut(line, "|")
		description = strings.TrimSpace(description)
		if description == "" {
			continue
		}
		rows = append(rows, tracker.NeedRow{
			Description:    description,
			Qualifications: strings.TrimSpace(qualifications),
		})
	}
	return rows
}

func (m *WizardModel) formatProgress() string {
	steps := m.engine.Steps()
	current := m.engine.CurrentIndex() + 1
	step := m.engine.CurrentStep()

	return fmt.Sprintf("Step %d/%d: %s (%d%%)", current, len(steps), step.Title, int(m.engine.Progress()))
}

func (m *WizardModel) formatHelp() string {
	return "Arrow keys to navigate • Space to toggle • Enter to continue • Esc to go back • Ctrl+C to quit"
}
