package tui

import (
	"fmt"
	"strings"

	"github.com/slatecli/slate/internal/tracker"
	"github.com/slatecli/slate/internal/wizard"
)

// renderStep renders the active form, with any failure banner above
// it and the selection summary on the review screen.
func (m *WizardModel) renderStep() string {
	var b strings.Builder

	if m.banner != "" {
		b.WriteString(m.styles.Error.Render(m.banner))
		b.WriteString("\n\n")
	}

	if m.nested == nil && m.engine.CurrentStep().Key == wizard.StepReview {
		b.WriteString(m.renderSummary())
		b.WriteString("\n")
	}

	b.WriteString(m.form.View())
	return b.String()
}

// renderSummary renders the full selection ahead of the final
// confirmation.
func (m *WizardModel) renderSummary() string {
	sel := m.engine.Selection()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Review submission"))
	b.WriteString("\n")

	m.writeRow(&b, "Intent", sel.Intent.Display())
	m.writeRow(&b, "Creatives", joinLabels(sel.Creatives))
	if len(sel.Managers) > 0 {
		m.writeRow(&b, "Managers", joinLabels(sel.Managers))
	}

	project := "none"
	if sel.Project != nil {
		project = sel.Project.Label
		if sel.ProjectPersonal {
			project += " (personal)"
		}
	}
	m.writeRow(&b, "Project", project)

	if sel.Need != nil {
		m.writeRow(&b, "Need", sel.Need.Label)
	}

	recipients := make([]string, 0, len(sel.Recipients))
	for _, r := range sel.Recipients {
		recipients = append(recipients, r.Label)
	}
	m.writeRow(&b, "Recipients", strings.Join(recipients, ", "))

	if len(sel.Mandates) > 0 {
		m.writeRow(&b, "Mandates", joinLabels(sel.Mandates))
	}
	if len(sel.WritingSamples) > 0 {
		m.writeRow(&b, "Samples", joinLabels(sel.WritingSamples))
	}

	return b.String()
}

func (m *WizardModel) writeRow(b *strings.Builder, label, value string) {
	if value == "" {
		value = "none"
	}
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("%-11s", label+":")))
	b.WriteString(" ")
	b.WriteString(m.styles.Value.Render(value))
	b.WriteString("\n")
}

// renderError renders the fatal error view
func (m *WizardModel) renderError() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Error.Render("Error: ") + m.err.Error())
	b.WriteString("\n\n")
	b.WriteString("Press any key to exit.\n")

	return b.String()
}

// renderCompletion renders the created-submission summary
func (m *WizardModel) renderCompletion() string {
	sel := m.engine.Selection()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Success.Render("✓ Submission created"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Submission: "))
	b.WriteString(m.styles.Value.Render(m.created.ID))
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render("Creatives: "))
	b.WriteString(m.styles.Value.Render(fmt.Sprintf("%d", len(sel.Creatives))))
	b.WriteString("\n")

	b.WriteString(m.styles.Label.Render("Recipients: "))
	b.WriteString(m.styles.Value.Render(fmt.Sprintf("%d", len(sel.Recipients))))
	b.WriteString("\n\n")

	b.WriteString("Press any key to exit.\n")

	return b.String()
}

func joinLabels(refs []tracker.EntityRef) string {
	labels := make([]string, 0, len(refs))
	for _, ref := range refs {
		labels = append(labels, ref.Label)
	}
	return strings.Join(labels, ", ")
}
