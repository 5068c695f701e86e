package wizard

import (
	"github.com/slatecli/slate/internal/tracker"
)

// BuildPayload flattens the selection into the tracker's submission
// payload. It is pure and deterministic: ids only, never display
// labels, no lookups, ordered-set order preserved. The need is
// omitted whenever the intent cannot use one, even if a stale
// selection survived a late intent change.
func BuildPayload(sel *Selection, createdBy string) tracker.SubmissionPayload {
	payload := tracker.SubmissionPayload{
		IntentPrimary:    sel.Intent,
		Result:           tracker.DefaultResult,
		CreatedBy:        createdBy,
		ClientIDs:        refIDs(sel.Creatives),
		OriginatorIDs:    refIDs(sel.Managers),
		RecipientRows:    recipientRows(sel.Recipients),
		MandateIDs:       refIDs(sel.Mandates),
		WritingSampleIDs: refIDs(sel.WritingSamples),
	}
	if sel.Project != nil {
		payload.ProjectID = sel.Project.ID
	}
	if sel.Need != nil && sel.Intent.UsesNeed() {
		payload.ProjectNeedID = sel.Need.ID
	}
	return payload
}

// refIDs extracts deduplicated ids in selection order.
func refIDs(refs []tracker.EntityRef) []string {
	seen := make(map[string]bool, len(refs))
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		ids = append(ids, ref.ID)
	}
	return ids
}

// recipientRows flattens recipients into role-tagged rows. A company
// the wizard could not resolve goes out as an explicit null so the
// tracker falls back to its own data; the wizard never invents one.
func recipientRows(refs []tracker.RecipientRef) []tracker.RecipientRow {
	seen := make(map[tracker.RecipientKey]bool, len(refs))
	rows := make([]tracker.RecipientRow, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true

		row := tracker.RecipientRow{Type: ref.Kind, ID: ref.ID}
		if ref.CompanyID != "" {
			companyID := ref.CompanyID
			row.Company = &companyID
		}
		rows = append(rows, row)
	}
	return rows
}
