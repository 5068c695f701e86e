package wizard

import (
	"github.com/slatecli/slate/internal/tracker"
)

// Stable field keys. The host renders a failure next to the field its
// key names; the keys are part of the engine's contract and never
// change with wording.
const (
	FieldIntent     = "intent"
	FieldCreatives  = "creatives"
	FieldProject    = "project"
	FieldNeed       = "need"
	FieldRecipients = "recipients"
)

// FieldErrors maps a field key to its failure message. Validation
// never returns an error value; an empty map means valid.
type FieldErrors map[string]string

// stepErrors evaluates one step's required-field rules against the
// full selection. Conditionally required fields are predicates over
// the whole state, not static flags.
func stepErrors(key StepKey, sel *Selection) FieldErrors {
	errs := make(FieldErrors)
	switch key {
	case StepIntent:
		if sel.Intent.Validate() != nil {
			errs[FieldIntent] = "choose what this submission is for"
		}
	case StepCreatives:
		if len(sel.Creatives) == 0 {
			errs[FieldCreatives] = "select at least one creative"
		}
	case StepProject:
		if projectRequired(sel.Intent) && sel.Project == nil {
			errs[FieldProject] = "select a project"
		}
	case StepNeed:
		if needRequired(sel) && sel.Need == nil {
			errs[FieldNeed] = "select a staffing need on this project"
		}
	case StepRecipients:
		if len(sel.Recipients) == 0 {
			errs[FieldRecipients] = "add at least one recipient"
		}
	}
	return errs
}

func stepReady(key StepKey, sel *Selection) bool {
	return len(stepErrors(key, sel)) == 0
}

// projectRequired reports whether the intent is project-centric.
// General introductions and one-off submissions may go out without a
// production attached.
func projectRequired(intent tracker.Intent) bool {
	switch intent {
	case tracker.IntentStaffing, tracker.IntentSellProject, tracker.IntentRecruitTalent:
		return true
	}
	return false
}

// needRequired holds when a tracked project is chosen under an intent
// that staffs against needs. Selling a project or recruiting its
// talent never involves a need, and personal projects carry none.
func needRequired(sel *Selection) bool {
	if sel.Project == nil || sel.ProjectPersonal {
		return false
	}
	if sel.Intent.Validate() != nil {
		return false
	}
	return sel.Intent.UsesNeed()
}

// Validate re-evaluates every step of the sequence against the full
// selection, independent of which step is active. A later change that
// invalidates an earlier step surfaces here.
func Validate(sel *Selection, steps []StepDescriptor) FieldErrors {
	errs := make(FieldErrors)
	for _, step := range steps {
		for field, message := range stepErrors(step.Key, sel) {
			errs[field] = message
		}
	}
	return errs
}

// CanSubmit holds exactly when every step's readiness predicate holds.
func CanSubmit(sel *Selection, steps []StepDescriptor) bool {
	return len(Validate(sel, steps)) == 0
}
