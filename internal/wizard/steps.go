package wizard

// StepKey identifies one screen of the wizard.
type StepKey string

const (
	StepIntent     StepKey = "intent"
	StepCreatives  StepKey = "creatives"
	StepProject    StepKey = "project"
	StepNeed       StepKey = "need"
	StepRecipients StepKey = "recipients"
	StepMandates   StepKey = "mandates"
	StepMaterials  StepKey = "materials"
	StepReview     StepKey = "review"
)

// StepDescriptor pairs a step with its readiness predicate. Next is
// gated on Ready holding for the full current selection; Back never
// is.
type StepDescriptor struct {
	Key   StepKey
	Title string
	Ready func(*Selection) bool
}

func describe(key StepKey, title string) StepDescriptor {
	return StepDescriptor{
		Key:   key,
		Title: title,
		Ready: func(sel *Selection) bool { return stepReady(key, sel) },
	}
}

// standardSequence is the full flow for submissions against tracked
// productions.
func standardSequence() []StepDescriptor {
	return []StepDescriptor{
		describe(StepIntent, "Intent"),
		describe(StepCreatives, "Creatives"),
		describe(StepProject, "Project"),
		describe(StepNeed, "Staffing Need"),
		describe(StepRecipients, "Recipients"),
		describe(StepMandates, "Mandates"),
		describe(StepMaterials, "Materials"),
		describe(StepReview, "Review"),
	}
}

// personalSequence is the shortened flow for personal development
// projects, which carry no staffing needs or mandates.
func personalSequence() []StepDescriptor {
	return []StepDescriptor{
		describe(StepIntent, "Intent"),
		describe(StepCreatives, "Creatives"),
		describe(StepProject, "Project"),
		describe(StepRecipients, "Recipients"),
		describe(StepMaterials, "Materials"),
		describe(StepReview, "Review"),
	}
}

// sequenceFor picks the step sequence from the branching field. The
// sequence is recomputed only when that field changes; the caller
// clamps its index afterwards.
func sequenceFor(sel *Selection) []StepDescriptor {
	if sel.ProjectPersonal {
		return personalSequence()
	}
	return standardSequence()
}

func clampIndex(index, length int) int {
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
