package tracker

import "fmt"

// Intent classifies why a submission is being made. The values
// match the tracker's intent_primary column.
type Intent string

const (
	IntentStaffing      Intent = "staffing"
	IntentSellProject   Intent = "sell_project"
	IntentRecruitTalent Intent = "recruit_talent"
	IntentGeneralIntro  Intent = "general_intro"
	IntentOther         Intent = "other"
)

// Intents returns every valid intent, in picker order.
func Intents() []Intent {
	return []Intent{
		IntentStaffing,
		IntentSellProject,
		IntentRecruitTalent,
		IntentGeneralIntro,
		IntentOther,
	}
}

// Validate checks that the intent is one of the known values.
// The zero value is invalid; an open wizard starts with no intent.
func (i Intent) Validate() error {
	switch i {
	case IntentStaffing, IntentSellProject, IntentRecruitTalent,
		IntentGeneralIntro, IntentOther:
		return nil
	case "":
		return fmt.Errorf("intent is not set")
	}
	return fmt.Errorf("unknown intent: %q", i)
}

// String returns the string representation
func (i Intent) String() string {
	return string(i)
}

// UsesNeed reports whether a project need is meaningful for this
// intent. Selling a project or recruiting talent targets the project
// itself, so any selected need is ignored and omitted from payloads.
func (i Intent) UsesNeed() bool {
	return i != IntentSellProject && i != IntentRecruitTalent
}

// Display returns a human-readable label for pickers.
func (i Intent) Display() string {
	switch i {
	case IntentStaffing:
		return "Staffing"
	case IntentSellProject:
		return "Sell a project"
	case IntentRecruitTalent:
		return "Recruit talent"
	case IntentGeneralIntro:
		return "General introduction"
	case IntentOther:
		return "Other"
	default:
		return string(i)
	}
}

// ParseIntent parses a string into an Intent.
func ParseIntent(s string) (Intent, error) {
	i := Intent(s)
	if err := i.Validate(); err != nil {
		return "", err
	}
	return i, nil
}
