package tracker

import (
	"testing"

	"pgregory.net/rapid"
)

// genValidIntent generates valid Intent values for property testing
func genValidIntent() *rapid.Generator[Intent] {
	return rapid.SampledFrom(Intents())
}

// genInvalidIntent generates strings that are not valid intents
func genInvalidIntent() *rapid.Generator[string] {
	known := map[string]bool{}
	for _, i := range Intents() {
		known[string(i)] = true
	}
	return rapid.OneOf(
		rapid.Just(""),
		rapid.SampledFrom([]string{"Staffing", "SELL_PROJECT", "sell project", " staffing", "staffing "}),
		rapid.StringMatching(`[a-z_]{1,20}`).Filter(func(s string) bool {
			return !known[s]
		}),
	)
}

// TestIntent_ValidIntentsAlwaysValidate tests that all valid intents pass validation
func TestIntent_ValidIntentsAlwaysValidate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		intent := genValidIntent().Draw(t, "valid_intent")

		if err := intent.Validate(); err != nil {
			t.Fatalf("valid intent %q should pass validation: %v", intent, err)
		}

		parsed, err := ParseIntent(string(intent))
		if err != nil {
			t.Fatalf("ParseIntent should round-trip %q: %v", intent, err)
		}
		if parsed != intent {
			t.Fatalf("ParseIntent round-trip changed the value: %q -> %q", intent, parsed)
		}
	})
}

// TestIntent_InvalidIntentsFail tests that invalid intent strings fail validation
func TestIntent_InvalidIntentsFail(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := genInvalidIntent().Draw(t, "invalid_intent")

		if _, err := ParseIntent(raw); err == nil {
			t.Fatalf("invalid intent %q should fail to parse", raw)
		}
	})
}

// TestIntent_NeedUseIsExclusive tests that exactly the two project-level
// intents skip the need field
func TestIntent_NeedUseIsExclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		intent := genValidIntent().Draw(t, "intent")

		skips := intent == IntentSellProject || intent == IntentRecruitTalent
		if intent.UsesNeed() == skips {
			t.Fatalf("UsesNeed() for %q = %v, inconsistent with intent class", intent, intent.UsesNeed())
		}
	})
}
