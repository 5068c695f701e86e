package wizard

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/slatecli/slate/internal/tracker"
)

func TestBuildPayloadStaffing(t *testing.T) {
	sel := &Selection{}
	sel.SetIntent(tracker.IntentStaffing)
	sel.SetCreatives([]tracker.EntityRef{
		{ID: "CR_1", Label: "Lila Moreno"},
		{ID: "CR_2", Label: "Sam Okafor"},
	})
	sel.SetManagers([]tracker.EntityRef{{ID: "MG_1", Label: "Kim Osei"}})
	sel.SetProject(tracker.EntityRef{ID: "PRJ_1", Label: "Night Shift"}, false)
	sel.SetNeed(tracker.EntityRef{ID: "PN_1", Label: "Staff writer"})
	sel.AddRecipient(tracker.RecipientRef{
		EntityRef: tracker.EntityRef{ID: "EX_1", Label: "Dana Reyes"},
		Kind:      tracker.RecipientExecutive,
		CompanyID: "NW_1",
	})
	sel.SetMandates([]tracker.EntityRef{{ID: "MD_1", Label: "Workplace drama"}})
	sel.SetWritingSamples([]tracker.EntityRef{{ID: "WS_1", Label: "Spec script"}})

	payload := BuildPayload(sel, "jcaldwell")

	if payload.IntentPrimary != tracker.IntentStaffing {
		t.Errorf("IntentPrimary = %s, want staffing", payload.IntentPrimary)
	}
	if payload.Result != tracker.DefaultResult {
		t.Errorf("Result = %q, want %q", payload.Result, tracker.DefaultResult)
	}
	if payload.CreatedBy != "jcaldwell" {
		t.Errorf("CreatedBy = %q, want jcaldwell", payload.CreatedBy)
	}
	if payload.ProjectID != "PRJ_1" || payload.ProjectNeedID != "PN_1" {
		t.Errorf("project fields = (%q, %q), want (PRJ_1, PN_1)", payload.ProjectID, payload.ProjectNeedID)
	}
	if !reflect.DeepEqual(payload.ClientIDs, []string{"CR_1", "CR_2"}) {
		t.Errorf("ClientIDs = %v, want selection order", payload.ClientIDs)
	}
	if len(payload.RecipientRows) != 1 {
		t.Fatalf("RecipientRows = %v, want one row", payload.RecipientRows)
	}
	row := payload.RecipientRows[0]
	if row.Type != tracker.RecipientExecutive || row.ID != "EX_1" {
		t.Errorf("row = %+v, want executive EX_1", row)
	}
	if row.Company == nil || *row.Company != "NW_1" {
		t.Errorf("row.Company = %v, want NW_1", row.Company)
	}
}

func TestBuildPayloadOmitsNeedForSellProject(t *testing.T) {
	sel := &Selection{}
	sel.SetIntent(tracker.IntentSellProject)
	sel.SetProject(tracker.EntityRef{ID: "PRJ_1", Label: "Night Shift"}, false)
	// A need chosen under an earlier staffing intent can survive the
	// intent change; the payload must drop it anyway.
	sel.Need = &tracker.EntityRef{ID: "PN_1", Label: "Staff writer"}

	payload := BuildPayload(sel, "")

	if payload.ProjectNeedID != "" {
		t.Errorf("ProjectNeedID = %q, want empty for sell_project", payload.ProjectNeedID)
	}
	if payload.ProjectID != "PRJ_1" {
		t.Errorf("ProjectID = %q, want PRJ_1", payload.ProjectID)
	}
}

func TestBuildPayloadUnresolvedCompanyIsNull(t *testing.T) {
	sel := &Selection{}
	sel.AddRecipient(tracker.RecipientRef{
		EntityRef: tracker.EntityRef{ID: "ER_1", Label: "Morgan Tate"},
		Kind:      tracker.RecipientExternalRep,
	})

	payload := BuildPayload(sel, "")

	if len(payload.RecipientRows) != 1 {
		t.Fatalf("RecipientRows = %v, want one row", payload.RecipientRows)
	}
	if payload.RecipientRows[0].Company != nil {
		t.Errorf("Company = %v, want nil for an unresolved company", *payload.RecipientRows[0].Company)
	}
}

func TestBuildPayloadEmptySelectionsAreEmptyLists(t *testing.T) {
	payload := BuildPayload(&Selection{}, "")

	if payload.ClientIDs == nil || payload.RecipientRows == nil || payload.MandateIDs == nil {
		t.Error("empty selections must serialize as empty lists, not null")
	}
	if len(payload.ClientIDs) != 0 || len(payload.RecipientRows) != 0 {
		t.Errorf("payload = %+v, want empty lists", payload)
	}
}

func TestBuildPayloadDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfN(rapid.StringMatching(`[A-Z]{2}_[0-9]{1,3}`), 0, 8).Draw(t, "ids")

		sel := &Selection{}
		sel.SetIntent(tracker.IntentGeneralIntro)
		refs := make([]tracker.EntityRef, len(ids))
		for i, id := range ids {
			refs[i] = tracker.EntityRef{ID: id, Label: "L" + id}
		}
		sel.SetCreatives(refs)

		first := BuildPayload(sel, "op")
		second := BuildPayload(sel, "op")
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("payloads differ across identical builds: %+v vs %+v", first, second)
		}

		seen := make(map[string]bool)
		for _, id := range first.ClientIDs {
			if seen[id] {
				t.Fatalf("duplicate id %q in ClientIDs %v", id, first.ClientIDs)
			}
			seen[id] = true
		}
	})
}
