package tracker

import "fmt"

// EntityKind identifies a searchable record collection in the tracker.
type EntityKind string

const (
	KindCreative      EntityKind = "creatives"
	KindProject       EntityKind = "projects"
	KindExecutive     EntityKind = "executives"
	KindExternalRep   EntityKind = "external_reps"
	KindManager       EntityKind = "managers"
	KindWritingSample EntityKind = "writing_samples"
	KindMandate       EntityKind = "mandates"
	KindNeed          EntityKind = "needs"
)

// Validate checks that the kind names a known collection.
func (k EntityKind) Validate() error {
	switch k {
	case KindCreative, KindProject, KindExecutive, KindExternalRep,
		KindManager, KindWritingSample, KindMandate, KindNeed:
		return nil
	}
	return fmt.Errorf("unknown entity kind: %q", k)
}

// String returns the string representation
func (k EntityKind) String() string {
	return string(k)
}

// EntityRef is a lightweight reference to a tracker record.
// Group is a presentation hint assigned by the option resolver
// (company display name, "Personal Projects" and the like); the
// tracker itself never sets it.
type EntityRef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
}

// RecipientKind distinguishes the three kinds of people a
// submission can target. The values match the tracker's
// recipient_type column.
type RecipientKind string

const (
	RecipientExecutive   RecipientKind = "executive"
	RecipientExternalRep RecipientKind = "external_rep"
	RecipientCreative    RecipientKind = "creative"
)

// Validate checks that the kind is one of the known recipient types.
func (k RecipientKind) Validate() error {
	switch k {
	case RecipientExecutive, RecipientExternalRep, RecipientCreative:
		return nil
	}
	return fmt.Errorf("unknown recipient kind: %q", k)
}

// String returns the string representation
func (k RecipientKind) String() string {
	return string(k)
}

// RecipientRef is an EntityRef targeted as a submission recipient.
// CompanyID is the owning company when it could be resolved at
// selection time; empty means the tracker must infer it.
type RecipientRef struct {
	EntityRef
	Kind      RecipientKind `json:"kind"`
	CompanyID string        `json:"companyId,omitempty"`
}

// RecipientKey is the identity of a recipient for de-duplication.
// Two selections of the same person in the same role are the same
// recipient; the same person in two roles is two recipients.
type RecipientKey struct {
	ID   string
	Kind RecipientKind
}

// Key returns the recipient's de-duplication identity.
func (r RecipientRef) Key() RecipientKey {
	return RecipientKey{ID: r.ID, Kind: r.Kind}
}

// ExternalRep is an outside representative. The owning agency comes
// back from lookups by id and name so pickers can group reps without
// a second round trip.
type ExternalRep struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AgencyID   string `json:"agency_id"`
	AgencyName string `json:"agency_name"`
}

// Ref converts the rep into a picker option.
func (r ExternalRep) Ref() EntityRef {
	return EntityRef{ID: r.ID, Label: r.Name}
}

