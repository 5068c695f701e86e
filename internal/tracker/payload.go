package tracker

// DefaultResult is the outcome recorded on a submission that has not
// yet heard back.
const DefaultResult = "no_response"

// CreativeDeveloperRole is the role under which creatives are attached
// to their own personal projects.
const CreativeDeveloperRole = "Creative Developer"

// RecipientRow is one recipient in a submission payload. Company is a
// pointer so an unresolved owning company serializes as an explicit
// null, telling the tracker to fall back to its own records rather
// than receive an invented id.
type RecipientRow struct {
	Type    RecipientKind `json:"recipient_type"`
	ID      string        `json:"recipient_id"`
	Company *string       `json:"recipient_company"`
}

// SubmissionPayload is the normalized create-submission request.
// It carries ids only; display labels never leave the client.
type SubmissionPayload struct {
	ProjectID        string         `json:"project_id,omitempty"`
	IntentPrimary    Intent         `json:"intent_primary"`
	ProjectNeedID    string         `json:"project_need_id,omitempty"`
	Result           string         `json:"result"`
	CreatedBy        string         `json:"created_by,omitempty"`
	ClientIDs        []string       `json:"client_ids"`
	OriginatorIDs    []string       `json:"originator_ids"`
	RecipientRows    []RecipientRow `json:"recipient_rows"`
	MandateIDs       []string       `json:"mandate_ids"`
	WritingSampleIDs []string       `json:"writing_sample_ids"`
}

// CreatedSub identifies a submission the tracker just created.
type CreatedSub struct {
	ID string `json:"id"`
}

// NewProject is a project-creation request. Personal projects belong
// to the listed creatives, who are attached as creative developers.
type NewProject struct {
	Name        string   `json:"name"`
	Personal    bool     `json:"is_personal"`
	CreativeIDs []string `json:"creative_ids,omitempty"`
}

// NewMandate is a mandate-creation request, scoped to one company.
type NewMandate struct {
	Name        string      `json:"name"`
	CompanyID   string      `json:"company_id"`
	CompanyType CompanyType `json:"company_type"`
	Description string      `json:"description,omitempty"`
}
