package tracker

// Mandate is a company-owned solicitation record. CompanyType is
// explicit on the wire; pickers group mandates by the owning
// company's display name, never by its id.
type Mandate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	CompanyID   string      `json:"company_id"`
	CompanyType CompanyType `json:"company_type"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status,omitempty"`
}

// Ref converts the mandate into a picker option.
func (m Mandate) Ref() EntityRef {
	return EntityRef{ID: m.ID, Label: m.Name}
}
