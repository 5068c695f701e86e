package tracker

// Need is a staffing need attached to a project.
type Need struct {
	ID             string `json:"id"`
	Qualifications string `json:"qualifications"`
	Description    string `json:"description"`
}

// Ref converts the need into a picker option. The description is the
// operator-facing label; qualifications ride along in searches only.
func (n Need) Ref() EntityRef {
	return EntityRef{ID: n.ID, Label: n.Description}
}

// NeedRow is one row of a need-creation request. A single request
// may carry several rows and creates one need per row.
type NeedRow struct {
	Qualifications string `json:"qualifications"`
	Description    string `json:"description"`
}
