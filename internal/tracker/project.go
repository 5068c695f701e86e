package tracker

// Project is a tracked production. Personal marks an operator-owned
// development project; those carry their creator relationships and
// skip the need and mandate machinery.
type Project struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Personal bool   `json:"is_personal"`
}

// Ref converts the project into a picker option.
func (p Project) Ref() EntityRef {
	return EntityRef{ID: p.ID, Label: p.Title}
}
