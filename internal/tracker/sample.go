package tracker

// WritingSample is a piece of supporting material owned by a
// creative, optionally tied to a project.
type WritingSample struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Description string `json:"file_description,omitempty"`
	CreativeID  string `json:"creative_id,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
}

// Ref converts the sample into a picker option.
func (s WritingSample) Ref() EntityRef {
	label := s.Filename
	if s.Description != "" {
		label = s.Description
	}
	return EntityRef{ID: s.ID, Label: label}
}
