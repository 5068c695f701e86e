package tracker

import "fmt"

// CompanyType distinguishes the three company collections a project
// can be linked to. Lookups return it as an explicit field; nothing
// in this codebase infers it from the shape of an id.
type CompanyType string

const (
	CompanyNetwork CompanyType = "network"
	CompanyStudio  CompanyType = "studio"
	CompanyProdco  CompanyType = "prodco"
)

// Validate checks that the type is one of the known company types.
func (t CompanyType) Validate() error {
	switch t {
	case CompanyNetwork, CompanyStudio, CompanyProdco:
		return nil
	}
	return fmt.Errorf("unknown company type: %q", t)
}

// String returns the string representation
func (t CompanyType) String() string {
	return string(t)
}

// CompanyRef is a reference to a network, studio, or production
// company, with its type carried explicitly.
type CompanyRef struct {
	EntityRef
	Type CompanyType `json:"type"`
}

// CompanyContext holds the companies linked to a chosen project.
// It is recomputed whenever the project changes and discarded when
// the project is cleared.
type CompanyContext struct {
	Networks []CompanyRef `json:"networks"`
	Studios  []CompanyRef `json:"studios"`
	Prodcos  []CompanyRef `json:"prodcos"`
}

// All returns every linked company in a stable order:
// networks, then studios, then production companies.
func (c CompanyContext) All() []CompanyRef {
	out := make([]CompanyRef, 0, len(c.Networks)+len(c.Studios)+len(c.Prodcos))
	out = append(out, c.Networks...)
	out = append(out, c.Studios...)
	out = append(out, c.Prodcos...)
	return out
}

// NameByID returns an id to display-name map over every linked company.
func (c CompanyContext) NameByID() map[string]string {
	names := make(map[string]string)
	for _, company := range c.All() {
		names[company.ID] = company.Label
	}
	return names
}

// Empty reports whether the project has no linked companies.
func (c CompanyContext) Empty() bool {
	return len(c.Networks) == 0 && len(c.Studios) == 0 && len(c.Prodcos) == 0
}
