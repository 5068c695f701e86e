package wizard

import (
	"github.com/slatecli/slate/internal/tracker"
)

// Selection is the wizard's accumulated form state. Every list is an
// ordered set: insertion order is preserved and re-adding an entry is
// a no-op. It is mutated only by user actions and by confirmed
// quick-create flows, and discarded when the wizard closes.
type Selection struct {
	Intent          tracker.Intent
	Creatives       []tracker.EntityRef
	Managers        []tracker.EntityRef
	WritingSamples  []tracker.EntityRef
	Project         *tracker.EntityRef
	ProjectPersonal bool
	Need            *tracker.EntityRef
	Recipients      []tracker.RecipientRef
	Mandates        []tracker.EntityRef
}

// SetIntent records what the submission is for.
func (s *Selection) SetIntent(intent tracker.Intent) {
	s.Intent = intent
}

// SetProject chooses the project and its personal flag. Changing to a
// different project invalidates the chosen need, which is scoped to
// the old project.
func (s *Selection) SetProject(ref tracker.EntityRef, personal bool) {
	changed := s.Project == nil || s.Project.ID != ref.ID
	s.Project = &ref
	s.ProjectPersonal = personal
	if changed {
		s.Need = nil
	}
}

// ClearProject drops the project along with everything scoped to it.
func (s *Selection) ClearProject() {
	s.Project = nil
	s.ProjectPersonal = false
	s.Need = nil
}

// SetNeed chooses a staffing need on the current project.
func (s *Selection) SetNeed(ref tracker.EntityRef) {
	s.Need = &ref
}

// ClearNeed drops the chosen need.
func (s *Selection) ClearNeed() {
	s.Need = nil
}

// AddCreative appends a creative unless already selected.
func (s *Selection) AddCreative(ref tracker.EntityRef) bool {
	var added bool
	s.Creatives, added = addRef(s.Creatives, ref)
	return added
}

// RemoveCreative drops a creative by id.
func (s *Selection) RemoveCreative(id string) {
	s.Creatives = removeRef(s.Creatives, id)
}

// SetCreatives replaces the creative set, deduplicating by id while
// keeping first-occurrence order.
func (s *Selection) SetCreatives(refs []tracker.EntityRef) {
	s.Creatives = dedupeRefs(refs)
}

// AddManager appends an originating manager unless already selected.
func (s *Selection) AddManager(ref tracker.EntityRef) bool {
	var added bool
	s.Managers, added = addRef(s.Managers, ref)
	return added
}

// RemoveManager drops a manager by id.
func (s *Selection) RemoveManager(id string) {
	s.Managers = removeRef(s.Managers, id)
}

// SetManagers replaces the manager set.
func (s *Selection) SetManagers(refs []tracker.EntityRef) {
	s.Managers = dedupeRefs(refs)
}

// AddWritingSample appends a writing sample unless already selected.
func (s *Selection) AddWritingSample(ref tracker.EntityRef) bool {
	var added bool
	s.WritingSamples, added = addRef(s.WritingSamples, ref)
	return added
}

// RemoveWritingSample drops a sample by id.
func (s *Selection) RemoveWritingSample(id string) {
	s.WritingSamples = removeRef(s.WritingSamples, id)
}

// SetWritingSamples replaces the writing sample set.
func (s *Selection) SetWritingSamples(refs []tracker.EntityRef) {
	s.WritingSamples = dedupeRefs(refs)
}

// AddMandate appends a mandate unless already selected.
func (s *Selection) AddMandate(ref tracker.EntityRef) bool {
	var added bool
	s.Mandates, added = addRef(s.Mandates, ref)
	return added
}

// RemoveMandate drops a mandate by id.
func (s *Selection) RemoveMandate(id string) {
	s.Mandates = removeRef(s.Mandates, id)
}

// SetMandates replaces the mandate set.
func (s *Selection) SetMandates(refs []tracker.EntityRef) {
	s.Mandates = dedupeRefs(refs)
}

// AddRecipient appends a recipient unless the same person in the
// same role is already selected. Identity is (id, kind): the second
// add of a pair is a no-op, while the same person in a second role
// is a distinct recipient.
func (s *Selection) AddRecipient(ref tracker.RecipientRef) bool {
	for _, existing := range s.Recipients {
		if existing.Key() == ref.Key() {
			return false
		}
	}
	s.Recipients = append(s.Recipients, ref)
	return true
}

// RemoveRecipient drops a recipient by its (id, kind) identity.
func (s *Selection) RemoveRecipient(key tracker.RecipientKey) {
	out := s.Recipients[:0]
	for _, r := range s.Recipients {
		if r.Key() != key {
			out = append(out, r)
		}
	}
	s.Recipients = out
}

// SetRecipients replaces the recipient set, deduplicating by
// (id, kind) while keeping first-occurrence order.
func (s *Selection) SetRecipients(refs []tracker.RecipientRef) {
	seen := make(map[tracker.RecipientKey]bool, len(refs))
	out := make([]tracker.RecipientRef, 0, len(refs))
	for _, r := range refs {
		if seen[r.Key()] {
			continue
		}
		seen[r.Key()] = true
		out = append(out, r)
	}
	s.Recipients = out
}

// Clone returns an independent copy of the selection. Mutating the
// copy never touches the original.
func (s *Selection) Clone() *Selection {
	out := &Selection{
		Intent:          s.Intent,
		Creatives:       append([]tracker.EntityRef(nil), s.Creatives...),
		Managers:        append([]tracker.EntityRef(nil), s.Managers...),
		WritingSamples:  append([]tracker.EntityRef(nil), s.WritingSamples...),
		ProjectPersonal: s.ProjectPersonal,
		Recipients:      append([]tracker.RecipientRef(nil), s.Recipients...),
		Mandates:        append([]tracker.EntityRef(nil), s.Mandates...),
	}
	if s.Project != nil {
		project := *s.Project
		out.Project = &project
	}
	if s.Need != nil {
		need := *s.Need
		out.Need = &need
	}
	return out
}

func addRef(set []tracker.EntityRef, ref tracker.EntityRef) ([]tracker.EntityRef, bool) {
	for _, existing := range set {
		if existing.ID == ref.ID {
			return set, false
		}
	}
	return append(set, ref), true
}

func removeRef(set []tracker.EntityRef, id string) []tracker.EntityRef {
	out := set[:0]
	for _, ref := range set {
		if ref.ID != id {
			out = append(out, ref)
		}
	}
	return out
}

func dedupeRefs(refs []tracker.EntityRef) []tracker.EntityRef {
	seen := make(map[string]bool, len(refs))
	out := make([]tracker.EntityRef, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		out = append(out, ref)
	}
	return out
}
