package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/log"
	"github.com/slatecli/slate/internal/tracker"
)

const subFetchLimit = 4

// Picker identifies one entity picker fed by the resolver.
type Picker string

const (
	PickerCreatives  Picker = "creatives"
	PickerManagers   Picker = "managers"
	PickerProjects   Picker = "projects"
	PickerNeeds      Picker = "needs"
	PickerRecipients Picker = "recipients"
	PickerMandates   Picker = "mandates"
	PickerSamples    Picker = "samples"
)

// Option is one selectable row of a picker.
type Option struct {
	Ref    tracker.EntityRef
	Detail string
	// Recipient carries the resolved role and owning company; it is
	// set only on recipient options.
	Recipient *tracker.RecipientRef
	// Personal is set only on project options.
	Personal bool
}

// OptionGroup is an ordered bucket of options under one header. An
// empty label means the bucket renders without a header.
type OptionGroup struct {
	Label   string
	Options []Option
}

const otherGroup = "Other"

// Resolver computes the grouped candidate sets for each picker from
// the current selection and whatever the cache already holds. Cache
// misses fall back to live queries; a failed dependent lookup
// degrades to omitting its candidates, never to failing the whole
// resolution.
type Resolver struct {
	backend Backend
	cache   *Cache
	logger  *log.Logger
}

// NewResolver builds a resolver over the backend and cache.
func NewResolver(backend Backend, cache *Cache, logger *log.Logger) *Resolver {
	return &Resolver{
		backend: backend,
		cache:   cache,
		logger:  logger.With("component", "resolver"),
	}
}

// Resolve computes the candidate options for one picker. The query
// filters case-insensitively on labels and details.
func (r *Resolver) Resolve(ctx context.Context, picker Picker, query string, sel *Selection) ([]OptionGroup, error) {
	switch picker {
	case PickerCreatives:
		return r.flat(ctx, tracker.KindCreative, query)
	case PickerManagers:
		return r.flat(ctx, tracker.KindManager, query)
	case PickerProjects:
		return r.projects(ctx, query)
	case PickerNeeds:
		return r.needs(ctx, query, sel)
	case PickerRecipients:
		return r.recipients(ctx, query, sel)
	case PickerMandates:
		return r.mandates(ctx, query, sel)
	case PickerSamples:
		return r.samples(ctx, query, sel)
	}
	return nil, errors.New(errors.ErrCodeLookupUnknownKind, fmt.Sprintf("no picker named %q", picker))
}

// flat resolves a context-free collection into a single headerless
// bucket.
func (r *Resolver) flat(ctx context.Context, kind tracker.EntityKind, query string) ([]OptionGroup, error) {
	refs, ok := cached[[]tracker.EntityRef](r.cache, scopeAll(kind))
	if ok {
		refs = filterRefs(refs, query)
	} else {
		live, err := r.backend.SearchEntities(ctx, kind, query)
		if err != nil {
			return nil, errors.NewLookupFailedError(string(kind), err)
		}
		refs = live
	}

	options := make([]Option, 0, len(refs))
	for _, ref := range refs {
		options = append(options, Option{Ref: ref})
	}
	if len(options) == 0 {
		return nil, nil
	}
	return []OptionGroup{{Options: options}}, nil
}

// projects resolves the project picker, splitting tracked productions
// from personal development projects.
func (r *Resolver) projects(ctx context.Context, query string) ([]OptionGroup, error) {
	rows, ok := cached[[]tracker.Project](r.cache, scopeAll(tracker.KindProject))
	if !ok {
		live, err := r.backend.ListProjects(ctx, query)
		if err != nil {
			return nil, errors.NewLookupFailedError("projects", err)
		}
		rows = live
	}

	groups := newGroupBuilder("Projects", "Personal Projects")
	for _, project := range rows {
		if !matches(query, project.Title, "") {
			continue
		}
		label := "Projects"
		if project.Personal {
			label = "Personal Projects"
		}
		ref := project.Ref()
		ref.Group = label
		groups.add(label, Option{Ref: ref, Personal: project.Personal})
	}
	return groups.build(), nil
}

// needs resolves the staffing needs scoped to the chosen project.
// Without a project there is nothing to offer.
func (r *Resolver) needs(ctx context.Context, query string, sel *Selection) ([]OptionGroup, error) {
	if sel.Project == nil {
		return nil, nil
	}

	rows, ok := cached[[]tracker.Need](r.cache, scopeNeeds(sel.Project.ID))
	if !ok {
		live, err := r.backend.ListNeeds(ctx, sel.Project.ID)
		if err != nil {
			return nil, errors.NewLookupFailedError("needs", err)
		}
		rows = live
	}

	options := make([]Option, 0, len(rows))
	for _, need := range rows {
		if !matches(query, need.Description, need.Qualifications) {
			continue
		}
		options = append(options, Option{Ref: need.Ref(), Detail: need.Qualifications})
	}
	if len(options) == 0 {
		return nil, nil
	}
	return []OptionGroup{{Options: options}}, nil
}

// recipients resolves the recipient picker: executives grouped under
// the chosen project's companies first, then external reps grouped by
// agency, then creatives, with leftovers in a trailing Other bucket.
func (r *Resolver) recipients(ctx context.Context, query string, sel *Selection) ([]OptionGroup, error) {
	companies := r.companyContext(ctx, sel).All()

	executives := r.executivesPerCompany(ctx, companies)

	groups := newGroupBuilder()
	for i, company := range companies {
		for _, exec := range executives[i] {
			ref := exec
			ref.Group = company.Label
			groups.add(company.Label, Option{
				Ref: ref,
				Recipient: &tracker.RecipientRef{
					EntityRef: ref,
					Kind:      tracker.RecipientExecutive,
					CompanyID: company.ID,
				},
			})
		}
	}

	r.addExternalReps(ctx, groups, query)
	r.addCreativeRecipients(ctx, groups)

	deduped := dedupeRecipientGroups(groups.build())
	return filterGroups(deduped, query), nil
}

// companyContext returns the chosen project's linked companies,
// falling back to a live lookup on a cache miss. Failures degrade to
// an empty context.
func (r *Resolver) companyContext(ctx context.Context, sel *Selection) tracker.CompanyContext {
	if sel.Project == nil {
		return tracker.CompanyContext{}
	}
	if ctxt, ok := cached[tracker.CompanyContext](r.cache, scopeCompanyContext(sel.Project.ID)); ok {
		return ctxt
	}
	ctxt, err := r.backend.GetCompanyContext(ctx, sel.Project.ID)
	if err != nil {
		r.logger.Warn("company context lookup failed", "project", sel.Project.ID, "error", err)
		return tracker.CompanyContext{}
	}
	return ctxt
}

// executivesPerCompany fetches each company's executives
// concurrently. A failed sub-fetch omits that company's candidates.
func (r *Resolver) executivesPerCompany(ctx context.Context, companies []tracker.CompanyRef) [][]tracker.EntityRef {
	results := make([][]tracker.EntityRef, len(companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(subFetchLimit)
	for i, company := range companies {
		i, company := i, company
		if rows, ok := cached[[]tracker.EntityRef](r.cache, scopeExecutives(company.ID)); ok {
			results[i] = rows
			continue
		}
		g.Go(func() error {
			rows, err := r.backend.ListExecutivesAtCompany(gctx, company.ID)
			if err != nil {
				r.logger.Warn("executive lookup failed", "company", company.ID, "error", err)
				return nil
			}
			results[i] = rows
			return nil
		})
	}
	g.Wait() //nolint:errcheck // sub-fetch failures degrade to omission

	return results
}

func (r *Resolver) addExternalReps(ctx context.Context, groups *groupBuilder, query string) {
	reps, ok := cached[[]tracker.ExternalRep](r.cache, scopeAll(tracker.KindExternalRep))
	if !ok {
		live, err := r.backend.ListExternalReps(ctx, query)
		if err != nil {
			r.logger.Warn("external rep lookup failed", "error", err)
			return
		}
		reps = live
	}

	agencies := make([]string, 0)
	byAgency := make(map[string][]tracker.ExternalRep)
	for _, rep := range reps {
		label := rep.AgencyName
		if label == "" {
			label = otherGroup
		}
		if _, seen := byAgency[label]; !seen {
			agencies = append(agencies, label)
		}
		byAgency[label] = append(byAgency[label], rep)
	}
	sort.Strings(agencies)

	for _, agency := range agencies {
		for _, rep := range byAgency[agency] {
			ref := rep.Ref()
			ref.Group = agency
			groups.add(agency, Option{
				Ref:    ref,
				Detail: rep.AgencyName,
				Recipient: &tracker.RecipientRef{
					EntityRef: ref,
					Kind:      tracker.RecipientExternalRep,
					CompanyID: rep.AgencyID,
				},
			})
		}
	}
}

func (r *Resolver) addCreativeRecipients(ctx context.Context, groups *groupBuilder) {
	refs, ok := cached[[]tracker.EntityRef](r.cache, scopeAll(tracker.KindCreative))
	if !ok {
		live, err := r.backend.ListAll(ctx, tracker.KindCreative)
		if err != nil {
			r.logger.Warn("creative lookup failed", "error", err)
			return
		}
		refs = live
	}

	for _, creative := range refs {
		ref := creative
		ref.Group = "Creatives"
		groups.add("Creatives", Option{
			Ref: ref,
			Recipient: &tracker.RecipientRef{
				EntityRef: ref,
				Kind:      tracker.RecipientCreative,
			},
		})
	}
}

// mandates resolves the mandate picker, grouped by the owning
// company's resolved display name. Group headers never show a raw
// company id: a company whose name cannot be resolved is omitted
// along with its mandates.
func (r *Resolver) mandates(ctx context.Context, query string, sel *Selection) ([]OptionGroup, error) {
	companies := r.companyContext(ctx, sel).All()
	names := make(map[string]string, len(companies))
	for _, company := range companies {
		names[company.ID] = company.Label
	}

	resolved := make([]tracker.CompanyRef, 0, len(companies))
	for _, company := range companies {
		if names[company.ID] == "" {
			name, err := r.companyName(ctx, company.ID)
			if err != nil {
				r.logger.Warn("company name lookup failed", "company", company.ID, "error", err)
				continue
			}
			names[company.ID] = name
			company.Label = name
		}
		resolved = append(resolved, company)
	}

	perCompany := r.mandatesPerCompany(ctx, resolved)

	groups := newGroupBuilder()
	for i, company := range resolved {
		for _, mandate := range perCompany[i] {
			if !matches(query, mandate.Name, mandate.Description) {
				continue
			}
			ref := mandate.Ref()
			ref.Group = names[company.ID]
			groups.add(names[company.ID], Option{Ref: ref, Detail: mandate.Description})
		}
	}
	return groups.build(), nil
}

// companyName resolves one company's display name, caching the
// lookup for the session.
func (r *Resolver) companyName(ctx context.Context, companyID string) (string, error) {
	if company, ok := cached[tracker.CompanyRef](r.cache, scopeCompany(companyID)); ok {
		return company.Label, nil
	}
	company, err := r.backend.GetCompany(ctx, companyID)
	if err != nil {
		return "", err
	}
	r.cache.Put(scopeCompany(companyID), company)
	return company.Label, nil
}

func (r *Resolver) mandatesPerCompany(ctx context.Context, companies []tracker.CompanyRef) [][]tracker.Mandate {
	results := make([][]tracker.Mandate, len(companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(subFetchLimit)
	for i, company := range companies {
		i, company := i, company
		if rows, ok := cached[[]tracker.Mandate](r.cache, scopeMandates(company.ID)); ok {
			results[i] = rows
			continue
		}
		g.Go(func() error {
			rows, err := r.backend.ListMandatesAtCompany(gctx, company.ID)
			if err != nil {
				r.logger.Warn("mandate lookup failed", "company", company.ID, "error", err)
				return nil
			}
			results[i] = rows
			return nil
		})
	}
	g.Wait() //nolint:errcheck // sub-fetch failures degrade to omission

	return results
}

// samples resolves the writing sample picker, prioritizing samples by
// their relation to the chosen creatives and project.
func (r *Resolver) samples(ctx context.Context, query string, sel *Selection) ([]OptionGroup, error) {
	rows, ok := cached[[]tracker.WritingSample](r.cache, scopeAll(tracker.KindWritingSample))
	if !ok {
		live, err := r.backend.ListWritingSamples(ctx, query)
		if err != nil {
			return nil, errors.NewLookupFailedError("writing samples", err)
		}
		rows = live
	}

	byCreative := make(map[string]string, len(sel.Creatives))
	for _, creative := range sel.Creatives {
		byCreative[creative.ID] = creative.Label
	}

	priority := make([]string, 0, len(sel.Creatives)+1)
	for _, creative := range sel.Creatives {
		priority = append(priority, creative.Label)
	}
	if sel.Project != nil {
		priority = append(priority, sel.Project.Label)
	}

	groups := newGroupBuilder(priority...)
	for _, sample := range rows {
		ref := sample.Ref()
		if !matches(query, ref.Label, sample.Filename) {
			continue
		}

		label := otherGroup
		if name, ok := byCreative[sample.CreativeID]; ok {
			label = name
		} else if sel.Project != nil && sample.ProjectID == sel.Project.ID {
			label = sel.Project.Label
		}
		ref.Group = label

		detail := sample.Filename
		if detail == ref.Label {
			detail = ""
		}
		groups.add(label, Option{Ref: ref, Detail: detail})
	}
	return groups.build(), nil
}

// groupBuilder assembles ordered option groups. Seed labels fix the
// head of the ordering; the rest follow in insertion order, with
// Other always last.
type groupBuilder struct {
	order  []string
	groups map[string][]Option
}

func newGroupBuilder(seed ...string) *groupBuilder {
	b := &groupBuilder{groups: make(map[string][]Option)}
	for _, label := range seed {
		if _, ok := b.groups[label]; !ok {
			b.order = append(b.order, label)
			b.groups[label] = nil
		}
	}
	return b
}

func (b *groupBuilder) add(label string, opt Option) {
	if _, ok := b.groups[label]; !ok {
		b.order = append(b.order, label)
	}
	b.groups[label] = append(b.groups[label], opt)
}

// build emits non-empty groups in order, moving Other to the end. A
// lone Other bucket loses its header instead of showing a catch-all
// label over everything.
func (b *groupBuilder) build() []OptionGroup {
	out := make([]OptionGroup, 0, len(b.order))
	var other []Option
	for _, label := range b.order {
		options := b.groups[label]
		if len(options) == 0 {
			continue
		}
		if label == otherGroup {
			other = options
			continue
		}
		out = append(out, OptionGroup{Label: label, Options: options})
	}
	if len(other) > 0 {
		if len(out) == 0 {
			return []OptionGroup{{Options: other}}
		}
		out = append(out, OptionGroup{Label: otherGroup, Options: other})
	}
	return out
}

// dedupeRecipientGroups enforces the (id, kind) identity across
// groups: when the same recipient surfaces twice, the later placement
// wins, so refreshed company data overwrites a stale grouping rather
// than duplicating the entry.
func dedupeRecipientGroups(groups []OptionGroup) []OptionGroup {
	type position struct{ group, option int }
	last := make(map[tracker.RecipientKey]position)
	for gi, group := range groups {
		for oi, opt := range group.Options {
			if opt.Recipient == nil {
				continue
			}
			last[opt.Recipient.Key()] = position{group: gi, option: oi}
		}
	}

	out := make([]OptionGroup, 0, len(groups))
	for gi, group := range groups {
		kept := make([]Option, 0, len(group.Options))
		for oi, opt := range group.Options {
			if opt.Recipient != nil {
				if pos := last[opt.Recipient.Key()]; pos.group != gi || pos.option != oi {
					continue
				}
			}
			kept = append(kept, opt)
		}
		if len(kept) > 0 {
			out = append(out, OptionGroup{Label: group.Label, Options: kept})
		}
	}
	return out
}

// filterGroups drops options whose label and detail both miss the
// query, then drops groups left empty.
func filterGroups(groups []OptionGroup, query string) []OptionGroup {
	if query == "" {
		return groups
	}
	out := make([]OptionGroup, 0, len(groups))
	for _, group := range groups {
		kept := make([]Option, 0, len(group.Options))
		for _, opt := range group.Options {
			if matches(query, opt.Ref.Label, opt.Detail) {
				kept = append(kept, opt)
			}
		}
		if len(kept) > 0 {
			out = append(out, OptionGroup{Label: group.Label, Options: kept})
		}
	}
	return out
}

func filterRefs(refs []tracker.EntityRef, query string) []tracker.EntityRef {
	if query == "" {
		return refs
	}
	out := make([]tracker.EntityRef, 0, len(refs))
	for _, ref := range refs {
		if matches(query, ref.Label, "") {
			out = append(out, ref)
		}
	}
	return out
}

func matches(query string, label, detail string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(label), q) ||
		strings.Contains(strings.ToLower(detail), q)
}
