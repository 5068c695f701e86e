package wizard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/log"
	"github.com/slatecli/slate/internal/tracker"
)

// Options configures an opened wizard session.
type Options struct {
	// Initial pre-seeds the selection with caller-supplied defaults.
	// It is copied; the caller's value is never mutated.
	Initial *Selection
	// CreatedBy is the operator recorded on the submission.
	CreatedBy string
	CacheSize int
	CacheTTL  time.Duration
	// PrefetchLimit bounds concurrent background fetches.
	PrefetchLimit int
	Logger        *log.Logger
}

// Session is the mutable state of one open wizard.
type Session struct {
	ID              string
	Selection       *Selection
	Steps           []StepDescriptor
	Current         int
	SubmitAttempted bool
	Closed          bool
}

// Engine drives one wizard session: it owns the selection, the step
// sequence, the option cache, and the background prefetcher. All
// selection writes go through engine methods so the dependent
// invalidation and prefetch side effects always fire.
type Engine struct {
	backend   Backend
	logger    *log.Logger
	cache     *Cache
	prefetch  *Prefetcher
	resolver  *Resolver
	createdBy string
	nested    bool

	session *Session
}

// Open starts a wizard session and begins warming the option lists
// the first steps will need. ctx bounds all background work for the
// session's lifetime.
func Open(ctx context.Context, backend Backend, opts Options) (*Engine, error) {
	if backend == nil {
		return nil, fmt.Errorf("wizard: backend is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Global()
	}
	logger = logger.With("component", "wizard")

	cache, err := NewCache(opts.CacheSize, opts.CacheTTL)
	if err != nil {
		return nil, err
	}

	sel := &Selection{}
	if opts.Initial != nil {
		sel = opts.Initial.Clone()
	}

	e := &Engine{
		backend:   backend,
		logger:    logger,
		cache:     cache,
		prefetch:  NewPrefetcher(ctx, cache, opts.PrefetchLimit, logger),
		createdBy: opts.CreatedBy,
		session: &Session{
			ID:        uuid.New().String(),
			Selection: sel,
			Steps:     sequenceFor(sel),
			Current:   0,
		},
	}
	e.resolver = NewResolver(backend, cache, logger)

	e.prefetchAhead()
	if sel.Project != nil {
		e.prefetchProjectScopes()
	}
	logger.Debug("wizard opened", "session", e.session.ID, "steps", len(e.session.Steps))
	return e, nil
}

// Session returns the current session.
func (e *Engine) Session() *Session {
	return e.session
}

// Selection exposes the live selection for reads. Writes go through
// the engine's mutators.
func (e *Engine) Selection() *Selection {
	return e.session.Selection
}

// Steps returns the active step sequence.
func (e *Engine) Steps() []StepDescriptor {
	return e.session.Steps
}

// CurrentStep returns the step the user is on.
func (e *Engine) CurrentStep() StepDescriptor {
	return e.session.Steps[e.session.Current]
}

// CurrentIndex returns the current step's position.
func (e *Engine) CurrentIndex() int {
	return e.session.Current
}

// AtLastStep reports whether the user is on the review step, where
// Save is the only forward action.
func (e *Engine) AtLastStep() bool {
	return e.session.Current == len(e.session.Steps)-1
}

// Progress returns the current progress as a percentage.
func (e *Engine) Progress() float64 {
	if len(e.session.Steps) == 0 {
		return 100.0
	}
	return float64(e.session.Current) / float64(len(e.session.Steps)) * 100.0
}

// Next advances to the following step when the current one is ready.
// A blocked advance marks errors visible so the host renders them
// inline; a successful advance hides them again and warms the next
// step's options.
func (e *Engine) Next() error {
	if e.session.Closed {
		return errors.NewWizardClosedError()
	}
	if e.nested {
		return errors.New(errors.ErrCodeWizardNestedPending, "finish the open quick-create flow first")
	}

	step := e.CurrentStep()
	if errs := stepErrors(step.Key, e.session.Selection); len(errs) > 0 {
		e.session.SubmitAttempted = true
		return errors.NewStepNotReadyError(string(step.Key), sortedFields(errs))
	}

	if e.session.Current < len(e.session.Steps)-1 {
		e.session.Current++
		e.session.SubmitAttempted = false
		e.prefetchAhead()
	}
	return nil
}

// Back returns to the previous step. It always succeeds; the floor
// is the first step.
func (e *Engine) Back() {
	if e.session.Current > 0 {
		e.session.Current--
	}
}

// Cancel closes the session and discards its state. Completions of
// in-flight background fetches become no-ops.
func (e *Engine) Cancel() {
	if e.session.Closed {
		return
	}
	e.session.Closed = true
	e.prefetch.Close()
	e.logger.Debug("wizard canceled", "session", e.session.ID)
}

// BeginNested suspends Next and Save while a quick-create flow is
// open on top of a picker.
func (e *Engine) BeginNested() {
	e.nested = true
}

// EndNested lifts the suspension. Called on both confirm and cancel
// of the nested flow.
func (e *Engine) EndNested() {
	e.nested = false
}

// FieldErrors reports the failing fields for inline rendering. It
// stays empty until an advance or submit was blocked, so a pristine
// form does not open covered in errors.
func (e *Engine) FieldErrors() FieldErrors {
	if !e.session.SubmitAttempted {
		return FieldErrors{}
	}
	return Validate(e.session.Selection, e.session.Steps)
}

// CanSubmit re-validates every step of the active sequence against
// the full selection.
func (e *Engine) CanSubmit() bool {
	return CanSubmit(e.session.Selection, e.session.Steps)
}

// Options resolves the grouped candidates for one picker at the
// current selection.
func (e *Engine) Options(ctx context.Context, picker Picker, query string) ([]OptionGroup, error) {
	if e.session.Closed {
		return nil, errors.NewWizardClosedError()
	}
	return e.resolver.Resolve(ctx, picker, query, e.session.Selection)
}

// Companies returns the chosen project's linked companies for hosts
// that scope an action to one of them. Empty without a project.
func (e *Engine) Companies(ctx context.Context) []tracker.CompanyRef {
	return e.resolver.companyContext(ctx, e.session.Selection).All()
}

// SetIntent records what the submission is for.
func (e *Engine) SetIntent(intent tracker.Intent) {
	e.session.Selection.SetIntent(intent)
}

// SetCreatives replaces the selected creatives.
func (e *Engine) SetCreatives(refs []tracker.EntityRef) {
	e.session.Selection.SetCreatives(refs)
}

// SetManagers replaces the selected originating managers.
func (e *Engine) SetManagers(refs []tracker.EntityRef) {
	e.session.Selection.SetManagers(refs)
}

// SetWritingSamples replaces the selected writing samples.
func (e *Engine) SetWritingSamples(refs []tracker.EntityRef) {
	e.session.Selection.SetWritingSamples(refs)
}

// SetMandates replaces the selected mandates.
func (e *Engine) SetMandates(refs []tracker.EntityRef) {
	e.session.Selection.SetMandates(refs)
}

// SetRecipients replaces the selected recipients.
func (e *Engine) SetRecipients(refs []tracker.RecipientRef) {
	e.session.Selection.SetRecipients(refs)
}

// AddRecipient appends one recipient; re-adding the same (id, kind)
// is a no-op.
func (e *Engine) AddRecipient(ref tracker.RecipientRef) bool {
	return e.session.Selection.AddRecipient(ref)
}

// SetProject records the chosen project. Switching projects
// invalidates everything scoped to the old one: the need clears,
// in-flight prefetches are discarded, fresh project-scoped fetches
// start, and the step sequence is recomputed when the personal flag
// flipped.
func (e *Engine) SetProject(ref tracker.EntityRef, personal bool) {
	sel := e.session.Selection
	changed := sel.Project == nil || sel.Project.ID != ref.ID
	branched := sel.ProjectPersonal != personal

	sel.SetProject(ref, personal)

	if changed {
		e.prefetch.Invalidate()
		e.prefetchProjectScopes()
	}
	if branched {
		e.resequence()
	}
}

// ClearProject drops the project and everything scoped to it.
func (e *Engine) ClearProject() {
	sel := e.session.Selection
	branched := sel.ProjectPersonal

	sel.ClearProject()
	e.prefetch.Invalidate()

	if branched {
		e.resequence()
	}
}

// SetNeed chooses a staffing need on the current project.
func (e *Engine) SetNeed(ref tracker.EntityRef) {
	e.session.Selection.SetNeed(ref)
}

// ClearNeed drops the chosen need.
func (e *Engine) ClearNeed() {
	e.session.Selection.ClearNeed()
}

// resequence recomputes the step sequence after the branching field
// changed and clamps the index into the new range.
func (e *Engine) resequence() {
	e.session.Steps = sequenceFor(e.session.Selection)
	e.session.Current = clampIndex(e.session.Current, len(e.session.Steps))
	e.prefetchAhead()
}

// prefetchAhead warms the data for the current step and the one
// after it, so arriving there filters locally instead of waiting on
// the network.
func (e *Engine) prefetchAhead() {
	steps := e.session.Steps
	e.prefetchStep(steps[e.session.Current].Key)
	if next := e.session.Current + 1; next < len(steps) {
		e.prefetchStep(steps[next].Key)
	}
}

func (e *Engine) prefetchStep(key StepKey) {
	switch key {
	case StepCreatives:
		e.ensureAll(tracker.KindCreative)
	case StepProject:
		e.prefetch.Ensure(Fetch{
			Scope: scopeAll(tracker.KindProject),
			Run: func(ctx context.Context) (any, error) {
				return e.backend.ListProjects(ctx, "")
			},
		})
	case StepNeed:
		e.prefetchProjectScopes()
	case StepRecipients:
		e.prefetch.Ensure(Fetch{
			Scope: scopeAll(tracker.KindExternalRep),
			Run: func(ctx context.Context) (any, error) {
				return e.backend.ListExternalReps(ctx, "")
			},
		})
		e.ensureAll(tracker.KindCreative)
		e.prefetchProjectScopes()
	case StepMandates:
		e.prefetchProjectScopes()
	case StepMaterials:
		e.prefetch.Ensure(Fetch{
			Scope: scopeAll(tracker.KindWritingSample),
			Run: func(ctx context.Context) (any, error) {
				return e.backend.ListWritingSamples(ctx, "")
			},
		})
		e.ensureAll(tracker.KindManager)
	}
}

func (e *Engine) ensureAll(kind tracker.EntityKind) {
	e.prefetch.Ensure(Fetch{
		Scope: scopeAll(kind),
		Run: func(ctx context.Context) (any, error) {
			return e.backend.ListAll(ctx, kind)
		},
	})
}

// prefetchProjectScopes warms everything derived from the chosen
// project: company context first, then each linked company's
// executives (and mandates, when the flow has a mandate step), plus
// the project's needs.
func (e *Engine) prefetchProjectScopes() {
	sel := e.session.Selection
	if sel.Project == nil {
		return
	}
	projectID := sel.Project.ID
	personal := sel.ProjectPersonal

	if !personal {
		e.prefetch.Ensure(Fetch{
			Scope: scopeNeeds(projectID),
			Run: func(ctx context.Context) (any, error) {
				return e.backend.ListNeeds(ctx, projectID)
			},
		})
	}

	e.prefetch.Ensure(Fetch{
		Scope: scopeCompanyContext(projectID),
		Run: func(ctx context.Context) (any, error) {
			return e.backend.GetCompanyContext(ctx, projectID)
		},
		Then: func(rows any) {
			ctxt, ok := rows.(tracker.CompanyContext)
			if !ok {
				return
			}
			for _, company := range ctxt.All() {
				companyID := company.ID
				e.prefetch.Ensure(Fetch{
					Scope: scopeExecutives(companyID),
					Run: func(ctx context.Context) (any, error) {
						return e.backend.ListExecutivesAtCompany(ctx, companyID)
					},
				})
				if !personal {
					e.prefetch.Ensure(Fetch{
						Scope: scopeMandates(companyID),
						Run: func(ctx context.Context) (any, error) {
							return e.backend.ListMandatesAtCompany(ctx, companyID)
						},
					})
				}
			}
		},
	})
}

func sortedFields(errs FieldErrors) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
