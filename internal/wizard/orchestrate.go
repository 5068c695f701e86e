package wizard

import (
	"context"
	"fmt"

	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/tracker"
)

// CreateProject creates a project from inside the project picker and
// selects it. A personal project carries the chosen creatives so the
// server attaches them as owners during the create. The cached
// projects list is replaced wholesale so the new row shows up
// without a refetch.
func (e *Engine) CreateProject(ctx context.Context, name string, personal bool) (tracker.EntityRef, error) {
	if e.session.Closed {
		return tracker.EntityRef{}, errors.NewWizardClosedError()
	}

	req := tracker.NewProject{Name: name, Personal: personal}
	if personal {
		req.CreativeIDs = refIDs(e.session.Selection.Creatives)
	}

	ref, err := e.backend.CreateProject(ctx, req)
	if err != nil {
		return tracker.EntityRef{}, errors.Wrap(errors.ErrCodeCreateFailed,
			fmt.Sprintf("failed to create project %q", name), err)
	}

	if rows, ok := cached[[]tracker.Project](e.cache, scopeAll(tracker.KindProject)); ok {
		rows = append(rows, tracker.Project{ID: ref.ID, Title: ref.Label, Personal: personal})
		e.cache.Put(scopeAll(tracker.KindProject), rows)
	}

	e.SetProject(ref, personal)
	e.logger.Info("project created", "project", ref.ID, "personal", personal)
	return ref, nil
}

// CreateNeeds creates one or more staffing needs on the current
// project. Every created row lands in the cached needs list; the
// first one becomes the selected need.
func (e *Engine) CreateNeeds(ctx context.Context, rows []tracker.NeedRow) ([]tracker.Need, error) {
	if e.session.Closed {
		return nil, errors.NewWizardClosedError()
	}
	sel := e.session.Selection
	if sel.Project == nil {
		return nil, errors.New(errors.ErrCodeCreateFailed, "select a project before creating needs")
	}

	created, err := e.backend.CreateNeeds(ctx, sel.Project.ID, rows)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCreateFailed, "failed to create staffing needs", err)
	}

	scope := scopeNeeds(sel.Project.ID)
	if existing, ok := cached[[]tracker.Need](e.cache, scope); ok {
		e.cache.Put(scope, append(existing, created...))
	}

	if len(created) > 0 {
		e.SetNeed(created[0].Ref())
	}
	e.logger.Info("needs created", "project", sel.Project.ID, "count", len(created))
	return created, nil
}

// CreateMandate creates a mandate at one of the project's companies
// and adds it to the selection. The company's cached mandate list is
// replaced wholesale.
func (e *Engine) CreateMandate(ctx context.Context, req tracker.NewMandate) (tracker.Mandate, error) {
	if e.session.Closed {
		return tracker.Mandate{}, errors.NewWizardClosedError()
	}

	created, err := e.backend.CreateMandate(ctx, req)
	if err != nil {
		return tracker.Mandate{}, errors.Wrap(errors.ErrCodeCreateFailed,
			fmt.Sprintf("failed to create mandate %q", req.Name), err)
	}

	scope := scopeMandates(req.CompanyID)
	if existing, ok := cached[[]tracker.Mandate](e.cache, scope); ok {
		e.cache.Put(scope, append(existing, created))
	}

	e.session.Selection.AddMandate(created.Ref())
	e.logger.Info("mandate created", "mandate", created.ID, "company", req.CompanyID)
	return created, nil
}

// Save validates the whole selection, builds the payload, performs
// the pre-submit side effects, and creates the submission. On any
// failure the session stays open with the selection intact so the
// operator can fix and retry; on success the session closes.
func (e *Engine) Save(ctx context.Context) (tracker.CreatedSub, error) {
	if e.session.Closed {
		return tracker.CreatedSub{}, errors.NewWizardClosedError()
	}
	if e.nested {
		return tracker.CreatedSub{}, errors.New(errors.ErrCodeWizardNestedPending, "finish the open quick-create flow first")
	}

	sel := e.session.Selection
	if errs := Validate(sel, e.session.Steps); len(errs) > 0 {
		e.session.SubmitAttempted = true
		return tracker.CreatedSub{}, errors.NewWizardNotCompleteError(sortedFields(errs))
	}

	payload := BuildPayload(sel, e.createdBy)

	// Personal projects are owned by their creatives. Attach each one
	// as a creative developer first; an existing link is fine.
	if sel.ProjectPersonal && sel.Project != nil {
		for _, creative := range sel.Creatives {
			err := e.backend.AttachProjectCreative(ctx, sel.Project.ID, creative.ID, tracker.CreativeDeveloperRole)
			if err != nil {
				if errors.HasCode(err, errors.ErrCodeAttachConflict) {
					e.logger.Debug("creative already attached", "project", sel.Project.ID, "creative", creative.ID)
					continue
				}
				return tracker.CreatedSub{}, errors.Wrap(errors.ErrCodeAttachFailed,
					fmt.Sprintf("failed to attach creative %s to project %s", creative.ID, sel.Project.ID), err)
			}
		}
	}

	created, err := e.backend.CreateSubmission(ctx, payload)
	if err != nil {
		return tracker.CreatedSub{}, errors.NewSubmitFailedError(err)
	}

	e.session.Closed = true
	e.prefetch.Close()
	e.logger.Info("submission created", "submission", created.ID, "session", e.session.ID)
	return created, nil
}
