package wizard

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/slatecli/slate/internal/log"
	"github.com/slatecli/slate/internal/tracker"
)

// fakeBackend implements Backend with per-call hooks. Unset hooks
// return empty results so each test wires only what it asserts on.
// Hooks may be called from prefetch goroutines; hooks that mutate
// shared state must synchronize.
type fakeBackend struct {
	searchEntities    func(ctx context.Context, kind tracker.EntityKind, query string) ([]tracker.EntityRef, error)
	listAll           func(ctx context.Context, kind tracker.EntityKind) ([]tracker.EntityRef, error)
	listProjects      func(ctx context.Context, query string) ([]tracker.Project, error)
	getCompanyContext func(ctx context.Context, projectID string) (tracker.CompanyContext, error)
	getCompany        func(ctx context.Context, companyID string) (tracker.CompanyRef, error)
	listExecutives    func(ctx context.Context, companyID string) ([]tracker.EntityRef, error)
	listExternalReps  func(ctx context.Context, query string) ([]tracker.ExternalRep, error)
	listSamples       func(ctx context.Context, query string) ([]tracker.WritingSample, error)
	listMandates      func(ctx context.Context, companyID string) ([]tracker.Mandate, error)
	listNeeds         func(ctx context.Context, projectID string) ([]tracker.Need, error)
	createNeeds       func(ctx context.Context, projectID string, rows []tracker.NeedRow) ([]tracker.Need, error)
	createProject     func(ctx context.Context, project tracker.NewProject) (tracker.EntityRef, error)
	createMandate     func(ctx context.Context, mandate tracker.NewMandate) (tracker.Mandate, error)
	attachCreative    func(ctx context.Context, projectID, creativeID, role string) error
	createSubmission  func(ctx context.Context, payload tracker.SubmissionPayload) (tracker.CreatedSub, error)
}

func (f *fakeBackend) SearchEntities(ctx context.Context, kind tracker.EntityKind, query string) ([]tracker.EntityRef, error) {
	if f.searchEntities != nil {
		return f.searchEntities(ctx, kind, query)
	}
	return nil, nil
}

func (f *fakeBackend) ListAll(ctx context.Context, kind tracker.EntityKind) ([]tracker.EntityRef, error) {
	if f.listAll != nil {
		return f.listAll(ctx, kind)
	}
	return nil, nil
}

func (f *fakeBackend) ListProjects(ctx context.Context, query string) ([]tracker.Project, error) {
	if f.listProjects != nil {
		return f.listProjects(ctx, query)
	}
	return nil, nil
}

func (f *fakeBackend) GetCompanyContext(ctx context.Context, projectID string) (tracker.CompanyContext, error) {
	if f.getCompanyContext != nil {
		return f.getCompanyContext(ctx, projectID)
	}
	return tracker.CompanyContext{}, nil
}

func (f *fakeBackend) GetCompany(ctx context.Context, companyID string) (tracker.CompanyRef, error) {
	if f.getCompany != nil {
		return f.getCompany(ctx, companyID)
	}
	return tracker.CompanyRef{}, nil
}

func (f *fakeBackend) ListExecutivesAtCompany(ctx context.Context, companyID string) ([]tracker.EntityRef, error) {
	if f.listExecutives != nil {
		return f.listExecutives(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeBackend) ListExternalReps(ctx context.Context, query string) ([]tracker.ExternalRep, error) {
	if f.listExternalReps != nil {
		return f.listExternalReps(ctx, query)
	}
	return nil, nil
}

func (f *fakeBackend) ListWritingSamples(ctx context.Context, query string) ([]tracker.WritingSample, error) {
	if f.listSamples != nil {
		return f.listSamples(ctx, query)
	}
	return nil, nil
}

func (f *fakeBackend) ListMandatesAtCompany(ctx context.Context, companyID string) ([]tracker.Mandate, error) {
	if f.listMandates != nil {
		return f.listMandates(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeBackend) ListNeeds(ctx context.Context, projectID string) ([]tracker.Need, error) {
	if f.listNeeds != nil {
		return f.listNeeds(ctx, projectID)
	}
	return nil, nil
}

func (f *fakeBackend) CreateNeeds(ctx context.Context, projectID string, rows []tracker.NeedRow) ([]tracker.Need, error) {
	if f.createNeeds != nil {
		return f.createNeeds(ctx, projectID, rows)
	}
	return nil, nil
}

func (f *fakeBackend) CreateProject(ctx context.Context, project tracker.NewProject) (tracker.EntityRef, error) {
	if f.createProject != nil {
		return f.createProject(ctx, project)
	}
	return tracker.EntityRef{}, nil
}

func (f *fakeBackend) CreateMandate(ctx context.Context, mandate tracker.NewMandate) (tracker.Mandate, error) {
	if f.createMandate != nil {
		return f.createMandate(ctx, mandate)
	}
	return tracker.Mandate{}, nil
}

func (f *fakeBackend) AttachProjectCreative(ctx context.Context, projectID, creativeID, role string) error {
	if f.attachCreative != nil {
		return f.attachCreative(ctx, projectID, creativeID, role)
	}
	return nil
}

func (f *fakeBackend) CreateSubmission(ctx context.Context, payload tracker.SubmissionPayload) (tracker.CreatedSub, error) {
	if f.createSubmission != nil {
		return f.createSubmission(ctx, payload)
	}
	return tracker.CreatedSub{}, nil
}

func company(id, label string) tracker.CompanyRef {
	return tracker.CompanyRef{EntityRef: tracker.EntityRef{ID: id, Label: label}}
}

func testLogger() *log.Logger {
	return log.New(log.Config{
		Level:  log.LevelError,
		Format: log.FormatText,
		Output: log.NewOutput(io.Discard),
	})
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(32, time.Minute)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	return cache
}

func newTestEngine(t *testing.T, backend Backend, opts Options) *Engine {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	engine, err := Open(context.Background(), backend, opts)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(engine.Cancel)
	return engine
}
