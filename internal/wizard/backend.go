package wizard

import (
	"context"

	"github.com/slatecli/slate/internal/tracker"
)

// Backend is the slice of the tracker API the wizard consumes. The
// HTTP client satisfies it; tests substitute in-memory fakes.
type Backend interface {
	SearchEntities(ctx context.Context, kind tracker.EntityKind, query string) ([]tracker.EntityRef, error)
	ListAll(ctx context.Context, kind tracker.EntityKind) ([]tracker.EntityRef, error)
	ListProjects(ctx context.Context, query string) ([]tracker.Project, error)
	GetCompanyContext(ctx context.Context, projectID string) (tracker.CompanyContext, error)
	GetCompany(ctx context.Context, companyID string) (tracker.CompanyRef, error)
	ListExecutivesAtCompany(ctx context.Context, companyID string) ([]tracker.EntityRef, error)
	ListExternalReps(ctx context.Context, query string) ([]tracker.ExternalRep, error)
	ListWritingSamples(ctx context.Context, query string) ([]tracker.WritingSample, error)
	ListMandatesAtCompany(ctx context.Context, companyID string) ([]tracker.Mandate, error)
	ListNeeds(ctx context.Context, projectID string) ([]tracker.Need, error)
	CreateNeeds(ctx context.Context, projectID string, rows []tracker.NeedRow) ([]tracker.Need, error)
	CreateProject(ctx context.Context, project tracker.NewProject) (tracker.EntityRef, error)
	CreateMandate(ctx context.Context, mandate tracker.NewMandate) (tracker.Mandate, error)
	AttachProjectCreative(ctx context.Context, projectID, creativeID, role string) error
	CreateSubmission(ctx context.Context, payload tracker.SubmissionPayload) (tracker.CreatedSub, error)
}
