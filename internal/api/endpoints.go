package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/slatecli/slate/internal/errors"
	"github.com/slatecli/slate/internal/tracker"
)

// entityRow is the common wire shape of list/search rows. Collections
// label their records differently (people have names, projects have
// titles, samples have filenames); Label() normalizes that.
type entityRow struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Filename string `json:"filename,omitempty"`
}

func (r entityRow) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Title != "":
		return r.Title
	default:
		return r.Filename
	}
}

func refsFromRows(rows []entityRow) []tracker.EntityRef {
	refs := make([]tracker.EntityRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, tracker.EntityRef{ID: row.ID, Label: row.Label()})
	}
	return refs
}

// collectionPath maps an entity kind to its tracker route.
func collectionPath(kind tracker.EntityKind) (string, error) {
	switch kind {
	case tracker.KindCreative:
		return "/creatives", nil
	case tracker.KindProject:
		return "/projects", nil
	case tracker.KindExecutive:
		return "/executives", nil
	case tracker.KindExternalRep:
		return "/external_reps", nil
	case tracker.KindManager:
		return "/managers", nil
	case tracker.KindWritingSample:
		return "/writing_samples", nil
	}
	return "", errors.New(errors.ErrCodeLookupUnknownKind, fmt.Sprintf("no tracker collection for kind %q", kind))
}

// SearchEntities runs a filtered lookup against one collection.
func (c *Client) SearchEntities(ctx context.Context, kind tracker.EntityKind, query string) ([]tracker.EntityRef, error) {
	path, err := collectionPath(kind)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}

	var rows []entityRow
	if err := c.do(ctx, http.MethodGet, path, params, nil, &rows); err != nil {
		return nil, err
	}
	return refsFromRows(rows), nil
}

// ListAll runs the wide, unfiltered fetch of one collection. The
// prefetcher uses it to warm caches before a step needs them.
func (c *Client) ListAll(ctx context.Context, kind tracker.EntityKind) ([]tracker.EntityRef, error) {
	return c.SearchEntities(ctx, kind, "")
}

// ListProjects runs a filtered project lookup. Unlike the generic
// search it keeps the is_personal flag, which drives the wizard's
// step sequencing.
func (c *Client) ListProjects(ctx context.Context, query string) ([]tracker.Project, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}

	var projects []tracker.Project
	if err := c.do(ctx, http.MethodGet, "/projects", params, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetCompanyContext returns the companies linked to a project.
// Company types arrive explicitly per collection.
func (c *Client) GetCompanyContext(ctx context.Context, projectID string) (tracker.CompanyContext, error) {
	var resp struct {
		Networks []entityRow `json:"networks"`
		Studios  []entityRow `json:"studios"`
		Prodcos  []entityRow `json:"prodcos"`
	}
	path := fmt.Sprintf("/projects/%s/companies", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return tracker.CompanyContext{}, err
	}

	toRefs := func(rows []entityRow, ct tracker.CompanyType) []tracker.CompanyRef {
		out := make([]tracker.CompanyRef, 0, len(rows))
		for _, row := range rows {
			out = append(out, tracker.CompanyRef{
				EntityRef: tracker.EntityRef{ID: row.ID, Label: row.Label()},
				Type:      ct,
			})
		}
		return out
	}

	return tracker.CompanyContext{
		Networks: toRefs(resp.Networks, tracker.CompanyNetwork),
		Studios:  toRefs(resp.Studios, tracker.CompanyStudio),
		Prodcos:  toRefs(resp.Prodcos, tracker.CompanyProdco),
	}, nil
}

// GetCompany resolves one company id to its display name and type.
// The type is a field on the response; ids stay opaque.
func (c *Client) GetCompany(ctx context.Context, companyID string) (tracker.CompanyRef, error) {
	var resp struct {
		ID   string              `json:"id"`
		Name string              `json:"name"`
		Type tracker.CompanyType `json:"type"`
	}
	path := fmt.Sprintf("/companies/%s", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return tracker.CompanyRef{}, err
	}
	return tracker.CompanyRef{
		EntityRef: tracker.EntityRef{ID: resp.ID, Label: resp.Name},
		Type:      resp.Type,
	}, nil
}

// ListExecutivesAtCompany returns the executives working at one company.
func (c *Client) ListExecutivesAtCompany(ctx context.Context, companyID string) ([]tracker.EntityRef, error) {
	var rows []entityRow
	path := fmt.Sprintf("/executives/company/%s", url.PathEscape(companyID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rows); err != nil {
		return nil, err
	}
	return refsFromRows(rows), nil
}

// ListExternalReps returns outside reps with their owning agency.
func (c *Client) ListExternalReps(ctx context.Context, query string) ([]tracker.ExternalRep, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	var reps []tracker.ExternalRep
	if err := c.do(ctx, http.MethodGet, "/external_reps", params, nil, &reps); err != nil {
		return nil, err
	}
	return reps, nil
}

// ListWritingSamples returns samples with their owning creative and
// project links so pickers can prioritize related material.
func (c *Client) ListWritingSamples(ctx context.Context, query string) ([]tracker.WritingSample, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	var samples []tracker.WritingSample
	if err := c.do(ctx, http.MethodGet, "/writing_samples", params, nil, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// ListMandatesAtCompany returns one company's active mandates.
func (c *Client) ListMandatesAtCompany(ctx context.Context, companyID string) ([]tracker.Mandate, error) {
	params := url.Values{}
	params.Set("company_id", companyID)
	params.Set("status", "active")

	var resp struct {
		Total int               `json:"total"`
		Items []tracker.Mandate `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/mandates", params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListNeeds returns a project's active needs.
func (c *Client) ListNeeds(ctx context.Context, projectID string) ([]tracker.Need, error) {
	var needs []tracker.Need
	path := fmt.Sprintf("/projects/%s/needs", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &needs); err != nil {
		return nil, err
	}
	return needs, nil
}

// CreateNeeds creates one need per row in a single round trip and
// returns the created rows in request order.
func (c *Client) CreateNeeds(ctx context.Context, projectID string, rows []tracker.NeedRow) ([]tracker.Need, error) {
	var created []tracker.Need
	path := fmt.Sprintf("/projects/%s/needs", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodPost, path, nil, rows, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateProject creates a project. Personal projects list the
// creatives they belong to; the tracker links those as creative
// developers on its side.
func (c *Client) CreateProject(ctx context.Context, project tracker.NewProject) (tracker.EntityRef, error) {
	var resp entityRow
	if err := c.do(ctx, http.MethodPost, "/projects", nil, project, &resp); err != nil {
		return tracker.EntityRef{}, err
	}
	return tracker.EntityRef{ID: resp.ID, Label: resp.Label()}, nil
}

// CreateMandate creates a mandate scoped to one company.
func (c *Client) CreateMandate(ctx context.Context, mandate tracker.NewMandate) (tracker.Mandate, error) {
	var created tracker.Mandate
	if err := c.do(ctx, http.MethodPost, "/mandates", nil, mandate, &created); err != nil {
		return tracker.Mandate{}, err
	}
	return created, nil
}

// AttachProjectCreative links a creative to a project under a role.
// The route is idempotent on the tracker; a 409 comes back as the
// attach-conflict code and means the link was already there.
func (c *Client) AttachProjectCreative(ctx context.Context, projectID, creativeID, role string) error {
	body := struct {
		Role string `json:"role"`
	}{Role: role}
	path := fmt.Sprintf("/projects/%s/creatives/%s", url.PathEscape(projectID), url.PathEscape(creativeID))
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

// CreateSubmission sends the final submission payload.
func (c *Client) CreateSubmission(ctx context.Context, payload tracker.SubmissionPayload) (tracker.CreatedSub, error) {
	var created tracker.CreatedSub
	if err := c.do(ctx, http.MethodPost, "/subs", nil, payload, &created); err != nil {
		return tracker.CreatedSub{}, err
	}
	return created, nil
}
