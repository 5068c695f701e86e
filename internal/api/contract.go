package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// contractYAML is the tracker's API contract, vendored so the client
// and its tests agree on which routes exist without a live tracker.
//
//go:embed openapi.yaml
var contractYAML []byte

// Route is one tracker endpoint the client depends on.
type Route struct {
	Method string
	Path   string
}

// ClientRoutes enumerates every tracker route the client calls, using
// the contract's path templates.
func ClientRoutes() []Route {
	return []Route{
		{http.MethodGet, "/creatives"},
		{http.MethodGet, "/projects"},
		{http.MethodGet, "/managers"},
		{http.MethodGet, "/external_reps"},
		{http.MethodGet, "/writing_samples"},
		{http.MethodGet, "/mandates"},
		{http.MethodGet, "/companies/{company_id}"},
		{http.MethodGet, "/executives/company/{company_id}"},
		{http.MethodGet, "/projects/{project_id}/companies"},
		{http.MethodGet, "/projects/{project_id}/needs"},
		{http.MethodPost, "/projects/{project_id}/needs"},
		{http.MethodPost, "/projects/{project_id}/creatives/{creative_id}"},
		{http.MethodPost, "/projects"},
		{http.MethodPost, "/mandates"},
		{http.MethodPost, "/subs"},
	}
}

// LoadContract parses and validates the embedded contract.
func LoadContract(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracker contract: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid tracker contract: %w", err)
	}
	return doc, nil
}

// VerifyContract checks that every route the client depends on is
// declared in the embedded contract. It returns one finding per
// missing path or method; an empty slice means the contract covers
// the client.
func VerifyContract(ctx context.Context) ([]string, error) {
	doc, err := LoadContract(ctx)
	if err != nil {
		return nil, err
	}

	var findings []string
	for _, route := range ClientRoutes() {
		item := doc.Paths.Find(route.Path)
		if item == nil {
			findings = append(findings, fmt.Sprintf("path not declared: %s %s", route.Method, route.Path))
			continue
		}
		if item.GetOperation(route.Method) == nil {
			findings = append(findings, fmt.Sprintf("method not declared: %s %s", route.Method, route.Path))
		}
	}
	return findings, nil
}
