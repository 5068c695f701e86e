package api

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadContract(t *testing.T) {
	doc, err := LoadContract(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc.Info)
	assert.NotEmpty(t, doc.Info.Title)
	require.NotNil(t, doc.Paths)
	assert.NotZero(t, doc.Paths.Len())
}

func TestContractCoversClientRoutes(t *testing.T) {
	findings, err := VerifyContract(context.Background())
	require.NoError(t, err)
	assert.Empty(t, findings, "contract is missing client routes:\n%s", strings.Join(findings, "\n"))
}

func TestVerifyContractDetectsMissingRoute(t *testing.T) {
	doc, err := LoadContract(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc.Paths.Find("/nonexistent"))
}
