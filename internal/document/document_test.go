package document_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw string

		wantErr bool
	}{
		"Object document":   {raw: `{"version": 1}`},
		"Empty object":      {raw: `{}`},
		"Truncated JSON":    {raw: `{"version": `, wantErr: true},
		"Array at the root": {raw: `[1, 2]`, wantErr: true},
		"Bare string":       {raw: `"hello"`, wantErr: true},
		"Empty input":       {raw: ``, wantErr: true},
		"Trailing garbage":  {raw: `{"a": 1} nope`, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc, err := document.Parse("test.json", []byte(tc.raw))

			if tc.wantErr {
				require.Error(t, err, "Parse should fail")
				assert.ErrorIs(t, err, document.ErrParse, "Failures should wrap ErrParse")
				return
			}
			require.NoError(t, err, "Parse should succeed")
			assert.Equal(t, "test.json", doc.Name, "Document name")
			assert.NotNil(t, doc.Data, "Document data")
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1}`), 0600), "Setup: could not write document")

	doc, err := document.Load(path)
	require.NoError(t, err, "Load should succeed on a valid document")
	assert.Equal(t, path, doc.Name, "Documents are named after their path")

	_, err = document.Load(filepath.Join(dir, "absent.json"))
	require.Error(t, err, "Load should fail on a missing file")
	assert.ErrorIs(t, err, document.ErrParse, "Load failures should wrap ErrParse")
}

func TestFailureIssue(t *testing.T) {
	t.Parallel()

	_, err := document.Parse("broken.json", []byte(`{`))
	require.Error(t, err, "Setup: parse should fail")

	issue := document.FailureIssue("broken.json", err)

	assert.Equal(t, report.ParseFailure, issue.Kind, "Issue kind")
	assert.Equal(t, report.SeverityFatal, issue.Severity, "Parse failures are fatal")
	assert.Equal(t, "broken.json", issue.Document, "Issue document")
}

func TestDecode(t *testing.T) {
	t.Parallel()

	type pricing struct {
		Input  float64 `json:"input"`
		Output float64 `json:"output"`
	}
	type model struct {
		ID      string  `json:"id"`
		Context int     `json:"context"`
		Pricing pricing `json:"pricing"`
		Par     *int    `json:"par"`
	}

	doc, err := document.Parse("m.json", []byte(`{
		"id": "gpt", "context": 128000,
		"pricing": {"input": 2.5, "output": 10},
		"par": null,
		"extra": "ignored"
	}`))
	require.NoError(t, err, "Setup: parse should succeed")

	var m model
	require.NoError(t, doc.Decode(&m), "Decode should succeed")

	assert.Equal(t, "gpt", m.ID, "String field")
	assert.Equal(t, 128000, m.Context, "Integer field")
	assert.InDelta(t, 2.5, m.Pricing.Input, 0.0001, "Nested float field")
	assert.Nil(t, m.Par, "Explicit null decodes to a nil pointer")
}
