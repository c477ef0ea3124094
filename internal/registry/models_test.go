package registry_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/registry"
	"github.com/aiscouncil/registry-check/internal/report"
)

func parseDoc(t *testing.T, name, raw string) document.Document {
	t.Helper()

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data), "Setup: fixture should be valid JSON")
	return document.Document{Name: name, Data: data}
}

func kindsOf(issues []report.Issue) []report.Kind {
	if len(issues) == 0 {
		return nil
	}
	kinds := make([]report.Kind, 0, len(issues))
	for _, issue := range issues {
		kinds = append(kinds, issue.Kind)
	}
	return kinds
}

func TestCheckModels(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw string

		wantKinds []report.Kind
		wantPaths []string
	}{
		"Valid registry": {
			raw: `{
				"version": "1.0.0",
				"providers": {
					"openai": {"name": "OpenAI", "baseUrl": "https://api.openai.com/v1", "authType": "header", "authHeader": "Authorization", "format": "openai"},
					"google": {"name": "Google", "baseUrl": "https://generativelanguage.googleapis.com", "authType": "query", "authParam": "key", "format": "google"}
				},
				"models": [
					{"id": "gpt-4o", "name": "GPT-4o", "provider": "openai", "context": 128000, "maxOutput": 16384, "pricing": {"input": 2.5, "output": 10}, "capabilities": ["vision", "tools"], "tier": "paid"},
					{"id": "gemini-pro", "provider": "google", "context": 1000000, "maxOutput": 8192, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				],
				"presetCouncils": [
					{"name": "Research", "style": "research", "chairman": 0, "members": [
						{"provider": "openai", "model": "gpt-4o"},
						{"provider": "google", "model": "gemini-pro"}
					]}
				]
			}`,
		},
		"Model referencing an unknown provider": {
			raw: `{
				"version": "1.0.0",
				"providers": {},
				"models": [
					{"id": "x", "provider": "ghost", "context": 1000, "maxOutput": 100, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				]
			}`,
			wantKinds: []report.Kind{report.UnknownProvider},
			wantPaths: []string{"models[0].provider"},
		},
		"Duplicate model ID within one provider": {
			raw: `{
				"version": 2,
				"providers": {
					"p": {"name": "P", "baseUrl": "https://p.example.com", "authType": "none", "format": "openai"}
				},
				"models": [
					{"id": "m", "provider": "p", "context": 10, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"},
					{"id": "m", "provider": "p", "context": 10, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				]
			}`,
			wantKinds: []report.Kind{report.DuplicateID},
			wantPaths: []string{"models[1].id"},
		},
		"Same model ID under two providers is allowed": {
			raw: `{
				"version": 2,
				"providers": {
					"a": {"name": "A", "baseUrl": "https://a.example.com", "authType": "none", "format": "openai"},
					"b": {"name": "B", "baseUrl": "https://b.example.com", "authType": "none", "format": "anthropic"}
				},
				"models": [
					{"id": "m", "provider": "a", "context": 10, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"},
					{"id": "m", "provider": "b", "context": 10, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				]
			}`,
		},
		"Header auth without authHeader": {
			raw: `{
				"version": 1,
				"providers": {
					"p": {"name": "P", "baseUrl": "https://p.example.com", "authType": "header", "format": "openai"}
				},
				"models": []
			}`,
			wantKinds: []report.Kind{report.MissingField},
			wantPaths: []string{"providers.p.authHeader"},
		},
		"Query auth without authParam": {
			raw: `{
				"version": 1,
				"providers": {
					"p": {"name": "P", "baseUrl": "https://p.example.com", "authType": "query", "format": "google"}
				},
				"models": []
			}`,
			wantKinds: []report.Kind{report.MissingField},
			wantPaths: []string{"providers.p.authParam"},
		},
		"Broken entry still cross-references its provider": {
			raw: `{
				"version": 1,
				"providers": {},
				"models": [
					{"id": "x", "provider": "ghost", "context": 0, "maxOutput": 100, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				]
			}`,
			wantKinds: []report.Kind{report.OutOfRange, report.UnknownProvider},
			wantPaths: []string{"models[0].context", "models[0].provider"},
		},
		"Broken entry still counts for ID uniqueness": {
			raw: `{
				"version": 1,
				"providers": {
					"p": {"name": "P", "baseUrl": "https://p.example.com", "authType": "none", "format": "openai"}
				},
				"models": [
					{"id": "m", "provider": "p", "context": 10, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"},
					{"id": "m", "provider": "p", "context": 0, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				]
			}`,
			wantKinds: []report.Kind{report.OutOfRange, report.DuplicateID},
			wantPaths: []string{"models[1].context", "models[1].id"},
		},
		"Entry without an ID skips cross-references": {
			raw: `{
				"version": 1,
				"providers": {},
				"models": [
					{"provider": "ghost", "context": 10, "maxOutput": 5, "pricing": {"input": 0, "output": 0}, "capabilities": [], "tier": "free"}
				]
			}`,
			wantKinds: []report.Kind{report.MissingField},
			wantPaths: []string{"models[0].id"},
		},
		"Council with a single member": {
			raw: `{
				"version": 1,
				"providers": {},
				"models": [],
				"presetCouncils": [
					{"name": "Solo", "style": "debate", "chairman": null, "members": [
						{"provider": "a", "model": "m"}
					]}
				]
			}`,
			wantKinds: []report.Kind{report.OutOfRange},
			wantPaths: []string{"presetCouncils[0].members"},
		},
		"Council chairman out of range": {
			raw: `{
				"version": 1,
				"providers": {},
				"models": [],
				"presetCouncils": [
					{"name": "C", "style": "consensus", "chairman": 2, "members": [
						{"provider": "a", "model": "m"},
						{"provider": "b", "model": "n"}
					]}
				]
			}`,
			wantKinds: []report.Kind{report.InvalidIndex},
			wantPaths: []string{"presetCouncils[0].chairman"},
		},
		"Council member missing its model": {
			raw: `{
				"version": 1,
				"providers": {},
				"models": [],
				"presetCouncils": [
					{"name": "C", "style": "moa", "members": [
						{"provider": "a", "model": "m"},
						{"provider": "b"}
					]}
				]
			}`,
			wantKinds: []report.Kind{report.MissingField},
			wantPaths: []string{"presetCouncils[0].members[1]"},
		},
		"Missing top-level sections": {
			raw: `{"version": 1}`,
			wantKinds: []report.Kind{
				report.MissingField, report.MissingField,
			},
			wantPaths: []string{"providers", "models"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, "models.json", tc.raw)

			issues := registry.CheckModels(doc)

			require.Equal(t, tc.wantKinds, kindsOf(issues), "Unexpected issues: %v", issues)
			for i, path := range tc.wantPaths {
				assert.Equal(t, path, issues[i].Path, "Issue %d path", i)
				assert.Equal(t, "models.json", issues[i].Document, "Issue %d document", i)
			}
		})
	}
}
