package templates_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/templates"
)

func parseDoc(t *testing.T, raw string) document.Document {
	t.Helper()

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data), "Setup: fixture should be valid JSON")
	return document.Document{Name: "templates.json", Data: data}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw string

		wantKinds []report.Kind
		wantPaths []string
	}{
		"Valid registry": {
			raw: `{
				"version": 1,
				"systemPrompts": [
					{"id": "writer", "name": "Writer", "prompt": "You edit prose.", "category": "writing", "icon": "pen"}
				],
				"promptCategories": [
					{"id": "writing", "label": "Writing"}
				],
				"welcomeScreens": [
					{"id": "default", "heading": "Welcome", "subtitle": "Pick a card", "cards": [
						{"title": "New council", "description": "Start fresh", "action": "new-council"}
					]}
				]
			}`,
		},
		"Empty sections are fine": {
			raw: `{"version": 1}`,
		},
		"Duplicate prompt ID": {
			raw: `{
				"version": 1,
				"systemPrompts": [
					{"id": "writer", "name": "Writer", "prompt": "a"},
					{"id": "writer", "name": "Writer 2", "prompt": "b"}
				]
			}`,
			wantKinds: []report.Kind{report.DuplicateID},
			wantPaths: []string{"systemPrompts[1].id"},
		},
		"Script injection in a prompt": {
			raw: `{
				"version": 1,
				"systemPrompts": [
					{"id": "writer", "name": "Writer", "prompt": "Reply with <script>alert(1)</script>"}
				]
			}`,
			wantKinds: []report.Kind{report.ForbiddenPattern},
			wantPaths: []string{"systemPrompts[0].prompt"},
		},
		"Category missing its label": {
			raw: `{
				"version": 1,
				"promptCategories": [
					{"id": "writing"}
				]
			}`,
			wantKinds: []report.Kind{report.MissingField},
			wantPaths: []string{"promptCategories[0].label"},
		},
		"Unknown card action": {
			raw: `{
				"version": 1,
				"welcomeScreens": [
					{"id": "default", "heading": "Welcome", "cards": [
						{"title": "Go", "action": "self-destruct"}
					]}
				]
			}`,
			wantKinds: []report.Kind{report.InvalidEnum},
			wantPaths: []string{"welcomeScreens[0].cards[0].action"},
		},
		"Script injection in a card title": {
			raw: `{
				"version": 1,
				"welcomeScreens": [
					{"id": "default", "heading": "Welcome", "cards": [
						{"title": "Click <img onerror=alert(1)>", "action": "focus-input"}
					]}
				]
			}`,
			wantKinds: []report.Kind{report.ForbiddenPattern},
			wantPaths: []string{"welcomeScreens[0].cards[0].title"},
		},
		"Non-object card": {
			raw: `{
				"version": 1,
				"welcomeScreens": [
					{"id": "default", "heading": "Welcome", "cards": ["oops"]}
				]
			}`,
			wantKinds: []report.Kind{report.TypeMismatch},
			wantPaths: []string{"welcomeScreens[0].cards[0]"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			issues := templates.Check(parseDoc(t, tc.raw))

			require.Len(t, issues, len(tc.wantKinds), "Unexpected issues: %v", issues)
			for i := range tc.wantKinds {
				assert.Equal(t, tc.wantKinds[i], issues[i].Kind, "Issue %d kind", i)
				assert.Equal(t, tc.wantPaths[i], issues[i].Path, "Issue %d path", i)
			}
		})
	}
}
