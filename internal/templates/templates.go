// Package templates validates the template registry: system prompts,
// prompt categories, and welcome screens, with script-injection checks on
// every user-visible string.
package templates

import (
	"fmt"
	"regexp"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
)

// WelcomeActions are the actions a welcome screen card may trigger.
var WelcomeActions = []string{"focus-input", "open-config", "new-council", "open-settings"}

// maxPromptLen caps a system prompt's body.
const maxPromptLen = 10000

var xssRe = regexp.MustCompile(`(?i)<script|onclick|onerror|onload|javascript:`)

var templateRegistrySchema = schema.Schema{
	Kind: "template-registry",
	Rules: []schema.FieldRule{
		{Path: "version", Required: true},
		{Path: "systemPrompts", Type: schema.Array},
		{Path: "promptCategories", Type: schema.Array},
		{Path: "welcomeScreens", Type: schema.Array},
	},
}

var promptSchema = schema.Schema{
	Kind: "system-prompt",
	Rules: []schema.FieldRule{
		{Path: "id", Required: true, Type: schema.String},
		{Path: "name", Required: true, Type: schema.String},
		{Path: "prompt", Required: true, Type: schema.String, MaxLen: maxPromptLen},
		{Path: "category", Type: schema.String},
		{Path: "icon", Type: schema.String},
	},
}

var categorySchema = schema.Schema{
	Kind: "prompt-category",
	Rules: []schema.FieldRule{
		{Path: "id", Required: true, Type: schema.String},
		{Path: "label", Required: true, Type: schema.String},
	},
}

var screenSchema = schema.Schema{
	Kind: "welcome-screen",
	Rules: []schema.FieldRule{
		{Path: "id", Required: true, Type: schema.String},
		{Path: "heading", Required: true, Type: schema.String},
		{Path: "subtitle", Type: schema.String},
		{Path: "name", Type: schema.String},
		{Path: "cards", Type: schema.Array},
	},
}

// Check validates the template registry document.
func Check(doc document.Document) []report.Issue {
	issues := templateRegistrySchema.Check(doc.Name, doc.Data)

	issues = append(issues, checkEntries(doc, "systemPrompts", promptSchema,
		[]string{"name", "prompt", "category", "icon"}, true)...)
	issues = append(issues, checkEntries(doc, "promptCategories", categorySchema, nil, false)...)
	issues = append(issues, checkScreens(doc)...)

	return issues
}

// checkEntries validates one entry array: per-entry schema, optional ID
// uniqueness, and injection checks on the named string fields.
func checkEntries(doc document.Document, field string, s schema.Schema, xssFields []string, uniqueIDs bool) []report.Issue {
	raw, ok := schema.Lookup(doc.Data, field)
	entries, isArr := raw.([]any)
	if !ok || !isArr {
		return nil
	}

	var issues []report.Issue
	seen := make(map[string]bool, len(entries))
	for i, elem := range entries {
		path := fmt.Sprintf("%s[%d]", field, i)

		entry, isObj := elem.(map[string]any)
		if !isObj {
			issues = append(issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
			continue
		}

		issues = append(issues, report.PrefixPath(s.Check(doc.Name, entry), path)...)

		if uniqueIDs {
			if id, ok := entry["id"].(string); ok {
				if seen[id] {
					issues = append(issues, report.New(report.DuplicateID, doc.Name, path+".id",
						"duplicate ID %q", id))
				}
				seen[id] = true
			}
		}

		issues = append(issues, checkInjection(doc.Name, path, entry, xssFields)...)
	}
	return issues
}

func checkScreens(doc document.Document) []report.Issue {
	issues := checkEntries(doc, "welcomeScreens", screenSchema,
		[]string{"heading", "subtitle", "name"}, true)

	raw, ok := schema.Lookup(doc.Data, "welcomeScreens")
	screens, isArr := raw.([]any)
	if !ok || !isArr {
		return issues
	}

	for i, elem := range screens {
		screen, isObj := elem.(map[string]any)
		if !isObj {
			continue
		}
		cards, isArr := screen["cards"].([]any)
		if !isArr {
			continue
		}

		for j, c := range cards {
			path := fmt.Sprintf("welcomeScreens[%d].cards[%d]", i, j)
			card, isObj := c.(map[string]any)
			if !isObj {
				issues = append(issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
				continue
			}
			if action, ok := card["action"].(string); ok && action != "" && !containsString(WelcomeActions, action) {
				issues = append(issues, report.New(report.InvalidEnum, doc.Name, path+".action",
					"value %q not in allowed set %v", action, WelcomeActions))
			}
			issues = append(issues, checkInjection(doc.Name, path, card, []string{"title", "description", "icon"})...)
		}
	}

	return issues
}

// checkInjection flags script injection patterns in the named string fields.
func checkInjection(docName, path string, entry map[string]any, fields []string) []report.Issue {
	var issues []report.Issue
	for _, field := range fields {
		if value, ok := entry[field].(string); ok && xssRe.MatchString(value) {
			issues = append(issues, report.New(report.ForbiddenPattern, docName, path+"."+field,
				"contains script injection pattern"))
		}
	}
	return issues
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
