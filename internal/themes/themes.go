// Package themes validates the theme registry: CSS custom property maps,
// layout options, and the content restrictions that keep community themes
// from injecting active content into the application.
package themes

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
)

// SidebarPanels are the panels a theme layout may reorder.
var SidebarPanels = []string{"left", "chat", "right"}

// maxCSSLen caps the free-form css block of a theme.
const maxCSSLen = 50000

var (
	propNameRe  = regexp.MustCompile(`^--[a-z][-a-z0-9]+$`)
	forbiddenRe = regexp.MustCompile(`(?i)url\s*\(|expression\s*\(|javascript:|@import`)
	xssRe       = regexp.MustCompile(`(?i)<script|onclick|onerror|onload|javascript:`)
)

var themeRegistrySchema = schema.Schema{
	Kind: "theme-registry",
	Rules: []schema.FieldRule{
		{Path: "version", Required: true},
		{Path: "themes", Required: true, Type: schema.Array},
	},
}

var themeSchema = schema.Schema{
	Kind: "theme",
	Rules: []schema.FieldRule{
		{Path: "id", Required: true, Type: schema.String},
		{Path: "name", Required: true, Type: schema.String},
		{Path: "light", Type: schema.Object},
		{Path: "dark", Type: schema.Object},
		{Path: "layout", Type: schema.Object},
		{Path: "css", Type: schema.String, MaxLen: maxCSSLen},
	},
}

// Check validates the theme registry document.
func Check(doc document.Document) []report.Issue {
	issues := themeRegistrySchema.Check(doc.Name, doc.Data)

	raw, ok := schema.Lookup(doc.Data, "themes")
	themes, isArr := raw.([]any)
	if !ok || !isArr {
		return issues
	}

	seen := make(map[string]bool, len(themes))
	for i, elem := range themes {
		path := fmt.Sprintf("themes[%d]", i)

		entry, isObj := elem.(map[string]any)
		if !isObj {
			issues = append(issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
			continue
		}

		issues = append(issues, report.PrefixPath(themeSchema.Check(doc.Name, entry), path)...)

		if id, ok := entry["id"].(string); ok {
			if seen[id] {
				issues = append(issues, report.New(report.DuplicateID, doc.Name, path+".id",
					"duplicate theme ID %q", id))
			}
			seen[id] = true
		}

		for _, mode := range []string{"light", "dark"} {
			props, ok := entry[mode].(map[string]any)
			if !ok {
				continue
			}
			issues = append(issues, checkProperties(doc.Name, path+"."+mode, props)...)
		}

		issues = append(issues, checkLayout(doc.Name, path, entry)...)

		if css, ok := entry["css"].(string); ok && len(css) <= maxCSSLen {
			issues = append(issues, checkContent(doc.Name, path+".css", css)...)
		}
	}

	return issues
}

// checkProperties validates one mode's CSS custom property map.
func checkProperties(docName, path string, props map[string]any) []report.Issue {
	var issues []report.Issue

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propPath := path + "." + name
		if !propNameRe.MatchString(name) {
			issues = append(issues, report.New(report.InvalidFormat, docName, propPath,
				"property name must match --[a-z][-a-z0-9]+"))
		}
		value, ok := props[name].(string)
		if !ok {
			issues = append(issues, report.New(report.TypeMismatch, docName, propPath,
				"property value must be a string"))
			continue
		}
		issues = append(issues, checkContent(docName, propPath, value)...)
	}

	return issues
}

func checkLayout(docName, path string, entry map[string]any) []report.Issue {
	layout, ok := entry["layout"].(map[string]any)
	if !ok {
		return nil
	}
	order, present := layout["sidebarOrder"]
	if !present {
		return nil
	}

	arr, isArr := order.([]any)
	if !isArr {
		return []report.Issue{report.New(report.TypeMismatch, docName, path+".layout.sidebarOrder",
			"expected array")}
	}

	var issues []report.Issue
	for i, v := range arr {
		panel, isStr := v.(string)
		if !isStr || !containsString(SidebarPanels, panel) {
			issues = append(issues, report.New(report.InvalidEnum, docName,
				fmt.Sprintf("%s.layout.sidebarOrder[%d]", path, i),
				"value %v not in allowed set %v", v, SidebarPanels))
		}
	}
	return issues
}

// checkContent rejects string content that could smuggle active CSS or
// script into the application.
func checkContent(docName, path, value string) []report.Issue {
	var issues []report.Issue
	if forbiddenRe.MatchString(value) {
		issues = append(issues, report.New(report.ForbiddenPattern, docName, path,
			"contains forbidden CSS pattern (url(), expression(), javascript:, @import)"))
	}
	if xssRe.MatchString(value) {
		issues = append(issues, report.New(report.ForbiddenPattern, docName, path,
			"contains script injection pattern"))
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
