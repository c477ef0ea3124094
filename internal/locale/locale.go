// Package locale compares translated locale documents against the source
// locale: same key tree, same placeholder tokens per string, consistent
// metadata.
//
// The comparison is a pure tree diff. Key order never matters; a dropped
// placeholder always does, because it silently breaks runtime string
// interpolation.
package locale

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
)

// placeholderRe matches {identifier} interpolation tokens.
var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// metaKey is the reserved metadata key excluded from the string tree.
const metaKey = "_meta"

// Meta is a locale document's metadata block.
type Meta struct {
	Lang    string `json:"lang"`
	Name    string `json:"name"`
	Version int    `json:"version"`
	Module  string `json:"module"`
}

// Check compares target against source and returns every drift issue,
// reported against the target document.
func Check(source, target document.Document) []report.Issue {
	var issues []report.Issue

	srcLeaves := leaves(source, nil) // source malformation is reported on its own run
	tgtLeaves := leaves(target, &issues)

	issues = append(issues, checkMeta(source, target)...)

	for _, path := range sortedKeys(srcLeaves) {
		if _, ok := tgtLeaves[path]; !ok {
			issues = append(issues, report.New(report.MissingKey, target.Name, path,
				"key exists in %s but is missing here", source.Name))
		}
	}
	for _, path := range sortedKeys(tgtLeaves) {
		if _, ok := srcLeaves[path]; !ok {
			issues = append(issues, report.New(report.ExtraKey, target.Name, path,
				"key does not exist in %s", source.Name))
		}
	}

	for _, path := range sortedKeys(srcLeaves) {
		tgt, ok := tgtLeaves[path]
		if !ok {
			continue
		}
		src := srcLeaves[path]

		want := placeholders(src)
		got := placeholders(tgt)
		if !sameSet(want, got) {
			issues = append(issues, report.New(report.PlaceholderMismatch, target.Name, path,
				"placeholder mismatch: expected %s, got %s", formatSet(want), formatSet(got)))
		}

		if strings.TrimSpace(tgt) == "" {
			issues = append(issues, report.New(report.EmptyValue, target.Name, path,
				"empty value (untranslated?)"))
		}
	}

	return issues
}

// checkMeta validates the target _meta block against the source's: lang is
// a well-formed tag distinct from the source, module and version match
// exactly.
func checkMeta(source, target document.Document) []report.Issue {
	var issues []report.Issue

	raw, present := schema.Lookup(target.Data, metaKey)
	obj, isObj := raw.(map[string]any)
	if !present || !isObj {
		return []report.Issue{report.New(report.MissingField, target.Name, metaKey,
			"locale files need a %s object", metaKey)}
	}

	var meta Meta
	if err := (document.Document{Name: target.Name, Data: obj}).Decode(&meta); err != nil {
		return []report.Issue{report.New(report.TypeMismatch, target.Name, metaKey, "%v", err)}
	}

	var srcMeta Meta
	if srcObj, ok := schema.Lookup(source.Data, metaKey); ok {
		if m, ok := srcObj.(map[string]any); ok {
			if err := (document.Document{Name: source.Name, Data: m}).Decode(&srcMeta); err != nil {
				// The source is validated on its own run; here it only
				// weakens the comparison, so surface it without failing.
				slog.Warn("Source locale metadata is malformed", "source", source.Name, "error", err)
			}
		}
	}

	switch {
	case meta.Lang == "":
		issues = append(issues, report.New(report.MetaMismatch, target.Name, metaKey+".lang",
			"lang must be set"))
	case meta.Lang == srcMeta.Lang:
		issues = append(issues, report.New(report.MetaMismatch, target.Name, metaKey+".lang",
			"lang %q must differ from the source locale", meta.Lang))
	default:
		if _, err := language.Parse(meta.Lang); err != nil {
			issues = append(issues, report.New(report.InvalidFormat, target.Name, metaKey+".lang",
				"lang %q is not a valid language code", meta.Lang))
		}
	}

	if meta.Name == "" {
		issues = append(issues, report.New(report.MetaMismatch, target.Name, metaKey+".name",
			"name must be set"))
	}
	if meta.Module != srcMeta.Module {
		issues = append(issues, report.New(report.MetaMismatch, target.Name, metaKey+".module",
			"module %q does not match source module %q", meta.Module, srcMeta.Module))
	}
	if meta.Version != srcMeta.Version {
		issues = append(issues, report.New(report.MetaMismatch, target.Name, metaKey+".version",
			"version %d does not match source version %d", meta.Version, srcMeta.Version))
	}

	return issues
}

// leaves flattens a locale document into dotted leaf paths and their string
// values, skipping _meta. Non-string leaves are reported when issues is
// non-nil.
func leaves(doc document.Document, issues *[]report.Issue) map[string]string {
	out := make(map[string]string)
	walk(doc, doc.Data, "", out, issues)
	return out
}

func walk(doc document.Document, node map[string]any, prefix string, out map[string]string, issues *[]report.Issue) {
	for key, value := range node {
		if prefix == "" && key == metaKey {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[path] = v
		case map[string]any:
			walk(doc, v, path, out, issues)
		default:
			if issues != nil {
				*issues = append(*issues, report.New(report.TypeMismatch, doc.Name, path,
					"locale values must be strings or nested objects"))
			}
		}
	}
}

// placeholders returns the set of {identifier} tokens in s. Presence only:
// repetition and order never matter.
func placeholders(s string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(s, -1) {
		set[m[1]] = true
	}
	return set
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func formatSet(set map[string]bool) string {
	if len(set) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, "{"+k+"}")
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
