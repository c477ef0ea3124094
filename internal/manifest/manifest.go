// Package manifest validates per-package manifest documents: the runtime
// contract a package declares, its ABI compatibility, and its permission
// grants.
package manifest

import (
	"regexp"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/policy"
	"github.com/aiscouncil/registry-check/internal/registry"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
)

// Permissions is the fixed permission enumeration the platform grants.
// Unknown strings warn rather than fail: the ABI policy promises additive
// extension, so a manifest written for a newer platform must still merge.
var Permissions = []string{
	"storage", "chat:read", "chat:write", "config:read", "config:write",
	"auth:read", "ui:toast", "ui:modal", "hooks:action", "hooks:filter",
	"network:fetch", "secrets:sync",
}

var (
	nameRe = regexp.MustCompile(`^[a-z0-9-]+$`)
	hashRe = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

var baseSchema = schema.Schema{
	Kind: "manifest",
	Rules: []schema.FieldRule{
		{Path: "name", Required: true, Type: schema.String, Pattern: nameRe, Hint: "lowercase letters, digits and hyphens", MaxLen: 64},
		{Path: "version", Required: true, Type: schema.String, Semver: true},
		{Path: "type", Type: schema.String, Enum: registry.PackageTypes},
		{Path: "description", Type: schema.String, MaxLen: 256},
		{Path: "keywords", Type: schema.StringArray, MaxLen: 10},
		{Path: "permissions", Type: schema.StringArray},
		{Path: "wasm", Type: schema.String, URL: true},
		{Path: "wasm_sha256", Type: schema.String},
		{Path: "entry", Type: schema.String},
		{Path: "base_url", Type: schema.String, URL: true},
		{Path: "abi", Type: schema.Integer},
	},
}

// Manifest is a decoded manifest document.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	ABI         *int     `json:"abi"`
	Type        string   `json:"type"`
	Wasm        string   `json:"wasm"`
	WasmSHA256  string   `json:"wasm_sha256"`
	Entry       string   `json:"entry"`
	BaseURL     string   `json:"base_url"`
	Permissions []string `json:"permissions"`
}

// Validator validates manifests under a platform policy.
type Validator struct {
	policy policy.Config
	// allowed is the permission enumeration plus policy extras.
	allowed map[string]bool
}

// New creates a manifest validator for the given policy.
func New(pol policy.Config) Validator {
	allowed := make(map[string]bool, len(Permissions)+len(pol.Permissions.Extra))
	for _, p := range Permissions {
		allowed[p] = true
	}
	for _, p := range pol.Permissions.Extra {
		allowed[p] = true
	}
	return Validator{policy: pol, allowed: allowed}
}

// Check validates one manifest document: base schema, type-specific
// requirements, the ABI acceptance gate, and permission grants.
func (v Validator) Check(doc document.Document) []report.Issue {
	issues := baseSchema.Check(doc.Name, doc.Data)

	var m Manifest
	// A decode error means some field has the wrong type, which the schema
	// pass already reported; the fields that did decode stay usable.
	_ = doc.Decode(&m)
	if m.Type == "" {
		if v, ok := schema.Lookup(doc.Data, "type"); ok {
			if s, isStr := v.(string); isStr {
				m.Type = s
			}
		}
	}
	if m.Type == "" {
		m.Type = "plugin"
	}

	issues = append(issues, v.checkType(doc, m)...)
	issues = append(issues, v.checkABI(doc, m)...)
	issues = append(issues, v.checkPermissions(doc, m)...)

	return issues
}

// checkType applies the per-type field requirements: plugin ships wasm with
// a content hash, addon ships wasm or a script entry, mini-program points
// at a hosted app.
func (v Validator) checkType(doc document.Document, m Manifest) []report.Issue {
	var issues []report.Issue

	_, hasWasm := schema.Lookup(doc.Data, "wasm")
	_, hasEntry := schema.Lookup(doc.Data, "entry")
	_, hasHash := schema.Lookup(doc.Data, "wasm_sha256")
	_, hasBaseURL := schema.Lookup(doc.Data, "base_url")

	switch m.Type {
	case "plugin":
		if !hasWasm {
			issues = append(issues, report.New(report.MissingField, doc.Name, "wasm",
				"plugin manifests need a wasm artifact URL"))
		}
		switch {
		case !hasHash:
			issues = append(issues, report.New(report.MissingField, doc.Name, "wasm_sha256",
				"plugin manifests need the wasm content hash"))
		case m.WasmSHA256 != "" && !hashRe.MatchString(m.WasmSHA256):
			issues = append(issues, report.New(report.InvalidFormat, doc.Name, "wasm_sha256",
				"must be 64 lowercase hex characters"))
		}
	case "addon":
		if !hasWasm && !hasEntry {
			issues = append(issues, report.New(report.MissingField, doc.Name, "wasm",
				"addon manifests need either wasm or entry"))
		}
	case "mini-program":
		if !hasEntry {
			issues = append(issues, report.New(report.MissingField, doc.Name, "entry",
				"mini-program manifests need an entry point"))
		}
		if !hasBaseURL {
			issues = append(issues, report.New(report.MissingField, doc.Name, "base_url",
				"mini-program manifests need a base URL"))
		}
	}

	return issues
}

// checkABI is the platform compatibility gate: a manifest declaring an ABI
// the platform does not recognize cannot be accepted.
func (v Validator) checkABI(doc document.Document, m Manifest) []report.Issue {
	if _, present := schema.Lookup(doc.Data, "abi"); !present {
		return []report.Issue{report.New(report.MissingField, doc.Name, "abi",
			"manifests must declare the ABI version they target")}
	}
	if m.ABI != nil && !v.policy.SupportsABI(*m.ABI) {
		return []report.Issue{report.New(report.UnsupportedAbi, doc.Name, "abi",
			"ABI %d is not supported (supported: %v)", *m.ABI, v.policy.ABI.Supported)}
	}
	return nil
}

func (v Validator) checkPermissions(doc document.Document, m Manifest) []report.Issue {
	var issues []report.Issue
	for i, p := range m.Permissions {
		if !v.allowed[p] {
			issues = append(issues, report.New(report.UnknownPermission, doc.Name,
				"permissions", "element %d: permission %q is not recognized", i, p))
		}
	}
	return issues
}

// CrossCheck verifies a manifest against its owning package registry entry:
// the manifest must describe the same package at the same version.
func CrossCheck(doc document.Document, m Manifest, pkg registry.Package) []report.Issue {
	var issues []report.Issue
	if m.Name != pkg.Name {
		issues = append(issues, report.New(report.VersionMismatch, doc.Name, "name",
			"manifest is for %q but the registry entry is %q", m.Name, pkg.Name))
	}
	if m.Version != pkg.Version {
		issues = append(issues, report.New(report.VersionMismatch, doc.Name, "version",
			"manifest version %s does not match registry entry version %s", m.Version, pkg.Version))
	}
	return issues
}
