package registry

import (
	"fmt"
	"sort"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
)

var modelRegistrySchema = schema.Schema{
	Kind: "model-registry",
	Rules: []schema.FieldRule{
		{Path: "version", Required: true},
		{Path: "providers", Required: true, Type: schema.Object},
		{Path: "models", Required: true, Type: schema.Array},
		{Path: "presetCouncils", Type: schema.Array},
	},
}

var providerSchema = schema.Schema{
	Kind: "provider",
	Rules: []schema.FieldRule{
		{Path: "name", Required: true, Type: schema.String},
		{Path: "baseUrl", Required: true, Type: schema.String, URL: true},
		{Path: "authType", Required: true, Type: schema.String, Enum: AuthTypes},
		{Path: "format", Required: true, Type: schema.String, Enum: WireFormats},
		{Path: "authHeader", Type: schema.String},
		{Path: "authParam", Type: schema.String},
	},
}

var modelSchema = schema.Schema{
	Kind: "model",
	Rules: []schema.FieldRule{
		{Path: "id", Required: true, Type: schema.String},
		{Path: "name", Type: schema.String},
		{Path: "provider", Required: true, Type: schema.String},
		{Path: "context", Required: true, Type: schema.Integer, Min: schema.Min(0), Exclusive: true},
		{Path: "maxOutput", Required: true, Type: schema.Integer, Min: schema.Min(0), Exclusive: true},
		{Path: "pricing", Required: true, Type: schema.Object},
		{Path: "pricing.input", Type: schema.Number, Min: schema.Min(0)},
		{Path: "pricing.output", Type: schema.Number, Min: schema.Min(0)},
		{Path: "capabilities", Required: true, Type: schema.StringArray, Enum: Capabilities},
		{Path: "tier", Required: true, Type: schema.String, Enum: ModelTiers},
	},
}

var councilSchema = schema.Schema{
	Kind: "preset-council",
	Rules: []schema.FieldRule{
		{Path: "name", Required: true, Type: schema.String},
		{Path: "style", Required: true, Type: schema.String, Enum: CouncilStyles},
		{Path: "members", Required: true, Type: schema.Array},
		{Path: "chairman", Type: schema.Integer, Nullable: true},
		{Path: "simpleDescription", Type: schema.String},
	},
}

// CheckModels validates the model registry document: the structural pass
// over the provider table, every model entry and preset council, then the
// cross-reference checks (provider membership, per-provider ID uniqueness).
func CheckModels(doc document.Document) []report.Issue {
	issues := modelRegistrySchema.Check(doc.Name, doc.Data)

	providers := checkProviders(doc, &issues)
	checkModelEntries(doc, providers, &issues)
	checkCouncils(doc, &issues)

	return issues
}

// checkProviders validates the provider table and returns the set of
// provider keys for model cross-referencing.
func checkProviders(doc document.Document, issues *[]report.Issue) map[string]bool {
	raw, ok := schema.Lookup(doc.Data, "providers")
	table, isMap := raw.(map[string]any)
	if !ok || !isMap {
		return nil
	}

	// Map iteration order is random; report providers in a stable order.
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	providers := make(map[string]bool, len(table))
	for _, key := range keys {
		providers[key] = true
		path := "providers." + key

		entry, isObj := table[key].(map[string]any)
		if !isObj {
			*issues = append(*issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
			continue
		}
		*issues = append(*issues, report.PrefixPath(providerSchema.Check(doc.Name, entry), path)...)

		var p Provider
		if err := (document.Document{Name: doc.Name, Data: entry}).Decode(&p); err != nil {
			continue
		}
		if p.AuthType == "header" && p.AuthHeader == "" {
			*issues = append(*issues, report.New(report.MissingField, doc.Name, path+".authHeader",
				"required when authType is %q", "header"))
		}
		if p.AuthType == "query" && p.AuthParam == "" {
			*issues = append(*issues, report.New(report.MissingField, doc.Name, path+".authParam",
				"required when authType is %q", "query"))
		}
	}

	return providers
}

func checkModelEntries(doc document.Document, providers map[string]bool, issues *[]report.Issue) {
	raw, ok := schema.Lookup(doc.Data, "models")
	models, isArr := raw.([]any)
	if !ok || !isArr {
		return
	}

	// First document-order occurrence of each provider/id pair is canonical;
	// later ones are the duplicates.
	seen := make(map[string]bool, len(models))

	for i, elem := range models {
		path := fmt.Sprintf("models[%d]", i)

		entry, isObj := elem.(map[string]any)
		if !isObj {
			*issues = append(*issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
			continue
		}

		*issues = append(*issues, report.PrefixPath(modelSchema.Check(doc.Name, entry), path)...)

		// The cross-references only need id and provider; other structural
		// issues in the entry do not exempt it from them.
		id, _ := entry["id"].(string)
		provider, _ := entry["provider"].(string)
		if id == "" || provider == "" {
			continue
		}

		if !providers[provider] {
			*issues = append(*issues, report.New(report.UnknownProvider, doc.Name, path+".provider",
				"model %q references unknown provider %q", id, provider))
		}

		key := provider + "\x00" + id
		if seen[key] {
			*issues = append(*issues, report.New(report.DuplicateID, doc.Name, path+".id",
				"duplicate model ID %q for provider %q", id, provider))
		}
		seen[key] = true
	}
}

func checkCouncils(doc document.Document, issues *[]report.Issue) {
	raw, ok := schema.Lookup(doc.Data, "presetCouncils")
	councils, isArr := raw.([]any)
	if !ok || !isArr {
		return
	}

	for i, elem := range councils {
		path := fmt.Sprintf("presetCouncils[%d]", i)

		entry, isObj := elem.(map[string]any)
		if !isObj {
			*issues = append(*issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
			continue
		}

		entryIssues := councilSchema.Check(doc.Name, entry)
		*issues = append(*issues, report.PrefixPath(entryIssues, path)...)
		if len(entryIssues) > 0 {
			continue
		}

		var c Council
		if err := (document.Document{Name: doc.Name, Data: entry}).Decode(&c); err != nil {
			*issues = append(*issues, report.New(report.TypeMismatch, doc.Name, path, "%v", err))
			continue
		}

		if len(c.Members) < 2 {
			*issues = append(*issues, report.New(report.OutOfRange, doc.Name, path+".members",
				"a council needs at least 2 members, got %d", len(c.Members)))
		}
		for j, m := range c.Members {
			if m.Provider == "" || m.Model == "" {
				*issues = append(*issues, report.New(report.MissingField, doc.Name,
					fmt.Sprintf("%s.members[%d]", path, j), "each member needs both provider and model"))
			}
		}
		if c.Chairman != nil && (*c.Chairman < 0 || *c.Chairman >= len(c.Members)) {
			*issues = append(*issues, report.New(report.InvalidIndex, doc.Name, path+".chairman",
				"chairman index %d out of range (0-%d)", *c.Chairman, len(c.Members)-1))
		}
	}
}
