package registry

import (
	"fmt"
	"regexp"
	"time"

	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/policy"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/schema"
	"github.com/aiscouncil/registry-check/internal/verification"
)

var packageRegistrySchema = schema.Schema{
	Kind: "package-registry",
	Rules: []schema.FieldRule{
		{Path: "version", Required: true},
		{Path: "packages", Required: true, Type: schema.Array},
	},
}

var packageSchema = schema.Schema{
	Kind: "package",
	Rules: []schema.FieldRule{
		{Path: "name", Required: true, Type: schema.String},
		{Path: "type", Required: true, Type: schema.String, Enum: PackageTypes},
		{Path: "version", Required: true, Type: schema.String, Semver: true},
		{Path: "manifest", Required: true, Type: schema.String, URL: true},
		{Path: "tier", Type: schema.String, Enum: RegistryTiers},
		{Path: "price", Type: schema.Integer, Min: schema.Min(0)},
		{Path: "currency", Type: schema.String, Pattern: currencyRe, Hint: "three-letter ISO currency code"},
		{Path: "seller", Type: schema.Object, Nullable: true},
		{Path: "verification", Type: schema.Object},
		{Path: "category", Type: schema.String},
	},
}

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// PackagesChecker validates the package registry. The reference time and
// policy feed the verification badge checks.
type PackagesChecker struct {
	badges verification.Validator
}

// NewPackagesChecker creates a checker using now for badge expiry.
func NewPackagesChecker(now time.Time, pol policy.Config) PackagesChecker {
	return PackagesChecker{badges: verification.New(now, pol.Verification)}
}

// Check validates the package registry document: per-entry structure,
// name uniqueness, seller and tier policy, and verification badges.
func (c PackagesChecker) Check(doc document.Document) []report.Issue {
	issues := packageRegistrySchema.Check(doc.Name, doc.Data)

	raw, ok := schema.Lookup(doc.Data, "packages")
	packages, isArr := raw.([]any)
	if !ok || !isArr {
		return issues
	}

	// First occurrence of a name is canonical; later ones are duplicates.
	seen := make(map[string]bool, len(packages))

	for i, elem := range packages {
		path := fmt.Sprintf("packages[%d]", i)

		entry, isObj := elem.(map[string]any)
		if !isObj {
			issues = append(issues, report.New(report.TypeMismatch, doc.Name, path, "expected object"))
			continue
		}

		entryIssues := packageSchema.Check(doc.Name, entry)
		issues = append(issues, report.PrefixPath(entryIssues, path)...)

		// Uniqueness is tracked on the raw name; a structurally broken
		// entry still occupies its name.
		if name, ok := entry["name"].(string); ok && name != "" {
			if seen[name] {
				issues = append(issues, report.New(report.DuplicateName, doc.Name, path+".name",
					"duplicate package name %q", name))
			}
			seen[name] = true
		}

		if len(entryIssues) > 0 {
			continue
		}

		var p Package
		if err := (document.Document{Name: doc.Name, Data: entry}).Decode(&p); err != nil {
			issues = append(issues, report.New(report.TypeMismatch, doc.Name, path, "%v", err))
			continue
		}
		if p.Tier == "" {
			p.Tier = "community"
		}

		issues = append(issues, c.checkEntry(doc.Name, path, entry, &p)...)
	}

	return issues
}

// checkEntry applies the policy rules that relate fields of a single,
// structurally valid package entry to each other.
func (c PackagesChecker) checkEntry(docName, path string, entry map[string]any, p *Package) []report.Issue {
	var issues []report.Issue

	_, sellerPresent := entry["seller"]
	sellerNull := sellerPresent && p.Seller == nil

	if p.Price > 0 {
		switch {
		case p.Seller == nil:
			issues = append(issues, report.New(report.MissingSeller, docName, path+".seller",
				"paid package %q needs a seller with name and id", p.Name))
		case p.Seller.Name == "" || p.Seller.ID == "":
			issues = append(issues, report.New(report.MissingSeller, docName, path+".seller",
				"seller of paid package %q needs a non-empty name and id", p.Name))
		}
	}

	// Platform-owned packages carry no third-party seller.
	if p.Tier == "platform" && sellerPresent && !sellerNull {
		issues = append(issues, report.New(report.InvalidEnum, docName, path+".seller",
			"platform tier requires seller to be null"))
	}

	switch {
	case p.Verification != nil:
		issues = append(issues, c.badges.Check(docName, path+".verification", p.Verification)...)
	case p.Tier == "ai-verified":
		issues = append(issues, report.New(report.MissingVerification, docName, path+".verification",
			"ai-verified tier requires a verification record"))
	}

	return issues
}
