// Package registry validates the model and package registry documents:
// per-entry structure first, then uniqueness and referential integrity
// across the whole document.
package registry

import (
	"github.com/aiscouncil/registry-check/internal/verification"
)

// Closed value sets for registry entries. These mirror what the platform
// runtime accepts; extending them is a platform release, not a data change.
var (
	// Capabilities a model entry may declare.
	Capabilities = []string{"vision", "tools", "streaming", "json_mode", "reasoning", "code"}

	// ModelTiers are the model pricing classes.
	ModelTiers = []string{"free", "paid", "enterprise"}

	// AuthTypes a provider may use to pass credentials.
	AuthTypes = []string{"header", "query", "none"}

	// WireFormats a provider endpoint may speak.
	WireFormats = []string{"openai", "anthropic", "google"}

	// PackageTypes are the runtime contract kinds for packages.
	PackageTypes = []string{"plugin", "addon", "mini-program"}

	// RegistryTiers are the marketplace trust levels.
	RegistryTiers = []string{"community", "ai-verified", "verified", "platform"}

	// CouncilStyles are the preset council orchestration styles.
	CouncilStyles = []string{"research", "compare", "arena", "moa", "router", "debate", "consensus"}
)

// Provider is one entry of the model registry's provider table.
type Provider struct {
	Name       string `json:"name"`
	BaseURL    string `json:"baseUrl"`
	AuthType   string `json:"authType"`
	AuthHeader string `json:"authHeader"`
	AuthParam  string `json:"authParam"`
	Format     string `json:"format"`
}

// Pricing is a model's per-token pricing, non-negative in both directions.
type Pricing struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Model is one model registry entry.
type Model struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Provider     string   `json:"provider"`
	Context      int      `json:"context"`
	MaxOutput    int      `json:"maxOutput"`
	Pricing      Pricing  `json:"pricing"`
	Capabilities []string `json:"capabilities"`
	Tier         string   `json:"tier"`
}

// CouncilMember is one seat of a preset council.
type CouncilMember struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Council is one preset council entry.
type Council struct {
	Name     string          `json:"name"`
	Style    string          `json:"style"`
	Chairman *int            `json:"chairman"`
	Members  []CouncilMember `json:"members"`
}

// Seller identifies the third party behind a paid package.
type Seller struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Package is one package registry entry.
type Package struct {
	Name         string               `json:"name"`
	Type         string               `json:"type"`
	Version      string               `json:"version"`
	Manifest     string               `json:"manifest"`
	Tier         string               `json:"tier"`
	Price        int                  `json:"price"`
	Currency     string               `json:"currency"`
	Seller       *Seller              `json:"seller"`
	Verification *verification.Record `json:"verification"`
	Category     string               `json:"category"`
}
