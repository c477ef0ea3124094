// Package policy holds the platform policy parameters the checkers consult.
//
// Policy is configuration, not code: the supported ABI set, the badge
// validity window, and extra permission grants are all expected to evolve
// without a validator release.
package policy

import "github.com/aiscouncil/registry-check/internal/constants"

// Config is the validation policy for one run.
type Config struct {
	ABI          ABIConfig          `mapstructure:"abi"`
	Verification VerificationConfig `mapstructure:"verification"`
	Permissions  PermissionsConfig  `mapstructure:"permissions"`
	Locale       LocaleConfig       `mapstructure:"locale"`
}

// ABIConfig lists the platform ABI versions manifests may target.
type ABIConfig struct {
	Supported []int `mapstructure:"supported"`
}

// VerificationConfig bounds verification badge lifetimes.
// A zero ValidityMonths disables the window check; expiry strictly after
// the issue date is checked regardless.
type VerificationConfig struct {
	ValidityMonths int `mapstructure:"validity_months"`
}

// PermissionsConfig extends the fixed permission enumeration.
type PermissionsConfig struct {
	Extra []string `mapstructure:"extra"`
}

// LocaleConfig selects the source-of-truth locale file.
type LocaleConfig struct {
	Source string `mapstructure:"source"`
}

// Default returns the platform default policy.
func Default() Config {
	return Config{
		ABI:          ABIConfig{Supported: []int{1}},
		Verification: VerificationConfig{ValidityMonths: constants.DefaultValidityMonths},
		Locale:       LocaleConfig{Source: constants.DefaultSourceLocale},
	}
}

// SupportsABI reports whether abi is a recognized platform ABI version.
func (c Config) SupportsABI(abi int) bool {
	for _, v := range c.ABI.Supported {
		if v == abi {
			return true
		}
	}
	return false
}
