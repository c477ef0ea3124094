// Package report defines the issue taxonomy shared by every checker and the
// aggregation of issues into a single pass/fail report.
package report

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the class of a validation issue.
type Kind string

// Issue kinds emitted by the checkers.
const (
	MissingField        Kind = "missing_field"
	TypeMismatch        Kind = "type_mismatch"
	InvalidEnum         Kind = "invalid_enum"
	OutOfRange          Kind = "out_of_range"
	InvalidFormat       Kind = "invalid_format"
	UnsupportedAbi      Kind = "unsupported_abi"
	UnknownPermission   Kind = "unknown_permission"
	UnknownProvider     Kind = "unknown_provider"
	DuplicateID         Kind = "duplicate_id"
	DuplicateName       Kind = "duplicate_name"
	MissingSeller       Kind = "missing_seller"
	MissingVerification Kind = "missing_verification"
	InvalidHashFormat   Kind = "invalid_hash_format"
	InvalidExpiryWindow Kind = "invalid_expiry_window"
	ExpiredBadge        Kind = "expired_badge"
	MissingKey          Kind = "missing_key"
	ExtraKey            Kind = "extra_key"
	PlaceholderMismatch Kind = "placeholder_mismatch"
	MetaMismatch        Kind = "meta_mismatch"
	ForbiddenPattern    Kind = "forbidden_pattern"
	InvalidIndex        Kind = "invalid_index"
	EmptyValue          Kind = "empty_value"
	VersionMismatch     Kind = "version_mismatch"
	ParseFailure        Kind = "parse_failure"
)

// Severity classifies how an issue affects the overall result.
type Severity string

// Severities, in increasing order of impact. Warnings never block
// acceptance; a fatal issue replaces all other findings for its document.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// severities maps each issue kind to its fixed severity. Kinds absent from
// the map are errors.
var severities = map[Kind]Severity{
	UnknownPermission: SeverityWarning,
	ExpiredBadge:      SeverityWarning,
	EmptyValue:        SeverityWarning,
	ParseFailure:      SeverityFatal,
}

// SeverityOf returns the severity assigned to a kind.
func SeverityOf(k Kind) Severity {
	if s, ok := severities[k]; ok {
		return s
	}
	return SeverityError
}

// Issue is a single validation finding, located by document and field path.
type Issue struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Severity Severity `json:"severity" yaml:"severity"`
	Document string   `json:"document,omitempty" yaml:"document,omitempty"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

// New creates an issue of the given kind, with its severity taken from the
// fixed taxonomy.
func New(k Kind, document, path, format string, args ...any) Issue {
	return Issue{
		Kind:     k,
		Severity: SeverityOf(k),
		Document: document,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	}
}

// PrefixPath rewrites the path of every issue to sit under prefix, used
// when a checker validates one entry of a larger document.
func PrefixPath(issues []Issue, prefix string) []Issue {
	for i := range issues {
		if issues[i].Path == "" {
			issues[i].Path = prefix
		} else {
			issues[i].Path = prefix + "." + issues[i].Path
		}
	}
	return issues
}

// Report is the aggregated outcome of one validation run.
type Report struct {
	RunID    string  `json:"runId" yaml:"runId"`
	Passed   bool    `json:"passed" yaml:"passed"`
	Errors   int     `json:"errors" yaml:"errors"`
	Warnings int     `json:"warnings" yaml:"warnings"`
	Issues   []Issue `json:"issues" yaml:"issues"`
}

// Aggregate collects issues into a report. The report passes iff no issue
// has error or fatal severity; document order of issues is preserved.
func Aggregate(issues []Issue) Report {
	r := Report{
		RunID:  uuid.NewString(),
		Issues: issues,
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityWarning:
			r.Warnings++
		default:
			r.Errors++
		}
	}
	r.Passed = r.Errors == 0
	return r
}
