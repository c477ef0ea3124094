// Package schema implements the declarative field-rule checker every
// document kind is validated against before any kind-specific logic runs.
//
// A schema is a flat list of rules over dotted field paths. Checking never
// stops at the first problem: contributors get every structural issue in
// one pass. Unknown extra fields are tolerated unless the schema is closed.
package schema

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/aiscouncil/registry-check/internal/report"
)

// Type is the expected runtime type of a field.
type Type int

// Field types, mapped onto what encoding/json produces for each.
const (
	Any Type = iota
	String
	Number
	Integer
	Bool
	Object
	Array
	StringArray
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Bool:
		return "boolean"
	case Object:
		return "object"
	case Array:
		return "array"
	case StringArray:
		return "array of strings"
	default:
		return "any"
	}
}

// FieldRule is a declarative constraint on one field path.
type FieldRule struct {
	// Path is the dotted path of the field within the document.
	Path     string
	Required bool
	Type     Type

	// Enum, when non-empty, closes the value set for a string field or for
	// every element of a string-array field.
	Enum []string

	// Min, when set, is the minimum for a numeric field. Exclusive selects
	// "> Min" over ">= Min".
	Min       *float64
	Exclusive bool

	// Pattern, when set, must match a string field's value. Hint names the
	// expected format in the issue message.
	Pattern *regexp.Regexp
	Hint    string

	// MaxLen, when positive, caps a string's character count or an array's
	// element count.
	MaxLen int

	// Semver requires a string field to be a full three-part semantic
	// version.
	Semver bool

	// URL requires a string field to be a well-formed absolute URL.
	URL bool

	// Nullable accepts an explicit null in place of the typed value.
	Nullable bool
}

// Schema groups the field rules for one document kind.
type Schema struct {
	// Kind is the document kind the schema describes.
	Kind string
	// Rules are checked in order; issues follow rule order.
	Rules []FieldRule
	// Closed rejects top-level fields no rule mentions.
	Closed bool
}

// Min returns a pointer to v, for use in rule literals.
func Min(v float64) *float64 { return &v }

// Lookup resolves a dotted path within a decoded JSON object. The second
// return reports presence, distinguishing absent fields from null ones.
func Lookup(data map[string]any, path string) (any, bool) {
	cur := any(data)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Check applies every rule to the document and returns all structural
// issues found, reported under docName.
func (s Schema) Check(docName string, data map[string]any) []report.Issue {
	var issues []report.Issue

	for _, rule := range s.Rules {
		value, present := Lookup(data, rule.Path)
		if !present {
			if rule.Required {
				issues = append(issues, report.New(report.MissingField, docName, rule.Path,
					"required field is missing"))
			}
			continue
		}
		issues = append(issues, rule.check(docName, value)...)
	}

	if s.Closed {
		issues = append(issues, s.checkClosed(docName, data)...)
	}

	return issues
}

func (r FieldRule) check(docName string, value any) []report.Issue {
	var issues []report.Issue

	issue := func(k report.Kind, format string, args ...any) {
		issues = append(issues, report.New(k, docName, r.Path, format, args...))
	}

	if value == nil && r.Nullable {
		return nil
	}

	switch r.Type {
	case Any:
	case String:
		str, ok := value.(string)
		if !ok {
			issue(report.TypeMismatch, "expected string, got %s", typeName(value))
			return issues
		}
		if len(r.Enum) > 0 && !contains(r.Enum, str) {
			issue(report.InvalidEnum, "value %q not in allowed set %v", str, r.Enum)
		}
		if r.Pattern != nil && !r.Pattern.MatchString(str) {
			hint := r.Hint
			if hint == "" {
				hint = r.Pattern.String()
			}
			issue(report.InvalidFormat, "value %q does not match expected format (%s)", str, hint)
		}
		if r.MaxLen > 0 && len(str) > r.MaxLen {
			issue(report.OutOfRange, "exceeds %d characters", r.MaxLen)
		}
		if r.Semver && !IsSemver(str) {
			issue(report.InvalidFormat, "value %q is not a semantic version (MAJOR.MINOR.PATCH)", str)
		}
		if r.URL && !IsAbsoluteURL(str) {
			issue(report.InvalidFormat, "value %q is not an absolute URL", str)
		}
	case Number, Integer:
		num, ok := value.(float64)
		if !ok {
			issue(report.TypeMismatch, "expected %s, got %s", r.Type, typeName(value))
			return issues
		}
		if r.Type == Integer && num != math.Trunc(num) {
			issue(report.TypeMismatch, "expected integer, got fractional number %v", num)
			return issues
		}
		if r.Min != nil {
			if r.Exclusive && num <= *r.Min {
				issue(report.OutOfRange, "must be greater than %v, got %v", *r.Min, num)
			} else if !r.Exclusive && num < *r.Min {
				issue(report.OutOfRange, "must be at least %v, got %v", *r.Min, num)
			}
		}
	case Bool:
		if _, ok := value.(bool); !ok {
			issue(report.TypeMismatch, "expected boolean, got %s", typeName(value))
		}
	case Object:
		if _, ok := value.(map[string]any); !ok {
			issue(report.TypeMismatch, "expected object, got %s", typeName(value))
		}
	case Array:
		arr, ok := value.([]any)
		if !ok {
			issue(report.TypeMismatch, "expected array, got %s", typeName(value))
			return issues
		}
		if r.MaxLen > 0 && len(arr) > r.MaxLen {
			issue(report.OutOfRange, "exceeds %d entries", r.MaxLen)
		}
	case StringArray:
		arr, ok := value.([]any)
		if !ok {
			issue(report.TypeMismatch, "expected array of strings, got %s", typeName(value))
			return issues
		}
		if r.MaxLen > 0 && len(arr) > r.MaxLen {
			issue(report.OutOfRange, "exceeds %d entries", r.MaxLen)
		}
		for i, elem := range arr {
			str, ok := elem.(string)
			if !ok {
				issue(report.TypeMismatch, "element %d: expected string, got %s", i, typeName(elem))
				continue
			}
			if len(r.Enum) > 0 && !contains(r.Enum, str) {
				issue(report.InvalidEnum, "element %d: value %q not in allowed set %v", i, str, r.Enum)
			}
		}
	}

	return issues
}

func (s Schema) checkClosed(docName string, data map[string]any) []report.Issue {
	allowed := make(map[string]bool, len(s.Rules))
	for _, rule := range s.Rules {
		root, _, _ := strings.Cut(rule.Path, ".")
		allowed[root] = true
	}

	var unknown []string
	for key := range data {
		if !allowed[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)

	var issues []report.Issue
	for _, key := range unknown {
		issues = append(issues, report.New(report.TypeMismatch, docName, key,
			"field is not part of the %s document", s.Kind))
	}
	return issues
}

// IsSemver reports whether s is a full semantic version. go-version also
// accepts shorthand like "1.2" and a leading "v", neither of which registry
// entries may use, so the digit-first three-part core is checked explicitly.
func IsSemver(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	if _, err := goversion.NewSemver(s); err != nil {
		return false
	}
	core, _, _ := strings.Cut(s, "-")
	core, _, _ = strings.Cut(core, "+")
	return strings.Count(core, ".") == 2
}

// IsAbsoluteURL reports whether s parses as a URL with a scheme and host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
