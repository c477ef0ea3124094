// Package document loads registry JSON documents and decodes them into the
// typed structures the checkers work with.
//
// Documents are immutable inputs: nothing here, or in any checker, writes
// back to the source files.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"

	"github.com/aiscouncil/registry-check/internal/report"
)

// ErrParse wraps any failure to produce a JSON object from the input.
// It is fatal for the affected document only.
var ErrParse = errors.New("document is not a valid JSON object")

// Document is one parsed JSON document together with the name issues are
// reported under (usually the file base name).
type Document struct {
	Name string
	Data map[string]any
}

// Load reads and parses a JSON document from path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return Parse(path, data)
}

// Parse parses raw JSON into a document reported under name.
func Parse(name string, data []byte) (Document, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return Document{}, fmt.Errorf("%w: root is not an object", ErrParse)
	}
	return Document{Name: name, Data: obj}, nil
}

// FailureIssue converts a load or parse error into the single fatal issue
// that replaces all other findings for the document.
func FailureIssue(name string, err error) report.Issue {
	return report.New(report.ParseFailure, name, "", "%v", err)
}

// Decode decodes the document into a typed structure, honoring json struct
// tags. Unknown fields are left behind rather than rejected; structural
// problems are the schema checker's to report.
func (d Document) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: false,
	})
	if err != nil {
		return fmt.Errorf("could not create decoder: %w", err)
	}
	if err := dec.Decode(d.Data); err != nil {
		return fmt.Errorf("could not decode %s: %w", d.Name, err)
	}
	return nil
}
