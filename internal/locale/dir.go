package locale

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ubuntu/decorate"

	"github.com/aiscouncil/registry-check/internal/constants"
	"github.com/aiscouncil/registry-check/internal/document"
	"github.com/aiscouncil/registry-check/internal/report"
)

// CheckDir validates every locale file in dir against the already-loaded
// source document. A file that fails to parse contributes its single fatal
// issue and does not stop the siblings.
func CheckDir(dir string, source document.Document) (issues []report.Issue, err error) {
	defer decorate.OnError(&err, "could not validate locale directory %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == constants.DocumentExtension &&
			e.Name() != filepath.Base(source.Name) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		slog.Warn("No locale files found besides the source", "dir", dir)
	}

	for _, file := range files {
		target, err := document.Load(file)
		if err != nil {
			issues = append(issues, document.FailureIssue(file, err))
			continue
		}
		fileIssues := Check(source, target)
		slog.Debug("Validated locale file", "file", file, "issues", len(fileIssues))
		issues = append(issues, fileIssues...)
	}

	return issues, nil
}
