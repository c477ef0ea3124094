package verification_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiscouncil/registry-check/internal/policy"
	"github.com/aiscouncil/registry-check/internal/report"
	"github.com/aiscouncil/registry-check/internal/verification"
)

const validHash = "a3f1c2d4e5b6978877665544332211009988776655443322110099887766aabb"

func validRecord() verification.Record {
	return verification.Record{
		Hash:    validHash,
		Tier:    "full",
		Date:    "2026-01-01",
		Expires: "2026-07-01",
		JobID:   "ver_abc123",
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		mutate         func(r *verification.Record)
		validityMonths int

		wantKinds []report.Kind
	}{
		"Valid record": {},
		"Missing hash": {
			mutate:    func(r *verification.Record) { r.Hash = "" },
			wantKinds: []report.Kind{report.MissingField},
		},
		"Hash too short": {
			mutate:    func(r *verification.Record) { r.Hash = "abc123" },
			wantKinds: []report.Kind{report.InvalidHashFormat},
		},
		"Hash with uppercase hex": {
			mutate:    func(r *verification.Record) { r.Hash = strings.ToUpper(validHash) },
			wantKinds: []report.Kind{report.InvalidHashFormat},
		},
		"Unknown tier": {
			mutate:    func(r *verification.Record) { r.Tier = "thorough" },
			wantKinds: []report.Kind{report.InvalidEnum},
		},
		"Missing tier": {
			mutate:    func(r *verification.Record) { r.Tier = "" },
			wantKinds: []report.Kind{report.MissingField},
		},
		"Job ID without prefix": {
			mutate:    func(r *verification.Record) { r.JobID = "abc123" },
			wantKinds: []report.Kind{report.InvalidFormat},
		},
		"Malformed date": {
			mutate:    func(r *verification.Record) { r.Date = "January 1st" },
			wantKinds: []report.Kind{report.InvalidFormat},
		},
		"Missing expires": {
			mutate:    func(r *verification.Record) { r.Expires = "" },
			wantKinds: []report.Kind{report.MissingField},
		},
		"Expires equal to issue date": {
			mutate:    func(r *verification.Record) { r.Expires = "2026-01-01" },
			wantKinds: []report.Kind{report.InvalidExpiryWindow, report.ExpiredBadge},
		},
		"Expires beyond the validity window": {
			mutate:         func(r *verification.Record) { r.Expires = "2027-06-01" },
			validityMonths: 12,
			wantKinds:      []report.Kind{report.InvalidExpiryWindow},
		},
		"Window disabled accepts long expiry": {
			mutate:         func(r *verification.Record) { r.Expires = "2030-01-01" },
			validityMonths: 0,
		},
		"Expired badge warns": {
			mutate: func(r *verification.Record) {
				r.Date = "2025-01-01"
				r.Expires = "2025-06-01"
			},
			wantKinds: []report.Kind{report.ExpiredBadge},
		},
		"Everything missing reports every field": {
			mutate: func(r *verification.Record) { *r = verification.Record{} },
			wantKinds: []report.Kind{
				report.MissingField, report.MissingField, report.MissingField,
				report.MissingField, report.MissingField,
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := validRecord()
			if tc.mutate != nil {
				tc.mutate(&rec)
			}
			v := verification.New(now, policy.VerificationConfig{ValidityMonths: tc.validityMonths})

			issues := v.Check("packages.json", "packages[0].verification", &rec)

			require.Len(t, issues, len(tc.wantKinds), "Unexpected issue count: %v", issues)
			for i, want := range tc.wantKinds {
				assert.Equal(t, want, issues[i].Kind, "Issue %d kind", i)
				assert.True(t, strings.HasPrefix(issues[i].Path, "packages[0].verification."),
					"Issues should be located under the record path, got %q", issues[i].Path)
			}
		})
	}
}

// An inverted window must be rejected without tripping the expiry warning
// when the run predates the expiry date.
func TestCheckInvertedWindow(t *testing.T) {
	t.Parallel()

	rec := verification.Record{
		Hash:    validHash,
		Tier:    "full",
		Date:    "2026-01-01",
		Expires: "2025-01-01",
		JobID:   "ver_abc123",
	}
	v := verification.New(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), policy.VerificationConfig{ValidityMonths: 12})

	issues := v.Check("packages.json", "packages[0].verification", &rec)

	require.Len(t, issues, 1, "Only the window inversion should be reported: %v", issues)
	assert.Equal(t, report.InvalidExpiryWindow, issues[0].Kind, "Issue kind")
	assert.Equal(t, "packages[0].verification.expires", issues[0].Path, "Issue path")
	assert.Equal(t, report.SeverityError, issues[0].Severity, "Window inversion severity")
}

func TestExpiredBadgeIsOnlyAWarning(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	v := verification.New(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), policy.VerificationConfig{})

	issues := v.Check("packages.json", "packages[2].verification", &rec)

	require.Len(t, issues, 1, "Unexpected issues: %v", issues)
	assert.Equal(t, report.ExpiredBadge, issues[0].Kind, "Issue kind")
	assert.Equal(t, report.SeverityWarning, issues[0].Severity, "An expired badge should not block acceptance")
}
