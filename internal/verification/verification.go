// Package verification validates the verification badge attached to a
// package registry entry.
//
// The badge binds a trust tier to a content hash for a bounded time. This
// package only checks the record's internal consistency; recomputing the
// content hash against the fetched artifact happens in the installing
// application, not here.
package verification

import (
	"regexp"
	"time"

	"github.com/aiscouncil/registry-check/internal/policy"
	"github.com/aiscouncil/registry-check/internal/report"
)

// Tiers are the scan depths a badge may carry.
var Tiers = []string{"quick", "full", "deep"}

var (
	hashRe  = regexp.MustCompile(`^[0-9a-f]{64}$`)
	jobIDRe = regexp.MustCompile(`^ver_[a-zA-Z0-9]+$`)
)

// dateLayout is the ISO 8601 date form badges are issued with.
const dateLayout = "2006-01-02"

// Record is the verification badge on a package entry.
type Record struct {
	Hash    string `json:"hash"`
	Tier    string `json:"tier"`
	Date    string `json:"date"`
	Expires string `json:"expires"`
	JobID   string `json:"job_id"`
}

// Validator checks verification records against a reference time and the
// platform validity-window policy.
type Validator struct {
	now    time.Time
	policy policy.VerificationConfig
}

// New creates a validator using now as the reference time for expiry.
func New(now time.Time, pol policy.VerificationConfig) Validator {
	return Validator{now: now, policy: pol}
}

// Check validates a single record, reporting issues under docName at path.
// Each rule yields an independent issue; nothing stops at the first hit.
func (v Validator) Check(docName, path string, rec *Record) []report.Issue {
	var issues []report.Issue

	issue := func(k report.Kind, field, format string, args ...any) {
		p := path
		if field != "" {
			p += "." + field
		}
		issues = append(issues, report.New(k, docName, p, format, args...))
	}

	switch {
	case rec.Hash == "":
		issue(report.MissingField, "hash", "required field is missing")
	case !hashRe.MatchString(rec.Hash):
		issue(report.InvalidHashFormat, "hash", "must be 64 lowercase hex characters")
	}

	switch {
	case rec.Tier == "":
		issue(report.MissingField, "tier", "required field is missing")
	default:
		found := false
		for _, t := range Tiers {
			if t == rec.Tier {
				found = true
			}
		}
		if !found {
			issue(report.InvalidEnum, "tier", "value %q not in allowed set %v", rec.Tier, Tiers)
		}
	}

	switch {
	case rec.JobID == "":
		issue(report.MissingField, "job_id", "required field is missing")
	case !jobIDRe.MatchString(rec.JobID):
		issue(report.InvalidFormat, "job_id", "must match ver_[a-zA-Z0-9]+")
	}

	date, dateOK := v.checkDate(&issues, docName, path, "date", rec.Date)
	expires, expiresOK := v.checkDate(&issues, docName, path, "expires", rec.Expires)
	if !dateOK || !expiresOK {
		return issues
	}

	if !expires.After(date) {
		issue(report.InvalidExpiryWindow, "expires", "expiry %s is not after issue date %s", rec.Expires, rec.Date)
	} else if months := v.policy.ValidityMonths; months > 0 && expires.After(date.AddDate(0, months, 0)) {
		issue(report.InvalidExpiryWindow, "expires", "expiry %s exceeds the %d-month validity window from %s", rec.Expires, months, rec.Date)
	}

	if expires.Before(v.now) {
		issue(report.ExpiredBadge, "expires", "badge expired on %s; consumers should treat it as absent", rec.Expires)
	}

	return issues
}

func (v Validator) checkDate(issues *[]report.Issue, docName, path, field, value string) (time.Time, bool) {
	p := path + "." + field
	if value == "" {
		*issues = append(*issues, report.New(report.MissingField, docName, p, "required field is missing"))
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		*issues = append(*issues, report.New(report.InvalidFormat, docName, p, "must be an ISO 8601 date (YYYY-MM-DD)"))
		return time.Time{}, false
	}
	return t, true
}
