// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

package validation

import "strings"

// Outcome is the severity of a validation result.
type Outcome int

const (
	// OutcomePassed: the data is complete and well-formed.
	OutcomePassed Outcome = iota
	// OutcomePartial: usable but flagged; commits with partial_data set
	// and withholds the unit's completion marker.
	OutcomePartial
	// OutcomeRejected: structurally broken or implausible; the record does
	// not commit and the unit dead-letters with reasons attached.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomePartial:
		return "partial"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Report is the result of validating one entity or one entity set.
type Report struct {
	Outcome Outcome
	Reasons []string
}

// Passed reports whether validation found nothing to flag.
func (r Report) Passed() bool { return r.Outcome == OutcomePassed }

// Rejected reports whether the data must not commit.
func (r Report) Rejected() bool { return r.Outcome == OutcomeRejected }

// Reason joins the accumulated reasons for logging and dead-letter rows.
func (r Report) Reason() string { return strings.Join(r.Reasons, "; ") }

// Merge folds another report into r, keeping the worse outcome and all
// reasons. Used when a work unit validates several entity sets.
func (r Report) Merge(other Report) Report {
	out := r
	if other.Outcome > out.Outcome {
		out.Outcome = other.Outcome
	}
	out.Reasons = append(out.Reasons, other.Reasons...)
	return out
}

func passed() Report {
	return Report{Outcome: OutcomePassed}
}

func partial(reasons ...string) Report {
	return Report{Outcome: OutcomePartial, Reasons: reasons}
}

func rejected(reasons ...string) Report {
	return Report{Outcome: OutcomeRejected, Reasons: reasons}
}
