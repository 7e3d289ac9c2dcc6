package audit

import (
	"math"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

// Score rates an evidence bundle as a 0-100 compliance percentage. Each
// populated category contributes its weight to the denominator and its earned
// points to the numerator; empty categories are left out entirely rather than
// counted as failures.
func Score(bundle model.EvidenceBundle, claimed model.ControlStatus, w Weights) int {
	// Applicability is decided by the assessor, not by artifacts.
	if claimed == model.StatusNotApplicable {
		return 100
	}

	earned, max := 0, 0

	if n := len(bundle.Policies); n > 0 {
		max += w.Policy
		earned += allOrPartial(countExisting(bundle.Policies), n, w.Policy, w.PartialCredit)
	}
	if n := len(bundle.Procedures); n > 0 {
		max += w.Procedure
		earned += allOrPartial(countExisting(bundle.Procedures), n, w.Procedure, w.PartialCredit)
	}
	if len(bundle.Evidence) > 0 {
		max += w.Evidence
		earned += scoreEvidence(bundle.Evidence, w)
	}
	if len(bundle.CodeVerification) > 0 {
		max += w.Code
		earned += scoreCode(bundle.CodeVerification, w)
	}

	if max == 0 {
		return 0
	}
	score := int(math.Round(100 * float64(earned) / float64(max)))

	// Inherited controls lean on the hosting provider; grant partial credit
	// for the inheritance itself.
	if claimed == model.StatusInherited {
		score += w.InheritedBonus
		if score > 100 {
			score = 100
		}
	}
	return score
}

func countExisting(items []model.EvidenceItem) int {
	n := 0
	for _, it := range items {
		if it.Exists {
			n++
		}
	}
	return n
}

// allOrPartial awards full credit only when every reference resolved, partial
// credit when at least one did.
func allOrPartial(existing, total, full, partial int) int {
	switch {
	case existing == total:
		return full
	case existing > 0:
		return partial
	}
	return 0
}

// scoreEvidence scores the evidence category. Verifiable (file-shaped)
// references earn proportionally to how many resolved; rows backed only by
// descriptive statements earn a reduced flat credit, since prose is not a
// sign of missing work but cannot be checked either.
func scoreEvidence(items []model.EvidenceItem, w Weights) int {
	verifiable, existing, descriptive := 0, 0, 0
	for _, it := range items {
		if verifiableRef(it.Reference) {
			verifiable++
			if it.Exists {
				existing++
			}
		} else if it.Exists {
			descriptive++
		}
	}

	if verifiable > 0 {
		return int(math.Round(float64(w.Evidence) * float64(existing) / float64(verifiable)))
	}
	if descriptive > 0 {
		return w.DescriptiveCredit
	}
	return 0
}

// scoreCode applies the same partition to implementation references, with the
// stricter bar that a verifiable reference must actually contain
// control-relevant code to count.
func scoreCode(items []model.CodeVerification, w Weights) int {
	verifiable, relevant, descriptive := 0, 0, 0
	for _, it := range items {
		if verifiableRef(it.File) {
			verifiable++
			if it.Exists && it.ContainsRelevantCode {
				relevant++
			}
		} else if it.Exists && it.ContainsRelevantCode {
			descriptive++
		}
	}

	if verifiable > 0 {
		return int(math.Round(float64(w.Code) * float64(relevant) / float64(verifiable)))
	}
	if descriptive > 0 {
		return w.DescriptiveCredit
	}
	return 0
}

// verifiableRef reports whether a reference is file-shaped: a markdown name,
// a MAC- document id, or any slash path (which covers /api/ and /admin/
// routes). Everything else is a descriptive statement and earns the flat
// reduced credit instead of the proportional one.
func verifiableRef(ref string) bool {
	if ref == model.NoReference || ref == "" {
		return false
	}
	return strings.HasSuffix(ref, ".md") ||
		strings.HasPrefix(ref, "MAC-") ||
		strings.Contains(ref, "/")
}
