// Package sctm parses the System Control Traceability Matrix markdown table
// into control records.
package sctm

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

var (
	// Section headers look like "## 3. Access Control (AC)". The family code
	// in parentheses applies to every data row until the next header.
	familyHeaderRe = regexp.MustCompile(`^##\s*\d+\.\s*.+\(([A-Z]+)\)\s*$`)

	// Control IDs are dotted NIST 800-171 identifiers like "3.1.1".
	controlIDRe = regexp.MustCompile(`^\d+\.\d+\.\d+`)

	toBeCreatedRe = regexp.MustCompile(`(?i)\s*\(to be created\)\s*$`)
)

const headerLabel = "Control ID"

// ParseFile reads and parses the SCTM at path. A read failure is fatal to the
// audit run; there is nothing to audit without the matrix.
func ParseFile(path string) ([]model.Control, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SCTM: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse extracts control records from SCTM markdown text, in document order.
// Rows that are not well-formed control rows (headers, separators, prose) are
// dropped silently; the matrix is a human-edited document and noise is
// expected.
func Parse(text string) []model.Control {
	var controls []model.Control
	family := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := familyHeaderRe.FindStringSubmatch(line); m != nil {
			family = m[1]
			continue
		}

		if !strings.HasPrefix(line, "|") {
			continue
		}

		cells := splitRow(line)
		if len(cells) < 8 {
			continue
		}
		first := cells[0]
		if strings.EqualFold(first, headerLabel) || strings.Contains(first, "---") {
			continue
		}
		if !controlIDRe.MatchString(first) {
			continue
		}

		c := model.Control{ID: first, Family: family}
		if len(cells) >= 10 {
			// 10-column layout carries the verbatim NIST requirement text.
			c.Requirement = cells[1]
			c.NISTRequirement = cells[2]
			c.NISTDiscussion = cells[3]
			c.Status = parseStatus(cells[4])
			c.Policy = cleanReference(cells[5])
			c.Procedure = cleanReference(cells[6])
			c.Evidence = cells[7]
			c.Implementation = cells[8]
			c.SSPSection = cells[9]
		} else {
			c.Requirement = cells[1]
			c.Status = parseStatus(cells[2])
			c.Policy = cleanReference(cells[3])
			c.Procedure = cleanReference(cells[4])
			c.Evidence = cells[5]
			c.Implementation = cells[6]
			c.SSPSection = cells[7]
		}

		controls = append(controls, c)
	}

	return controls
}

// splitRow splits a pipe-delimited table row into trimmed cells, dropping the
// empty fragments produced by the leading and trailing pipes.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if (i == 0 || i == len(parts)-1) && p == "" {
			continue
		}
		cells = append(cells, p)
	}
	return cells
}

// statusMarker pairs a detectable marker with its status, ordered by
// resolution priority. Combined cells like "🔄 Inherited / ✅ Implemented"
// resolve to the first marker in this table that is present.
type statusMarker struct {
	emoji  string
	status model.ControlStatus
}

var statusPriority = []statusMarker{
	{"✅", model.StatusImplemented},
	{"🔄", model.StatusInherited},
	{"🟡", model.StatusPartiallySatisfied},
	{"❌", model.StatusNotImplemented},
	{"🚫", model.StatusNotApplicable},
}

// parseStatus resolves a status cell. Emoji markers win over words; when
// neither matches the conservative default is not_implemented.
func parseStatus(cell string) model.ControlStatus {
	for _, m := range statusPriority {
		if strings.Contains(cell, m.emoji) {
			return m.status
		}
	}

	lower := strings.ToLower(cell)
	// "implemented" is a substring of "not implemented"; mask the negated
	// form before testing the positive one.
	positive := strings.ReplaceAll(lower, "not implemented", "")
	switch {
	case strings.Contains(positive, "implemented"):
		return model.StatusImplemented
	case strings.Contains(lower, "inherit"):
		return model.StatusInherited
	case strings.Contains(lower, "partial"):
		return model.StatusPartiallySatisfied
	case strings.Contains(lower, "not implemented"):
		return model.StatusNotImplemented
	case strings.Contains(lower, "not applicable") || strings.Contains(lower, "n/a"):
		return model.StatusNotApplicable
	}
	return model.StatusNotImplemented
}

// cleanReference strips the "(to be created)" annotation from policy and
// procedure cells. A cell that is empty after cleanup becomes the sentinel.
func cleanReference(cell string) string {
	cell = strings.TrimSpace(toBeCreatedRe.ReplaceAllString(cell, ""))
	if cell == "" {
		return model.NoReference
	}
	return cell
}
