package audit

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

// splitRefs breaks a comma-separated reference cell into trimmed tokens.
func splitRefs(field string) []string {
	var refs []string
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			refs = append(refs, part)
		}
	}
	return refs
}

// resolvePolicies maps every policy reference in the cell to an evidence item.
// The sentinel cell still yields one non-existing item so the scorer sees the
// category as populated.
func (a *Auditor) resolvePolicies(field string) []model.EvidenceItem {
	if field == model.NoReference || field == "" {
		return []model.EvidenceItem{{
			Reference: field,
			Issues:    []string{"No policy reference provided"},
		}}
	}

	items := make([]model.EvidenceItem, 0, 1)
	for _, ref := range splitRefs(field) {
		items = append(items, a.resolvePolicy(ref))
	}
	return items
}

// resolvePolicy locates a single policy document. Policies live flat in the
// policies directory as "<ref>.md", with numbered variants like
// "MAC-POL-210_Access_Control.md" matched by prefix.
func (a *Auditor) resolvePolicy(ref string) model.EvidenceItem {
	item := model.EvidenceItem{Reference: ref}

	exact := filepath.Join(a.cfg.PoliciesDir, ref+".md")
	if fileExists(exact) {
		item.Exists = true
		item.Path = exact
		return item
	}

	if path := matchPrefix(a.cfg.PoliciesDir, ref); path != "" {
		item.Exists = true
		item.Path = path
		return item
	}

	item.Issues = append(item.Issues, "Policy file not found: "+ref)
	return item
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// matchPrefix finds the first markdown file in dir named "<ref>_*". Directory
// listings come back sorted, so the match is deterministic.
func matchPrefix(dir, ref string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ref+"_") && strings.HasSuffix(name, ".md") {
			return filepath.Join(dir, name)
		}
	}
	return ""
}
