package audit

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/MacTechSolutionsLLC/sctm-audit/internal/model"
)

const maxStoredSnippets = 2

// resolveImplementation checks every implementation reference against the
// source tree and scans located files for control-relevant code patterns.
func (a *Auditor) resolveImplementation(field, controlID, family string) []model.CodeVerification {
	if field == model.NoReference || field == "" {
		return []model.CodeVerification{{
			File:   field,
			Issues: []string{"No implementation reference provided"},
		}}
	}

	patterns := patternsFor(controlID, family)

	items := make([]model.CodeVerification, 0, 1)
	for _, ref := range splitRefs(field) {
		items = append(items, a.verifyImplementationRef(ref, patterns))
	}
	return items
}

func (a *Auditor) verifyImplementationRef(ref string, patterns []string) model.CodeVerification {
	ref = cleanImplementationRef(ref)
	item := model.CodeVerification{File: ref}

	path := filepath.Join(a.cfg.SourceDir, ref)
	switch {
	case dirExists(path):
		return a.verifyImplementationDir(item, path, patterns)
	case fileExists(path):
		return a.verifyImplementationFile(item, path, patterns)
	}

	// Nothing on disk. Prose like "NextAuth.js session management" names a
	// mechanism rather than a file; accepted phrases count as implemented.
	if matchesPhrase(ref, a.cfg.DescriptiveImplementation) {
		item.Exists = true
		item.ContainsRelevantCode = true
		return item
	}

	if hasCodeExtension(ref) || strings.Contains(ref, "/") {
		item.Issues = append(item.Issues, "Implementation file not found: "+ref)
		return item
	}
	item.Issues = append(item.Issues, "Generic implementation reference, cannot verify: "+ref)
	return item
}

// cleanImplementationRef cuts trailing annotations like
// "lib/auth.ts (session management)" down to the path itself.
func cleanImplementationRef(ref string) string {
	for _, ext := range codeExtensions {
		idx := strings.Index(ref, ext)
		if idx < 0 {
			continue
		}
		rest := ref[idx+len(ext):]
		if cut := strings.IndexFunc(rest, unicode.IsSpace); cut >= 0 {
			return ref[:idx+len(ext)+cut]
		}
	}
	return ref
}

// verifyImplementationDir treats a directory reference as implemented when it
// contains any code at all; directories are cited for subsystems, not for
// specific patterns.
func (a *Auditor) verifyImplementationDir(item model.CodeVerification, dir string, patterns []string) model.CodeVerification {
	item.Exists = true

	files := collectCodeFiles(dir, a.cfg.MaxDirFiles)
	if len(files) == 0 {
		item.Issues = append(item.Issues, "No code files found in directory: "+item.File)
		return item
	}
	item.ContainsRelevantCode = true

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		if found, snippets := searchPatterns(string(data), patterns); found {
			item.CodeSnippets = capSnippets(snippets)
			break
		}
	}
	return item
}

func (a *Auditor) verifyImplementationFile(item model.CodeVerification, path string, patterns []string) model.CodeVerification {
	item.Exists = true

	data, err := os.ReadFile(path)
	if err != nil {
		item.Issues = append(item.Issues, "Implementation file not readable: "+item.File)
		return item
	}

	found, snippets := searchPatterns(string(data), patterns)
	switch {
	case found:
		item.ContainsRelevantCode = true
		item.CodeSnippets = capSnippets(snippets)
	case hasCodeExtension(path):
		// A cited code file with no pattern hits still counts; the pattern
		// table is a heuristic, not a full semantic check.
		item.ContainsRelevantCode = true
	default:
		item.Issues = append(item.Issues, "No control-relevant code found in: "+item.File)
	}
	return item
}

func capSnippets(snippets []string) []string {
	if len(snippets) > maxStoredSnippets {
		return snippets[:maxStoredSnippets]
	}
	return snippets
}

// collectCodeFiles walks dir for code files, stopping at the cap so a
// reference to a huge tree does not stall the audit.
func collectCodeFiles(dir string, limit int) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" {
				return fs.SkipDir
			}
			return nil
		}
		if hasCodeExtension(d.Name()) {
			files = append(files, path)
			if len(files) >= limit {
				return fs.SkipAll
			}
		}
		return nil
	})
	return files
}
