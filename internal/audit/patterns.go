package audit

import (
	"strings"
	"unicode/utf8"
)

// familyPatterns maps NIST 800-171 family codes to the code identifiers that
// signal an implementation of that family's controls. Matching is a
// case-insensitive substring check, so "auth" also hits "requireAuth".
var familyPatterns = map[string][]string{
	"AC": {"auth", "requireAuth", "middleware", "session", "role", "permission", "rbac", "lockout"},
	"AT": {"training", "awareness", "acknowledgment"},
	"AU": {"audit", "auditLog", "logger", "logEvent", "timestamp"},
	"CM": {"config", "baseline", "env", "version", "changelog"},
	"IA": {"password", "bcrypt", "credential", "identifier", "authenticate", "login"},
	"IR": {"incident", "alert", "escalation", "response"},
	"MA": {"maintenance", "backup", "restore"},
	"MP": {"media", "sanitize", "encrypt", "disposal"},
	"PE": {"physical", "facility", "visitor", "badge"},
	"PS": {"personnel", "termination", "deactivate", "offboard"},
	"RA": {"risk", "vulnerability", "scan", "assessment"},
	"CA": {"assessment", "poam", "monitoring", "review"},
	"SC": {"tls", "https", "encrypt", "crypto", "session", "boundary", "csp"},
	"SI": {"integrity", "patch", "sanitize", "validate", "zod", "monitor"},
}

// controlPatterns overrides familyPatterns for controls whose requirement is
// narrower than the family theme.
var controlPatterns = map[string][]string{
	"3.1.8":  {"lockout", "failedAttempts", "maxAttempts"},
	"3.5.3":  {"mfa", "totp", "twoFactor", "webauthn", "otp"},
	"3.5.10": {"bcrypt", "hash", "salt"},
	"3.8.9":  {"backup", "restore"},
	"3.13.8": {"tls", "https", "ssl"},
	"3.14.4": {"malware", "antivirus", "defender"},
}

// patternsFor returns the search patterns for one control, most specific
// source first.
func patternsFor(controlID, family string) []string {
	if p, ok := controlPatterns[controlID]; ok {
		return p
	}
	if p, ok := familyPatterns[family]; ok {
		return p
	}
	return []string{"security", "auth", "validate"}
}

const (
	maxSnippets    = 3
	maxSnippetLen  = 200
	snippetContext = 1
)

// searchPatterns scans source text for any of the control's patterns and
// returns short matching excerpts with one line of surrounding context.
func searchPatterns(text string, patterns []string) (bool, []string) {
	lines := strings.Split(text, "\n")
	var snippets []string

	for i, line := range lines {
		lower := strings.ToLower(line)
		matched := false
		for _, p := range patterns {
			if strings.Contains(lower, strings.ToLower(p)) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		start := i - snippetContext
		if start < 0 {
			start = 0
		}
		end := i + snippetContext + 1
		if end > len(lines) {
			end = len(lines)
		}
		snippet := truncateSnippet(strings.TrimSpace(strings.Join(lines[start:end], "\n")))
		snippets = append(snippets, snippet)
		if len(snippets) >= maxSnippets {
			break
		}
	}

	return len(snippets) > 0, snippets
}

// truncateSnippet caps a snippet at maxSnippetLen bytes without splitting a
// multi-byte rune; snippets end up in JSON exports and must stay valid UTF-8.
func truncateSnippet(s string) string {
	if len(s) <= maxSnippetLen {
		return s
	}
	cut := maxSnippetLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
