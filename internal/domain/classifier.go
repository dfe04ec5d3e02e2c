// Package domain implements the classification, grouping, and selection
// engine that turns a scanned file list into per-title Game records, plus
// the normalization and layout stages built around it.
package domain

import (
	"path/filepath"
	"regexp"
	"strings"

	m "nxsort.dev/pkg/nxsort/internal/model"
)

var (
	bracketTitleIDPattern = regexp.MustCompile(`\[([0-9A-Fa-f]{16})\]`)
	bareTitleIDPattern    = regexp.MustCompile(`[0-9A-Fa-f]{16}`)

	// Ordered by specificity: explicit v-prefixed versions win over bare
	// dotted tokens, underscore variants normalize to dotted form.
	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[vV](\d+(?:\.\d+)+)`),
		regexp.MustCompile(`[vV](\d+(?:_\d+)+)`),
		regexp.MustCompile(`\b[vV](\d+)\b`),
		regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(\d+_\d+(?:_\d+)?)`),
	}

	bracketTagPattern   = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	versionTokenPattern = regexp.MustCompile(`(?i)\bv?\d+(?:[._]\d+)+\b|\bv\d+\b`)
	keywordTokenPattern = regexp.MustCompile(`(?i)\b(?:update|patch|upd|dlc)\s*\d*\b`)

	separatorReplacer = strings.NewReplacer("_", " ", "-", " ")
)

// filenameFacts are the inputs the classification rules are evaluated over.
type filenameFacts struct {
	lower   string
	ext     m.Extension
	titleID string
	version string
}

// contentRule is one (predicate, kind) entry of the ordered classification
// policy. Rules are evaluated in priority order; the first match wins.
type contentRule struct {
	name    string
	applies func(f filenameFacts) bool
	kind    m.ContentKind
}

// Classifier parses a file's name and extension into descriptor fields.
// It is a pure function of its inputs: no filesystem access, no logging.
type Classifier struct {
	rules []contentRule
}

// NewClassifier builds the rule list. ambiguousPackageKind is the kind
// assigned to package files that match no keyword or version rule. Packages
// are more commonly updates than loose DLC, so Update is the conventional
// default, but the misclassification risk is asymmetric enough that the
// policy is caller-configurable.
func NewClassifier(ambiguousPackageKind m.ContentKind) *Classifier {
	return &Classifier{
		rules: []contentRule{
			{
				name: "dlc-keyword",
				applies: func(f filenameFacts) bool {
					return strings.Contains(f.lower, "dlc")
				},
				kind: m.KindDLC,
			},
			{
				name: "dlc-title-id-suffix",
				applies: func(f filenameFacts) bool {
					return len(f.titleID) == 16 && f.titleID[13:15] == "00" && f.titleID[15] != '0'
				},
				kind: m.KindDLC,
			},
			{
				name: "update-keyword",
				applies: func(f filenameFacts) bool {
					return strings.Contains(f.lower, "upd") || strings.Contains(f.lower, "patch")
				},
				kind: m.KindUpdate,
			},
			{
				name: "update-title-id-suffix",
				applies: func(f filenameFacts) bool {
					return len(f.titleID) == 16 && strings.HasSuffix(f.titleID, "800")
				},
				kind: m.KindUpdate,
			},
			{
				name: "package-version-token",
				applies: func(f filenameFacts) bool {
					return !f.ext.BaseImage() && f.version != ""
				},
				kind: m.KindUpdate,
			},
			{
				name: "base-image-extension",
				applies: func(f filenameFacts) bool {
					return f.ext.BaseImage()
				},
				kind: m.KindBase,
			},
			{
				name:    "ambiguous-package",
				applies: func(filenameFacts) bool { return true },
				kind:    ambiguousPackageKind,
			},
		},
	}
}

// Classify parses filename into descriptor fields. Path and Size are left
// for the scanner to fill in. Files with an unrecognized extension come
// back as KindUnknown.
func (c *Classifier) Classify(filename string) m.FileDescriptor {
	base := filepath.Base(filename)
	ext := m.ParseExtension(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	facts := filenameFacts{
		lower:   strings.ToLower(stem),
		ext:     ext,
		titleID: ExtractTitleID(stem),
		version: ExtractVersion(stem),
	}

	desc := m.FileDescriptor{
		Extension:   ext,
		Title:       extractTitle(stem, facts.titleID),
		VersionHint: facts.version,
		TitleID:     facts.titleID,
		ContentKind: m.KindUnknown,
	}

	if !ext.Recognized() {
		return desc
	}

	for _, rule := range c.rules {
		if rule.applies(facts) {
			desc.ContentKind = rule.kind
			break
		}
	}

	return desc
}

// ExtractTitleID pulls a 16-digit hex title ID out of a filename stem,
// preferring the bracketed form.
func ExtractTitleID(stem string) string {
	if match := bracketTitleIDPattern.FindStringSubmatch(stem); match != nil {
		return strings.ToUpper(match[1])
	}

	if match := bareTitleIDPattern.FindString(stem); match != "" {
		return strings.ToUpper(match)
	}

	return ""
}

// BaseTitleID derives the base game's title ID from any related content ID:
// the first 13 digits plus "000". Updates and DLC of one game share it.
func BaseTitleID(titleID string) string {
	if len(titleID) != 16 {
		return titleID
	}

	return titleID[:13] + "000"
}

// ExtractVersion returns the first version token in the stem, normalized to
// dotted form, or "" when none is present.
func ExtractVersion(stem string) string {
	for _, pattern := range versionPatterns {
		if match := pattern.FindStringSubmatch(stem); match != nil {
			return strings.ReplaceAll(match[1], "_", ".")
		}
	}

	return ""
}

// extractTitle strips bracketed tags, title IDs, version tokens, and
// content keywords from the stem and collapses the rest. Idempotent:
// re-extracting from a clean title returns it unchanged.
func extractTitle(stem, titleID string) string {
	s := stripVersionToken(stem)
	s = bracketTagPattern.ReplaceAllString(s, " ")
	s = separatorReplacer.Replace(s)
	s = bareTitleIDPattern.ReplaceAllString(s, " ")
	s = versionTokenPattern.ReplaceAllString(s, " ")
	s = keywordTokenPattern.ReplaceAllString(s, " ")

	title := strings.Join(strings.Fields(s), " ")
	if title != "" {
		return title
	}

	if titleID != "" {
		return "Game_" + titleID
	}

	return stem
}

// stripVersionToken removes the first version token from the raw stem, before
// separators are rewritten, so underscore variants like v1_2 go away whole.
func stripVersionToken(stem string) string {
	for _, pattern := range versionPatterns {
		if loc := pattern.FindStringIndex(stem); loc != nil {
			return stem[:loc[0]] + " " + stem[loc[1]:]
		}
	}

	return stem
}
