package domain

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	m "nxsort.dev/pkg/nxsort/internal/model"
)

var nonAlphanumericPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle computes the grouping key for a title: case-folded with
// bracketed tags and all punctuation stripped, so titles differing only in
// separators, casing, or region/edition tags merge into one game.
func NormalizeTitle(title string) string {
	s := bracketTagPattern.ReplaceAllString(title, " ")
	s = strings.ToLower(s)

	return nonAlphanumericPattern.ReplaceAllString(s, "")
}

// Grouper aggregates classified descriptors into per-title Game records and
// resolves duplicate bases and updates via the selection policy.
type Grouper struct{}

// NewGrouper constructs a Grouper.
func NewGrouper() *Grouper {
	return &Grouper{}
}

// Group builds the Library for a descriptor set. The result is independent
// of descriptor order: descriptors are sorted by path before keying, and
// every selection tie-break bottoms out at the lexicographic path.
func (g *Grouper) Group(descriptors []m.FileDescriptor) m.Library {
	sorted := make([]m.FileDescriptor, len(descriptors))
	copy(sorted, descriptors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	library := m.Library{Games: map[string]*m.Game{}}

	// Files sharing a base title ID belong to one game even when their
	// names disagree, so the first name seen for an ID claims the key.
	idAliases := map[string]string{}

	for _, desc := range sorted {
		if desc.ContentKind == m.KindUnknown {
			library.Unclassified = append(library.Unclassified, desc)
			continue
		}

		key := g.gameKey(desc, idAliases)

		game, ok := library.Games[key]
		if !ok {
			game = &m.Game{}
			library.Games[key] = game
		}

		switch desc.ContentKind {
		case m.KindBase:
			game.BaseCandidates = append(game.BaseCandidates, desc)
		case m.KindUpdate:
			game.UpdateCandidates = append(game.UpdateCandidates, desc)
		case m.KindDLC:
			game.DLCFiles = append(game.DLCFiles, desc)
		}
	}

	for _, game := range library.Games {
		finalize(game)
	}

	return library
}

// gameKey resolves the normalized title key for a descriptor, honoring
// earlier title-ID claims so ID-only names join their sibling files.
func (g *Grouper) gameKey(desc m.FileDescriptor, idAliases map[string]string) string {
	key := NormalizeTitle(desc.Title)

	if desc.TitleID == "" {
		return key
	}

	baseID := BaseTitleID(desc.TitleID)
	if existing, ok := idAliases[baseID]; ok {
		return existing
	}

	idAliases[baseID] = key

	return key
}

// finalize applies the canonical selection policy and picks the display
// title for the game.
func finalize(game *m.Game) {
	sortByPath(game.BaseCandidates)
	sortByPath(game.UpdateCandidates)
	sortByPath(game.DLCFiles)

	game.SelectedBase = selectBase(game.BaseCandidates)
	game.SelectedUpdate = selectUpdate(game.UpdateCandidates)
	game.Title = displayTitle(game)

	slog.Debug("selected canonical files",
		"title", game.Title,
		"base", selectionPath(game.SelectedBase),
		"update", selectionPath(game.SelectedUpdate),
		"dlc", len(game.DLCFiles),
	)
}

func selectionPath(desc *m.FileDescriptor) m.Path {
	if desc == nil {
		return ""
	}

	return desc.Path
}

func sortByPath(descs []m.FileDescriptor) {
	sort.Slice(descs, func(i, j int) bool {
		return descs[i].Path < descs[j].Path
	})
}

// selectBase picks the largest candidate; ties break to the
// lexicographically first path.
func selectBase(candidates []m.FileDescriptor) *m.FileDescriptor {
	var best *m.FileDescriptor

	for i := range candidates {
		candidate := &candidates[i]
		if best == nil || candidate.Size > best.Size ||
			(candidate.Size == best.Size && candidate.Path < best.Path) {
			best = candidate
		}
	}

	if best == nil {
		return nil
	}

	selected := *best

	return &selected
}

// selectUpdate prefers the highest parsed version (a missing hint compares
// lowest), then the largest size, then the lexicographically first path.
func selectUpdate(candidates []m.FileDescriptor) *m.FileDescriptor {
	var best *m.FileDescriptor

	for i := range candidates {
		candidate := &candidates[i]
		if best == nil || updateLess(best, candidate) {
			best = candidate
		}
	}

	if best == nil {
		return nil
	}

	selected := *best

	return &selected
}

// updateLess reports whether b should replace a as the selected update.
func updateLess(a, b *m.FileDescriptor) bool {
	if cmp := CompareVersions(a.VersionHint, b.VersionHint); cmp != 0 {
		return cmp < 0
	}

	if a.Size != b.Size {
		return a.Size < b.Size
	}

	return b.Path < a.Path
}

// CompareVersions compares two dotted-numeric version hints. The empty hint
// compares lowest. Non-numeric segments compare as zero.
func CompareVersions(a, b string) int {
	if a == b {
		return 0
	}

	if a == "" {
		return -1
	}

	if b == "" {
		return 1
	}

	segmentsA := strings.Split(a, ".")
	segmentsB := strings.Split(b, ".")

	for i := 0; i < len(segmentsA) || i < len(segmentsB); i++ {
		numA := versionSegment(segmentsA, i)
		numB := versionSegment(segmentsB, i)

		if numA != numB {
			if numA < numB {
				return -1
			}

			return 1
		}
	}

	return 0
}

func versionSegment(segments []string, i int) int {
	if i >= len(segments) {
		return 0
	}

	n, err := strconv.Atoi(segments[i])
	if err != nil {
		return 0
	}

	return n
}

// displayTitle chooses the human-readable name for the game: the canonical
// base names it, then the canonical update, then the first DLC by path.
func displayTitle(game *m.Game) string {
	if game.SelectedBase != nil {
		return game.SelectedBase.Title
	}

	if game.SelectedUpdate != nil {
		return game.SelectedUpdate.Title
	}

	if len(game.DLCFiles) > 0 {
		return game.DLCFiles[0].Title
	}

	return ""
}
