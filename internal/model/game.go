package model

// Game is one logical title, keyed in a Library by its normalized title.
type Game struct {
	Title string

	BaseCandidates   []FileDescriptor
	UpdateCandidates []FileDescriptor
	DLCFiles         []FileDescriptor

	// SelectedBase and SelectedUpdate are filled by the grouping engine
	// once scanning completes; either may be nil.
	SelectedBase   *FileDescriptor
	SelectedUpdate *FileDescriptor
}

// Library is the grouped view of a scanned set of roots.
type Library struct {
	// Games maps normalized title keys to finalized Game records.
	Games map[string]*Game

	// Unclassified holds descriptors excluded from every Game.
	Unclassified []FileDescriptor
}
