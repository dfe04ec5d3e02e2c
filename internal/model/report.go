package model

// BuildStatus is the outcome of building one game's output layout.
type BuildStatus string

const (
	// StatusBuilt means the layout was written successfully.
	StatusBuilt BuildStatus = "built"
	// StatusSkipped means the game was not attempted (e.g. no base image).
	StatusSkipped BuildStatus = "skipped"
	// StatusFailed means the build was attempted and failed.
	StatusFailed BuildStatus = "failed"
)

// GameResult records the outcome for a single title.
type GameResult struct {
	Title   string      `yaml:"title"`
	Status  BuildStatus `yaml:"status"`
	Output  Path        `yaml:"output,omitempty"`
	Reason  string      `yaml:"reason,omitempty"`
	Updates int         `yaml:"updates"`
	DLC     int         `yaml:"dlc"`
}

// RunSummary is the user-visible result of one organizer run. It is also
// persisted by the report store for post-hoc troubleshooting.
type RunSummary struct {
	Processed    int          `yaml:"processed"`
	Skipped      int          `yaml:"skipped"`
	Failed       int          `yaml:"failed"`
	Games        []GameResult `yaml:"games"`
	Unclassified []Path       `yaml:"unclassified,omitempty"`
}
