package adapter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	m "nxsort.dev/pkg/nxsort/internal/model"
)

// ReportStore persists run summaries for post-hoc troubleshooting.
type ReportStore interface {
	SaveSummary(path m.Path, summary m.RunSummary) error
	LoadSummary(path m.Path) (m.RunSummary, error)
}

// YAMLReportStore stores summaries as YAML files.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveSummary writes the summary to path as YAML.
func (s *YAMLReportStore) SaveSummary(path m.Path, summary m.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}

	return nil
}

// LoadSummary reads a previously saved summary from path.
func (s *YAMLReportStore) LoadSummary(path m.Path) (m.RunSummary, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("read run summary: %w", err)
	}

	var summary m.RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return m.RunSummary{}, fmt.Errorf("unmarshal run summary: %w", err)
	}

	return summary, nil
}
