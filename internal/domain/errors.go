package domain

import (
	"fmt"
	"strings"

	m "nxsort.dev/pkg/nxsort/internal/model"
)

// ToolMissingError indicates a required external executable was not found.
// It is fatal for operations that need the tool and a degraded feature
// otherwise.
type ToolMissingError struct {
	Tool string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("external tool %q not found in tools directory", e.Tool)
}

// KeyMaterialMissingError indicates no key file exists at any of the
// searched locations. It is fatal only for encrypted-content operations.
type KeyMaterialMissingError struct {
	Searched []m.Path
}

func (e *KeyMaterialMissingError) Error() string {
	locations := make([]string, 0, len(e.Searched))
	for _, path := range e.Searched {
		locations = append(locations, string(path))
	}

	return fmt.Sprintf("key material not found (searched: %s)", strings.Join(locations, ", "))
}

// NormalizationError reports a failed decompression of one file. It carries
// the offending path and the tool's diagnostic output; the batch continues
// past it.
type NormalizationError struct {
	Path   m.Path
	Output string
	Err    error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %v", e.Path, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// LayoutError reports a failed output build for one game. The run continues
// with the next game.
type LayoutError struct {
	Title string
	Err   error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("build layout for %q: %v", e.Title, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}
