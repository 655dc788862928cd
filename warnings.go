package retypeset

import (
	"fmt"
	"strings"
)

// NoRegion marks a warning that applies to the whole page.
const NoRegion = -1

// Warning is a non-fatal condition found while processing a page.
type Warning struct {
	// Region is the cluster id the warning refers to, or NoRegion
	Region int

	// Message describes the condition
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Region == NoRegion {
		return w.Message
	}
	return fmt.Sprintf("region %d: %s", w.Region, w.Message)
}

// FormatWarnings joins warnings into a single display string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
