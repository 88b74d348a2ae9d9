package schema

import (
	"fmt"
	"strings"
)

// DetectionError reports that required canonical fields could not be found
// after both pattern matching and content heuristics. It always names the
// missing fields and restates the formant ranges the heuristics accept, so
// the message is directly actionable for whoever prepared the file.
type DetectionError struct {
	Missing []string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf(
		"required columns not found: %s. "+
			"Ensure the file has F1 and F2 columns, or numeric columns in the "+
			"200-1000 Hz (F1) and 800-3000 Hz (F2) ranges.",
		strings.Join(e.Missing, ", "))
}
