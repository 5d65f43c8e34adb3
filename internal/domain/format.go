package domain

import (
	"fmt"
	"strings"
)

// Format renders report as a human-readable sentence. It returns false when
// report is nil.
func Format(report *LocationWarningReport) (string, bool) {
	if report == nil || len(report.Warnings) == 0 {
		return "", false
	}

	if len(report.Warnings) == 1 {
		w := report.Warnings[0]
		return fmt.Sprintf("%s currently has %s levels of %s %s.",
			report.Location, strings.ToLower(string(w.Severity)), w.Allergen, w.Condition), true
	}

	phrases := make([]string, len(report.Warnings))
	for i, w := range report.Warnings {
		phrases[i] = fmt.Sprintf("%s %s", strings.ToLower(string(w.Severity)), w.Allergen)
	}
	last := len(phrases) - 1

	// Only the first warning's condition is rendered, even when the others
	// differ. Existing clients expect this sentence shape.
	return fmt.Sprintf("%s currently has %s and %s %s.",
		report.Location,
		strings.Join(phrases[:last], ", "),
		phrases[last],
		report.Warnings[0].Condition), true
}
