package domain

import "strings"

// Match cross-references userAllergies with the allergens in report.
//
// A pair matches when either lower-cased label contains the other, which is
// deliberately looser than equality. Matches are ordered by user allergy, then
// by warning, and are not deduplicated. A nil report or no allergies yields an
// empty slice.
func Match(userAllergies []UserAllergy, report *LocationWarningReport) []AllergyMatch {
	matches := []AllergyMatch{}
	if report == nil || len(userAllergies) == 0 {
		return matches
	}

	for _, ua := range userAllergies {
		name := strings.ToLower(ua.Name)
		for _, w := range report.Warnings {
			allergen := strings.ToLower(string(w.Allergen))
			if strings.Contains(allergen, name) || strings.Contains(name, allergen) {
				matches = append(matches, AllergyMatch{
					UserAllergy:     ua,
					WarningAllergen: w.Allergen,
					Severity:        w.Severity,
				})
			}
		}
	}
	return matches
}

// HighestSeverity returns the most severe level among matches.
func HighestSeverity(matches []AllergyMatch) (Severity, bool) {
	var top Severity
	for _, m := range matches {
		if m.Severity.Rank() > top.Rank() {
			top = m.Severity
		}
	}
	return top, top != ""
}
