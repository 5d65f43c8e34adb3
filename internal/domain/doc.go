// Package domain models the allergy-warning simulation and the travel records
// exchanged with the planner backend.
//
// # Allergy Warnings
//
// A warning report is simulated per location rather than looked up. Each call
// to [Generator.Generate] either declines (no report, 60% of calls) or builds a
// [LocationWarningReport] holding one to three [AllergenWarning] entries with
// distinct allergens. Repeated calls for the same location are independent.
//
// Catalogs:
//
//	Allergens:  Pollen, Grass, Tree pollen, Dust mites, Mold spores,
//	            Pet dander, Ragweed, Birch pollen
//	Severities: Low < Moderate < High < Very High (ordinal only)
//	Conditions: "due to recent rainfall", "due to high humidity",
//	            "due to dry conditions", "due to strong winds",
//	            "due to seasonal changes", "during this time of year",
//	            "because of nearby vegetation"
//
// # Matching
//
// [Match] pairs a user's declared allergies with a report's allergens using
// case-insensitive substring containment in either direction, so "Pollen"
// matches "Tree pollen" and "Birch pollen allergy" matches "Birch pollen".
// Every matching (allergy, warning) pair is returned; nothing is deduplicated.
//
// # Formatting
//
// [Format] renders a report as one sentence:
//
//	Paris currently has low levels of Mold spores due to high humidity.
//	Oslo currently has moderate Dust mites and high Ragweed due to dry conditions.
//
// Multi-warning sentences carry only the first warning's condition.
//
// # Travel Records
//
// Users, trips, budgets, destinations, reviews, alerts and admin activity are
// plain structs mirroring the backend's JSON. Backend identifiers arrive as
// either strings or numbers and are normalized to [ID].
package domain
