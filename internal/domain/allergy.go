package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrUnknownAllergen  = errors.New("unknown allergen")
	ErrUnknownSeverity  = errors.New("unknown severity")
	ErrUnknownCondition = errors.New("unknown weather condition")
	ErrInvalidReport    = errors.New("invalid warning report")
	ErrBlankAllergyName = errors.New("allergy name is required")
)

// Allergen is a catalogued irritant label.
type Allergen string

const (
	AllergenPollen      Allergen = "Pollen"
	AllergenGrass       Allergen = "Grass"
	AllergenTreePollen  Allergen = "Tree pollen"
	AllergenDustMites   Allergen = "Dust mites"
	AllergenMoldSpores  Allergen = "Mold spores"
	AllergenPetDander   Allergen = "Pet dander"
	AllergenRagweed     Allergen = "Ragweed"
	AllergenBirchPollen Allergen = "Birch pollen"
)

// Severity is the ordinal intensity of an allergen's presence.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
	SeverityVeryHigh Severity = "Very High"
)

// Condition is a descriptive phrase attributing an allergen to the weather.
type Condition string

const (
	ConditionRecentRainfall   Condition = "due to recent rainfall"
	ConditionHighHumidity     Condition = "due to high humidity"
	ConditionDryConditions    Condition = "due to dry conditions"
	ConditionStrongWinds      Condition = "due to strong winds"
	ConditionSeasonalChanges  Condition = "due to seasonal changes"
	ConditionTimeOfYear       Condition = "during this time of year"
	ConditionNearbyVegetation Condition = "because of nearby vegetation"
)

// Catalog order matters: the generator indexes into these slices.
var (
	allergenCatalog = []Allergen{
		AllergenPollen,
		AllergenGrass,
		AllergenTreePollen,
		AllergenDustMites,
		AllergenMoldSpores,
		AllergenPetDander,
		AllergenRagweed,
		AllergenBirchPollen,
	}
	severityCatalog = []Severity{
		SeverityLow,
		SeverityModerate,
		SeverityHigh,
		SeverityVeryHigh,
	}
	conditionCatalog = []Condition{
		ConditionRecentRainfall,
		ConditionHighHumidity,
		ConditionDryConditions,
		ConditionStrongWinds,
		ConditionSeasonalChanges,
		ConditionTimeOfYear,
		ConditionNearbyVegetation,
	}
)

// Allergens returns the allergen catalog.
func Allergens() []Allergen { return slices.Clone(allergenCatalog) }

// Severities returns the severity levels from lowest to highest.
func Severities() []Severity { return slices.Clone(severityCatalog) }

// Conditions returns the weather condition catalog.
func Conditions() []Condition { return slices.Clone(conditionCatalog) }

// Valid reports whether a is in the allergen catalog.
func (a Allergen) Valid() bool { return slices.Contains(allergenCatalog, a) }

// Valid reports whether c is in the condition catalog.
func (c Condition) Valid() bool { return slices.Contains(conditionCatalog, c) }

// Rank returns the 1-based ordinal of s, or 0 for labels outside the catalog.
func (s Severity) Rank() int {
	return slices.Index(severityCatalog, s) + 1
}

// Valid reports whether s is in the severity catalog.
func (s Severity) Valid() bool { return s.Rank() > 0 }

// AllergenWarning tags one allergen with a severity and a weather condition.
type AllergenWarning struct {
	Allergen  Allergen  `json:"allergen"`
	Severity  Severity  `json:"severity"`
	Condition Condition `json:"condition"`
}

// NewAllergenWarning validates each field against its catalog. Use it for
// warnings decoded from outside the package; the generator draws only
// catalog values.
func NewAllergenWarning(allergen Allergen, severity Severity, condition Condition) (AllergenWarning, error) {
	if !allergen.Valid() {
		return AllergenWarning{}, fmt.Errorf("%w: %q", ErrUnknownAllergen, allergen)
	}
	if !severity.Valid() {
		return AllergenWarning{}, fmt.Errorf("%w: %q", ErrUnknownSeverity, severity)
	}
	if !condition.Valid() {
		return AllergenWarning{}, fmt.Errorf("%w: %q", ErrUnknownCondition, condition)
	}
	return AllergenWarning{Allergen: allergen, Severity: severity, Condition: condition}, nil
}

// MaxWarningsPerReport bounds the number of allergens in one report.
const MaxWarningsPerReport = 3

// LocationWarningReport bundles the warnings simulated for one location.
type LocationWarningReport struct {
	Location  string            `json:"location"`
	Warnings  []AllergenWarning `json:"warnings"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewLocationWarningReport builds a report, rejecting empty, oversized or
// duplicate-allergen warning lists. Use it for reports received from outside
// the package; the generator already upholds these rules.
func NewLocationWarningReport(location string, warnings []AllergenWarning, at time.Time) (*LocationWarningReport, error) {
	if len(warnings) == 0 || len(warnings) > MaxWarningsPerReport {
		return nil, fmt.Errorf("%w: %d warnings, want 1-%d", ErrInvalidReport, len(warnings), MaxWarningsPerReport)
	}
	seen := make(map[Allergen]struct{}, len(warnings))
	for _, w := range warnings {
		if _, dup := seen[w.Allergen]; dup {
			return nil, fmt.Errorf("%w: duplicate allergen %q", ErrInvalidReport, w.Allergen)
		}
		seen[w.Allergen] = struct{}{}
	}
	return &LocationWarningReport{
		Location:  location,
		Warnings:  slices.Clone(warnings),
		Timestamp: at,
	}, nil
}

// UserAllergy is an allergy declared on a user profile.
type UserAllergy struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"name"`
	Severity string `json:"severity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// NewUserAllergy returns an allergy with the given name, which must not be blank.
func NewUserAllergy(name string) (UserAllergy, error) {
	if strings.TrimSpace(name) == "" {
		return UserAllergy{}, ErrBlankAllergyName
	}
	return UserAllergy{Name: name}, nil
}

// NamedAllergies returns the allergies whose name is not blank. A blank name is
// contained in every allergen label and would match every warning.
func NamedAllergies(allergies []UserAllergy) []UserAllergy {
	named := make([]UserAllergy, 0, len(allergies))
	for _, ua := range allergies {
		if strings.TrimSpace(ua.Name) != "" {
			named = append(named, ua)
		}
	}
	return named
}

// AllergyMatch pairs a user allergy with a warning allergen it overlaps.
type AllergyMatch struct {
	UserAllergy     UserAllergy `json:"userAllergy"`
	WarningAllergen Allergen    `json:"warningAllergen"`
	Severity        Severity    `json:"severity"`
}
