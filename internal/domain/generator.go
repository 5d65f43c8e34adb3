package domain

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// warningChance is the probability that a location has a warning on a given call.
const warningChance = 0.4

// Generator simulates live allergy conditions per location.
// It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock clockwork.Clock
}

// NewGenerator returns a Generator drawing from rng and stamping reports with
// clock. A nil rng is replaced by a randomly seeded source and a nil clock by
// the real clock.
func NewGenerator(rng *rand.Rand, clock clockwork.Clock) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(newSeed()))
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Generator{rng: rng, clock: clock}
}

// NewSeededGenerator returns a Generator whose draws are reproducible for a
// given seed. A zero seed picks a random one.
func NewSeededGenerator(seed int64, clock clockwork.Clock) *Generator {
	if seed == 0 {
		seed = newSeed()
	}
	return NewGenerator(rand.New(rand.NewSource(seed)), clock)
}

// Generate returns a warning report for location, or nil when this call
// declines to produce one. Results for the same location vary between calls.
func (g *Generator) Generate(location string) *LocationWarningReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.rng.Float64() >= warningChance {
		return nil
	}

	k := g.rng.Intn(MaxWarningsPerReport) + 1
	picked := make([]Allergen, 0, k)
	// Redraw on duplicates; the catalog is always larger than k.
	for len(picked) < k {
		a := allergenCatalog[g.rng.Intn(len(allergenCatalog))]
		if !containsAllergen(picked, a) {
			picked = append(picked, a)
		}
	}

	warnings := make([]AllergenWarning, len(picked))
	for i, a := range picked {
		warnings[i] = AllergenWarning{
			Allergen:  a,
			Severity:  severityCatalog[g.rng.Intn(len(severityCatalog))],
			Condition: conditionCatalog[g.rng.Intn(len(conditionCatalog))],
		}
	}

	return &LocationWarningReport{
		Location:  location,
		Warnings:  warnings,
		Timestamp: g.clock.Now().UTC(),
	}
}

func containsAllergen(list []Allergen, a Allergen) bool {
	for _, existing := range list {
		if existing == a {
			return true
		}
	}
	return false
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}
