package domain

// Band maps a contiguous inclusive score range to an interpretation.
// Percentage is optional and carries the numeric risk quoted in Label.
type Band struct {
	Min        int      `json:"min" yaml:"min"`
	Max        int      `json:"max" yaml:"max"`
	Label      string   `json:"label" yaml:"label"`
	Tier       string   `json:"tier,omitempty" yaml:"tier,omitempty"`
	Percentage *float64 `json:"percentage,omitempty" yaml:"percentage,omitempty"`
}

// Contains reports whether score falls inside the band.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// ThresholdTable is an ascending list of disjoint bands.
type ThresholdTable struct {
	Bands []Band `json:"bands" yaml:"bands"`
}

// NewThresholdTable builds a table from bands already sorted by Min.
func NewThresholdTable(bands ...Band) ThresholdTable {
	return ThresholdTable{Bands: bands}
}

// Exact builds a single-score band, used for per-score lookup tables.
func Exact(score int, label, tier string, percentage float64) Band {
	p := percentage
	return Band{Min: score, Max: score, Label: label, Tier: tier, Percentage: &p}
}

// Range builds a band covering min..max with an optional percentage.
func Range(min, max int, label, tier string, percentage *float64) Band {
	return Band{Min: min, Max: max, Label: label, Tier: tier, Percentage: percentage}
}

// Pct returns a pointer to a percentage literal.
func Pct(v float64) *float64 {
	return &v
}

// Lookup returns the band for score. Tables are scanned from the top and the first
// containing band wins. A score below the first band falls back to the first band;
// a score past the last band, or inside a gap, falls back to the highest band whose
// Min does not exceed the score. An empty table yields a zero Band.
func (t ThresholdTable) Lookup(score int) Band {
	if len(t.Bands) == 0 {
		return Band{}
	}

	for _, band := range t.Bands {
		if band.Contains(score) {
			return band
		}
	}

	if score < t.Bands[0].Min {
		return t.Bands[0]
	}

	fallback := t.Bands[0]
	for _, band := range t.Bands {
		if band.Min <= score {
			fallback = band
		}
	}
	return fallback
}

// Covers reports whether every score in min..max resolves to a band without landing
// in a gap. Scores above the last band are allowed; they fall back to it.
func (t ThresholdTable) Covers(min, max int) bool {
	if len(t.Bands) == 0 || t.Bands[0].Min > min {
		return false
	}
	top := t.Bands[len(t.Bands)-1].Max
	for score := min; score <= max && score <= top; score++ {
		hit := false
		for _, band := range t.Bands {
			if band.Contains(score) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
