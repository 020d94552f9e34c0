package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Choice is one labelled option of an enumerated input.
type Choice struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Bounds limits the accepted range of a numeric input.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NumericBand awards Points when Min <= value < Max. A zero Max means unbounded.
type NumericBand struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max,omitempty"`
	Points int     `json:"points"`
}

func (b NumericBand) contains(v float64) bool {
	if v < b.Min {
		return false
	}
	return b.Max == 0 || v < b.Max
}

// InputSpec describes one field of an instrument.
//
// Boolean inputs add Weight when the supplied value matches Polarity. Enumerated inputs
// add the chosen option's points. Numeric inputs add the points of the first matching
// NumericBand. NotTestableFlag names an optional boolean input that, when true, replaces
// this input's contribution with NotTestablePoints and removes it from the required set.
type InputSpec struct {
	ID                string        `json:"id"`
	Label             string        `json:"label"`
	Kind              InputKind     `json:"kind"`
	Choices           []Choice      `json:"choices,omitempty"`
	Bounds            *Bounds       `json:"bounds,omitempty"`
	Weight            int           `json:"weight,omitempty"`
	Polarity          Polarity      `json:"polarity,omitempty"`
	NumericBands      []NumericBand `json:"numeric_bands,omitempty"`
	Optional          bool          `json:"optional,omitempty"`
	NotTestableFlag   string        `json:"not_testable_flag,omitempty"`
	NotTestablePoints int           `json:"not_testable_points,omitempty"`
}

// ChoiceByValue finds an option by its Value key.
func (s InputSpec) ChoiceByValue(value string) (Choice, bool) {
	for _, c := range s.Choices {
		if strings.EqualFold(c.Value, value) {
			return c, true
		}
	}
	return Choice{}, false
}

// ScoreForNumber returns the points awarded to a numeric value.
func (s InputSpec) ScoreForNumber(v float64) int {
	for _, band := range s.NumericBands {
		if band.contains(v) {
			return band.Points
		}
	}
	return 0
}

// ScoresWhen reports whether a boolean value earns this input's weight.
func (s InputSpec) ScoresWhen(v bool) bool {
	if s.Polarity == POINT_WHEN_FALSE {
		return !v
	}
	return v
}

// MaxPoints is the largest contribution this input can make.
func (s InputSpec) MaxPoints() int {
	switch s.Kind {
	case BOOLEAN:
		return s.Weight
	case ENUMERATED:
		best := 0
		for _, c := range s.Choices {
			if c.Points > best {
				best = c.Points
			}
		}
		return best
	case NUMERIC:
		best := 0
		for _, b := range s.NumericBands {
			if b.Points > best {
				best = b.Points
			}
		}
		return best
	default:
		return 0
	}
}

// ScoreRange is the declared [Min, Max] of an instrument's total score.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether score lies within the declared range.
func (r ScoreRange) Contains(score int) bool {
	return score >= r.Min && score <= r.Max
}

// Instrument is a named, ordered set of inputs plus the table that interprets its score.
type Instrument struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ShortName   string         `json:"short_name"`
	Description string         `json:"description"`
	Citation    string         `json:"citation,omitempty"`
	Aliases     []string       `json:"-"`
	Inputs      []InputSpec    `json:"inputs"`
	Range       ScoreRange     `json:"range"`
	Table       ThresholdTable `json:"table"`
}

// Clone returns a deep copy that shares no slices or pointers with i.
func (i *Instrument) Clone() *Instrument {
	c := *i
	c.Aliases = append([]string(nil), i.Aliases...)
	c.Inputs = make([]InputSpec, len(i.Inputs))
	for n, spec := range i.Inputs {
		spec.Choices = append([]Choice(nil), spec.Choices...)
		spec.NumericBands = append([]NumericBand(nil), spec.NumericBands...)
		if spec.Bounds != nil {
			b := *spec.Bounds
			spec.Bounds = &b
		}
		c.Inputs[n] = spec
	}
	c.Table.Bands = make([]Band, len(i.Table.Bands))
	for n, band := range i.Table.Bands {
		if band.Percentage != nil {
			band.Percentage = Pct(*band.Percentage)
		}
		c.Table.Bands[n] = band
	}
	return &c
}

// Input returns the spec with the given ID.
func (i *Instrument) Input(id string) (InputSpec, bool) {
	for _, in := range i.Inputs {
		if in.ID == id {
			return in, true
		}
	}
	return InputSpec{}, false
}

// Validate checks the definition for authoring mistakes.
func (i *Instrument) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("instrument validation: %w: id is required", ErrInvalidInstrument)
	}
	if len(i.Inputs) == 0 {
		return fmt.Errorf("instrument %s: %w: no inputs", i.ID, ErrInvalidInstrument)
	}
	seen := make(map[string]bool, len(i.Inputs))
	for _, in := range i.Inputs {
		if in.ID == "" {
			return fmt.Errorf("instrument %s: %w: input without id", i.ID, ErrInvalidInstrument)
		}
		if seen[in.ID] {
			return fmt.Errorf("instrument %s: %w: duplicate input %s", i.ID, ErrInvalidInstrument, in.ID)
		}
		seen[in.ID] = true
		if !in.Kind.IsValid() {
			return fmt.Errorf("instrument %s input %s: %w", i.ID, in.ID, ErrInvalidInputKind)
		}
		if in.Kind == ENUMERATED && len(in.Choices) == 0 {
			return fmt.Errorf("instrument %s input %s: %w: enumerated input without choices", i.ID, in.ID, ErrInvalidInstrument)
		}
	}
	for _, in := range i.Inputs {
		if in.NotTestableFlag != "" && !seen[in.NotTestableFlag] {
			return fmt.Errorf("instrument %s input %s: %w: unknown not-testable flag %s", i.ID, in.ID, ErrInvalidInstrument, in.NotTestableFlag)
		}
	}
	if i.Range.Min > i.Range.Max {
		return fmt.Errorf("instrument %s: %w: empty score range", i.ID, ErrInvalidInstrument)
	}
	if !i.Table.Covers(i.Range.Min, i.Range.Max) {
		return fmt.Errorf("instrument %s: %w: threshold table does not cover %d..%d", i.ID, ErrInvalidInstrument, i.Range.Min, i.Range.Max)
	}
	return nil
}

// Values maps input IDs to supplied values: bool, a number, or an option Value string.
type Values map[string]any

// Has reports whether a value was supplied for id.
func (v Values) Has(id string) bool {
	if v == nil {
		return false
	}
	val, ok := v[id]
	return ok && val != nil
}

// Bool reads a boolean. Numbers are true when non-zero; "true"/"yes"/"1" strings are true.
func (v Values) Bool(id string) (bool, bool) {
	if !v.Has(id) {
		return false, false
	}
	switch val := v[id].(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
		return false, false
	default:
		if n, ok := v.Number(id); ok {
			return n != 0, true
		}
		return false, false
	}
}

// Number reads a finite numeric value from any Go or JSON number type or a numeric string.
// NaN and infinities count as no value.
func (v Values) Number(id string) (float64, bool) {
	if !v.Has(id) {
		return 0, false
	}
	switch val := v[id].(type) {
	case float64:
		return val, finite(val)
	case float32:
		return float64(val), finite(float64(val))
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil && finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Text reads a string value.
func (v Values) Text(id string) (string, bool) {
	if !v.Has(id) {
		return "", false
	}
	s, ok := v[id].(string)
	return s, ok
}

// ItemScore is one line of an assessment breakdown.
type ItemScore struct {
	InputID string `json:"input_id"`
	Label   string `json:"label"`
	Points  int    `json:"points"`
	Note    string `json:"note,omitempty"`
}

// Assessment is the result of evaluating an instrument against a values map.
type Assessment struct {
	InstrumentID   string      `json:"instrument_id"`
	Score          int         `json:"score"`
	Interpretation string      `json:"interpretation"`
	Tier           string      `json:"tier,omitempty"`
	Percentage     *float64    `json:"percentage,omitempty"`
	Complete       bool        `json:"complete"`
	Missing        []string    `json:"missing,omitempty"`
	Breakdown      []ItemScore `json:"breakdown"`
}
