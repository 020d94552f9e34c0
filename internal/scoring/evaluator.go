// Package scoring evaluates weighted-sum clinical instruments.
//
// Each instrument is a domain.Instrument value built once at package init. Evaluate is
// generic: the per-field polarity, weights, option points and numeric bands all live on
// the InputSpec, so no instrument needs bespoke scoring code.
package scoring

import (
	"fmt"
	"math"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// Evaluate scores values against the instrument. It never fails: unknown or missing
// values contribute nothing, and the result reports whether the input was complete.
func Evaluate(instrument *domain.Instrument, values domain.Values) domain.Assessment {
	score := 0
	breakdown := make([]domain.ItemScore, 0, len(instrument.Inputs))

	for _, spec := range instrument.Inputs {
		item := scoreInput(spec, values)
		score += item.Points
		breakdown = append(breakdown, item)
	}

	band := instrument.Table.Lookup(score)
	missing := MissingInputs(instrument, values)
	var pct *float64
	if band.Percentage != nil {
		pct = domain.Pct(*band.Percentage)
	}

	return domain.Assessment{
		InstrumentID:   instrument.ID,
		Score:          score,
		Interpretation: band.Label,
		Tier:           band.Tier,
		Percentage:     pct,
		Complete:       len(missing) == 0,
		Missing:        missing,
		Breakdown:      breakdown,
	}
}

// IsComplete reports whether every required input has a usable value.
func IsComplete(instrument *domain.Instrument, values domain.Values) bool {
	return len(MissingInputs(instrument, values)) == 0
}

// MissingInputs lists required input IDs without a usable value, in instrument order.
// Optional inputs are never required, and an input whose not-testable flag is set is
// dropped from the required set.
func MissingInputs(instrument *domain.Instrument, values domain.Values) []string {
	var missing []string
	for _, spec := range instrument.Inputs {
		if spec.Optional || notTestable(spec, values) {
			continue
		}
		if !hasUsableValue(spec, values) {
			missing = append(missing, spec.ID)
		}
	}
	return missing
}

func notTestable(spec domain.InputSpec, values domain.Values) bool {
	if spec.NotTestableFlag == "" {
		return false
	}
	flag, _ := values.Bool(spec.NotTestableFlag)
	return flag
}

func hasUsableValue(spec domain.InputSpec, values domain.Values) bool {
	switch spec.Kind {
	case domain.BOOLEAN:
		_, ok := values.Bool(spec.ID)
		return ok
	case domain.ENUMERATED:
		_, ok := choicePoints(spec, values)
		return ok
	case domain.NUMERIC:
		_, ok := values.Number(spec.ID)
		return ok
	default:
		return false
	}
}

func scoreInput(spec domain.InputSpec, values domain.Values) domain.ItemScore {
	item := domain.ItemScore{InputID: spec.ID, Label: spec.Label}

	if notTestable(spec, values) {
		item.Points = spec.NotTestablePoints
		item.Note = "not testable"
		return item
	}

	switch spec.Kind {
	case domain.BOOLEAN:
		v, _ := values.Bool(spec.ID)
		if spec.ScoresWhen(v) {
			item.Points = spec.Weight
		}
	case domain.ENUMERATED:
		if points, ok := choicePoints(spec, values); ok {
			item.Points = points
		}
	case domain.NUMERIC:
		if v, ok := values.Number(spec.ID); ok {
			if spec.Bounds != nil {
				v = math.Max(spec.Bounds.Min, math.Min(spec.Bounds.Max, v))
			}
			item.Points = spec.ScoreForNumber(v)
			item.Note = fmt.Sprintf("%g", v)
		}
	}
	return item
}

// choicePoints resolves an enumerated value. A string selects an option by its Value;
// a number is taken as the chosen option's points and must match one of the options.
func choicePoints(spec domain.InputSpec, values domain.Values) (int, bool) {
	if s, ok := values.Text(spec.ID); ok {
		if c, found := spec.ChoiceByValue(s); found {
			return c.Points, true
		}
	}
	n, ok := values.Number(spec.ID)
	if !ok {
		return 0, false
	}
	points := int(math.Round(n))
	for _, c := range spec.Choices {
		if c.Points == points {
			return points, true
		}
	}
	return 0, false
}
