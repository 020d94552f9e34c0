package scoring

import (
	"strconv"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

func present(id, label string, weight int) domain.InputSpec {
	return domain.InputSpec{ID: id, Label: label, Kind: domain.BOOLEAN, Weight: weight, Polarity: domain.POINT_WHEN_TRUE}
}

// absent scores when the risk factor is NOT present.
func absent(id, label string, weight int) domain.InputSpec {
	return domain.InputSpec{ID: id, Label: label, Kind: domain.BOOLEAN, Weight: weight, Polarity: domain.POINT_WHEN_FALSE}
}

func choose(id, label string, choices ...domain.Choice) domain.InputSpec {
	return domain.InputSpec{ID: id, Label: label, Kind: domain.ENUMERATED, Choices: choices}
}

func opt(value, label string, points int) domain.Choice {
	return domain.Choice{Value: value, Label: label, Points: points}
}

// scale builds the 0..n options used by NIHSS items.
func scale(labels ...string) []domain.Choice {
	choices := make([]domain.Choice, len(labels))
	for i, l := range labels {
		choices[i] = domain.Choice{Value: strconv.Itoa(i), Label: l, Points: i}
	}
	return choices
}

