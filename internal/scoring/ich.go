package scoring

import "github.com/clinical-scoring-mcp-server/internal/domain"

var ichScoreDef = domain.Instrument{
	ID:          "ich-score",
	Name:        "ICH Score",
	ShortName:   "ICH",
	Description: "Predicts 30-day mortality after spontaneous intracerebral hemorrhage.",
	Citation:    "Hemphill JC 3rd, et al. The ICH score: a simple, reliable grading scale for intracerebral hemorrhage. Stroke. 2001;32(4):891-897.",
	Aliases:     []string{"ich", "ichscore"},
	Inputs: []domain.InputSpec{
		choose("gcs", "Glasgow Coma Scale",
			opt("13-15", "GCS 13-15", 0),
			opt("5-12", "GCS 5-12", 1),
			opt("3-4", "GCS 3-4", 2),
		),
		present("volume30", "ICH volume ≥30 mL", 1),
		present("ivh", "Intraventricular hemorrhage", 1),
		present("infratentorial", "Infratentorial origin", 1),
		{
			ID:     "age",
			Label:  "Age (years)",
			Kind:   domain.NUMERIC,
			Bounds: &domain.Bounds{Min: 0, Max: 120},
			NumericBands: []domain.NumericBand{
				{Min: 0, Max: 80, Points: 0},
				{Min: 80, Points: 1},
			},
		},
	},
	Range: domain.ScoreRange{Min: 0, Max: 6},
	Table: domain.NewThresholdTable(
		domain.Exact(0, "30-day mortality 0%", "low", 0),
		domain.Exact(1, "30-day mortality 13%", "low", 13),
		domain.Exact(2, "30-day mortality 26%", "moderate", 26),
		domain.Exact(3, "30-day mortality 72%", "high", 72),
		domain.Exact(4, "30-day mortality 97%", "very-high", 97),
		domain.Exact(5, "30-day mortality 100%", "very-high", 100),
	),
}

// ICHScore grades 30-day mortality after spontaneous intracerebral hemorrhage.
// The mortality table stops at 5; a score of 6 falls back to the highest entry.
// Each call returns an independent copy.
func ICHScore() *domain.Instrument {
	return ichScoreDef.Clone()
}
