package scoring

import "github.com/clinical-scoring-mcp-server/internal/domain"

var ropeDef = domain.Instrument{
	ID:          "rope",
	Name:        "Risk of Paradoxical Embolism Score",
	ShortName:   "RoPE",
	Description: "Estimates the PFO-attributable fraction of a cryptogenic stroke.",
	Citation:    "Kent DM, et al. An index to identify stroke-related vs incidental patent foramen ovale in cryptogenic stroke. Neurology. 2013;81(7):619-625.",
	Aliases:     []string{"rope-score", "paradoxical-embolism"},
	Inputs: []domain.InputSpec{
		absent("hypertension", "History of hypertension", 1),
		absent("diabetes", "History of diabetes", 1),
		present("noPriorStrokeTia", "No prior stroke or TIA", 1),
		present("nonSmoker", "Non-smoker", 1),
		present("corticalInfarct", "Cortical infarct on imaging", 1),
		{
			ID:     "age",
			Label:  "Age (years)",
			Kind:   domain.NUMERIC,
			Bounds: &domain.Bounds{Min: 18, Max: 120},
			NumericBands: []domain.NumericBand{
				{Min: 18, Max: 30, Points: 5},
				{Min: 30, Max: 40, Points: 4},
				{Min: 40, Max: 50, Points: 3},
				{Min: 50, Max: 60, Points: 2},
				{Min: 60, Max: 70, Points: 1},
				{Min: 70, Points: 0},
			},
		},
	},
	Range: domain.ScoreRange{Min: 0, Max: 10},
	Table: domain.NewThresholdTable(
		domain.Range(0, 3, "PFO-attributable fraction 0%: PFO likely incidental", "low", domain.Pct(0)),
		domain.Exact(4, "PFO-attributable fraction 38%", "low", 38),
		domain.Exact(5, "PFO-attributable fraction 34%", "moderate", 34),
		domain.Exact(6, "PFO-attributable fraction 62%", "moderate", 62),
		domain.Exact(7, "PFO-attributable fraction 72%", "high", 72),
		domain.Exact(8, "PFO-attributable fraction 84%", "high", 84),
		domain.Range(9, 10, "PFO-attributable fraction 88%: PFO likely causal", "high", domain.Pct(88)),
	),
}

// RoPE estimates how likely a patent foramen ovale found after cryptogenic stroke is
// causal rather than incidental. Hypertension and diabetes score when absent.
// Each call returns an independent copy.
func RoPE() *domain.Instrument {
	return ropeDef.Clone()
}
