package scoring

import "github.com/clinical-scoring-mcp-server/internal/domain"

var abcd2Def = domain.Instrument{
	ID:          "abcd2",
	Name:        "ABCD² Score for TIA",
	ShortName:   "ABCD²",
	Description: "Estimates 2-day stroke risk after transient ischemic attack.",
	Citation:    "Johnston SC, et al. Validation and refinement of scores to predict very early stroke risk after transient ischaemic attack. Lancet. 2007;369(9558):283-292.",
	Aliases:     []string{"abcd²", "abcd-2"},
	Inputs: []domain.InputSpec{
		present("age60", "Age ≥60 years", 1),
		present("bloodPressure", "BP ≥140/90 mmHg at initial evaluation", 1),
		choose("clinicalFeatures", "Clinical features of the TIA",
			opt("other", "Other symptoms", 0),
			opt("speech", "Speech disturbance without weakness", 1),
			opt("weakness", "Unilateral weakness", 2),
		),
		choose("duration", "Duration of symptoms",
			opt("lt10", "<10 minutes", 0),
			opt("10to59", "10-59 minutes", 1),
			opt("ge60", "≥60 minutes", 2),
		),
		present("diabetes", "History of diabetes", 1),
	},
	Range: domain.ScoreRange{Min: 0, Max: 7},
	Table: domain.NewThresholdTable(
		domain.Range(0, 3, "Low risk: 2-day stroke risk 1.0%", "low", domain.Pct(1.0)),
		domain.Range(4, 5, "Moderate risk: 2-day stroke risk 4.1%", "moderate", domain.Pct(4.1)),
		domain.Range(6, 7, "High risk: 2-day stroke risk 8.1%", "high", domain.Pct(8.1)),
	),
}

// ABCD2 estimates early stroke risk after a transient ischemic attack.
// Each call returns an independent copy.
func ABCD2() *domain.Instrument {
	return abcd2Def.Clone()
}
