package scoring

import "github.com/clinical-scoring-mcp-server/internal/domain"

var hasbledDef = domain.Instrument{
	ID:          "has-bled",
	Name:        "HAS-BLED Bleeding Risk Score",
	ShortName:   "HAS-BLED",
	Description: "Estimates major bleeding risk for patients with atrial fibrillation on anticoagulation.",
	Citation:    "Pisters R, et al. A novel user-friendly score (HAS-BLED) to assess 1-year risk of major bleeding in patients with atrial fibrillation. Chest. 2010;138(5):1093-1100.",
	Aliases:     []string{"hasbled"},
	Inputs: []domain.InputSpec{
		present("hypertension", "Uncontrolled hypertension (SBP >160 mmHg)", 1),
		present("renalDisease", "Abnormal renal function", 1),
		present("liverDisease", "Abnormal liver function", 1),
		present("strokeHistory", "Prior stroke", 1),
		present("bleedingHistory", "Prior major bleeding or predisposition", 1),
		present("labileINR", "Labile INR", 1),
		present("elderly", "Age >65 years", 1),
		present("drugs", "Antiplatelet or NSAID use", 1),
		present("alcohol", "Alcohol use (≥8 drinks/week)", 1),
	},
	Range: domain.ScoreRange{Min: 0, Max: 9},
	Table: domain.NewThresholdTable(
		domain.Exact(0, "Low risk: 1.13 bleeds per 100 patient-years", "low", 1.13),
		domain.Exact(1, "Low risk: 1.02 bleeds per 100 patient-years", "low", 1.02),
		domain.Exact(2, "Moderate risk: 1.88 bleeds per 100 patient-years", "moderate", 1.88),
		domain.Exact(3, "High risk: 3.74 bleeds per 100 patient-years", "high", 3.74),
		domain.Exact(4, "High risk: 8.70 bleeds per 100 patient-years", "high", 8.70),
		domain.Exact(5, "High risk: 12.50 bleeds per 100 patient-years", "high", 12.50),
	),
}

// HASBLED estimates one-year major bleeding risk on anticoagulation.
// Published bleed rates stop at 5; higher scores reuse the last rate.
// Each call returns an independent copy.
func HASBLED() *domain.Instrument {
	return hasbledDef.Clone()
}
