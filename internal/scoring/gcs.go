package scoring

import "github.com/clinical-scoring-mcp-server/internal/domain"

var gcsDef = domain.Instrument{
	ID:          "gcs",
	Name:        "Glasgow Coma Scale",
	ShortName:   "GCS",
	Description: "Grades level of consciousness from eye, verbal and motor responses.",
	Citation:    "Teasdale G, Jennett B. Assessment of coma and impaired consciousness. A practical scale. Lancet. 1974;2(7872):81-84.",
	Aliases:     []string{"glasgow", "glasgow-coma-scale"},
	Inputs: []domain.InputSpec{
		{
			ID:    "eye",
			Label: "Eye opening",
			Kind:  domain.ENUMERATED,
			Choices: []domain.Choice{
				opt("1", "No eye opening", 1),
				opt("2", "Eye opening to pain", 2),
				opt("3", "Eye opening to sound", 3),
				opt("4", "Eyes open spontaneously", 4),
			},
			NotTestableFlag:   "eyeNotTestable",
			NotTestablePoints: 1,
		},
		{
			ID:    "verbal",
			Label: "Verbal response",
			Kind:  domain.ENUMERATED,
			Choices: []domain.Choice{
				opt("1", "No verbal response", 1),
				opt("2", "Incomprehensible sounds", 2),
				opt("3", "Inappropriate words", 3),
				opt("4", "Confused", 4),
				opt("5", "Oriented", 5),
			},
			NotTestableFlag:   "verbalNotTestable",
			NotTestablePoints: 1,
		},
		{
			ID:    "motor",
			Label: "Motor response",
			Kind:  domain.ENUMERATED,
			Choices: []domain.Choice{
				opt("1", "No motor response", 1),
				opt("2", "Abnormal extension to pain", 2),
				opt("3", "Abnormal flexion to pain", 3),
				opt("4", "Withdrawal from pain", 4),
				opt("5", "Localizes pain", 5),
				opt("6", "Obeys commands", 6),
			},
		},
		notTestableFlag("eyeNotTestable", "Eye response not testable"),
		notTestableFlag("verbalNotTestable", "Verbal response not testable"),
	},
	Range: domain.ScoreRange{Min: 3, Max: 15},
	Table: domain.NewThresholdTable(
		domain.Range(3, 8, "Severe brain injury", "severe", nil),
		domain.Range(9, 12, "Moderate brain injury", "moderate", nil),
		domain.Range(13, 15, "Mild brain injury", "mild", nil),
	),
}

func notTestableFlag(id, label string) domain.InputSpec {
	spec := present(id, label, 0)
	spec.Optional = true
	return spec
}

// GCS is the Glasgow Coma Scale. Eye and verbal responses can be marked not testable
// (eyes swollen shut, intubated); such a component contributes its floor value of 1.
// Each call returns an independent copy.
func GCS() *domain.Instrument {
	return gcsDef.Clone()
}
