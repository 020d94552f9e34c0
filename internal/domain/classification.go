package domain

// LesionCount is the three-valued lobar hemorrhagic lesion count: 0, 1 or 2 meaning two or more.
type LesionCount int

const (
	LESIONS_NONE        LesionCount = 0
	LESIONS_ONE         LesionCount = 1
	LESIONS_TWO_OR_MORE LesionCount = 2
)

// Normalize clamps any count to the three-valued domain.
func (c LesionCount) Normalize() LesionCount {
	switch {
	case c <= 0:
		return LESIONS_NONE
	case c == 1:
		return LESIONS_ONE
	default:
		return LESIONS_TWO_OR_MORE
	}
}

func (c LesionCount) String() string {
	switch c.Normalize() {
	case LESIONS_NONE:
		return "0"
	case LESIONS_ONE:
		return "1"
	default:
		return ">=2"
	}
}

// ClassificationInputs are the clinical fields evaluated by the Boston Criteria 2.0.
// The two pathology flags are mutually exclusive by construction of the input form.
type ClassificationInputs struct {
	Age                    int         `json:"age"`
	PathologyDefinite      bool        `json:"pathology_definite_caa"`
	PathologySupporting    bool        `json:"pathology_supporting_caa"`
	QualifyingPresentation bool        `json:"qualifying_presentation"`
	LobarLesions           LesionCount `json:"lobar_hemorrhagic_lesions"`
	WhiteMatterFeature     bool        `json:"white_matter_feature"`
	DeepLesions            bool        `json:"deep_hemorrhagic_lesions"`
	OtherCause             bool        `json:"other_cause_of_hemorrhage"`
}

// ClassificationResult is the outcome of a single Boston Criteria evaluation.
type ClassificationResult struct {
	Diagnosis            Diagnosis           `json:"diagnosis"`
	Label                string              `json:"label"`
	CriteriaMet          []string            `json:"criteria_met"`
	ClinicalImplications string              `json:"clinical_implications"`
	AnticoagulationRisk  AnticoagulationRisk `json:"anticoagulation_risk"`
	Recommendations      []string            `json:"recommendations"`
}

// LogFields returns structured logging fields for audit trails.
func (r *ClassificationResult) LogFields() map[string]any {
	fields := r.Diagnosis.LogFields()
	fields["anticoagulation_risk"] = string(r.AnticoagulationRisk)
	fields["criteria_count"] = len(r.CriteriaMet)
	return fields
}
