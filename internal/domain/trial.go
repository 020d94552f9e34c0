package domain

// TrialRecord is a read-only entry of the content repository describing a comparative trial.
// Rates are kept as the published text, e.g. "45%" or "Non-inf".
type TrialRecord struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Year              int      `json:"year,omitempty" yaml:"year,omitempty"`
	Topic             string   `json:"topic,omitempty" yaml:"topic,omitempty"`
	PrimaryOutcome    string   `json:"primary_outcome,omitempty" yaml:"primary_outcome,omitempty"`
	SampleSize        int      `json:"sample_size,omitempty" yaml:"sample_size,omitempty"`
	TreatmentRate     string   `json:"treatment_rate" yaml:"treatment_rate"`
	ControlRate       string   `json:"control_rate" yaml:"control_rate"`
	PValue            string   `json:"p_value,omitempty" yaml:"p_value,omitempty"`
	EffectSize        string   `json:"effect_size,omitempty" yaml:"effect_size,omitempty"`
	IsNegativeTrial   bool     `json:"is_negative_trial,omitempty" yaml:"is_negative_trial,omitempty"`
	IsEstimationTrial bool     `json:"is_estimation_trial,omitempty" yaml:"is_estimation_trial,omitempty"`
	NNT               *float64 `json:"nnt,omitempty" yaml:"nnt,omitempty"`
	Citation          string   `json:"citation,omitempty" yaml:"citation,omitempty"`
}

// ComparativeOutcome is the derived summary of a two-arm comparison.
// RiskDifference and NNT are nil when they cannot or must not be computed.
type ComparativeOutcome struct {
	TreatmentRate      *float64    `json:"treatment_rate,omitempty"`
	ControlRate        *float64    `json:"control_rate,omitempty"`
	Mode               SummaryMode `json:"mode"`
	RiskDifference     *float64    `json:"risk_difference,omitempty"`
	NNT                *float64    `json:"nnt,omitempty"`
	NNTSource          NNTSource   `json:"nnt_source,omitempty"`
	RiskDifferenceText string      `json:"risk_difference_text"`
	NNTText            string      `json:"nnt_text"`
}

// TrialSummary pairs a trial record with its derived outcome.
type TrialSummary struct {
	Trial   TrialRecord        `json:"trial"`
	Outcome ComparativeOutcome `json:"outcome"`
}
