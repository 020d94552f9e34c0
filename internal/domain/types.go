// Package domain contains the core value types for clinical scoring instruments,
// the Boston Criteria 2.0 classifier and comparative trial outcome summaries.
//
// Every type in this package is an immutable value once constructed. Instruments and
// rule tables are built at package initialisation and shared read-only.
package domain

import (
	"errors"
	"fmt"
)

// InputKind is the data type of a single instrument input.
type InputKind string

const (
	BOOLEAN    InputKind = "boolean"
	ENUMERATED InputKind = "enumerated"
	NUMERIC    InputKind = "numeric"
)

// Polarity decides whether a boolean input scores when true or when false.
type Polarity string

const (
	POINT_WHEN_TRUE  Polarity = "point_when_true"
	POINT_WHEN_FALSE Polarity = "point_when_false"
)

// Diagnosis is the Boston Criteria 2.0 outcome.
type Diagnosis string

const (
	EXCLUDED                          Diagnosis = "excluded"
	DEFINITE_CAA                      Diagnosis = "definite-caa"
	PROBABLE_CAA_SUPPORTING_PATHOLOGY Diagnosis = "probable-caa-supporting-pathology"
	PROBABLE_CAA                      Diagnosis = "probable-caa"
	POSSIBLE_CAA                      Diagnosis = "possible-caa"
	UNLIKELY_CAA                      Diagnosis = "unlikely-caa"
)

// AnticoagulationRisk is the ordered severity vocabulary attached to a diagnosis.
type AnticoagulationRisk string

const (
	RISK_VERY_HIGH      AnticoagulationRisk = "very-high"
	RISK_HIGH           AnticoagulationRisk = "high"
	RISK_MODERATE       AnticoagulationRisk = "moderate"
	RISK_LOW            AnticoagulationRisk = "low"
	RISK_NOT_APPLICABLE AnticoagulationRisk = "n/a"
)

// SummaryMode selects how a comparative trial outcome is presented.
type SummaryMode string

const (
	SUPERIORITY SummaryMode = "superiority"
	NEGATIVE    SummaryMode = "negative"
	ESTIMATION  SummaryMode = "estimation"
)

// NNTSource records where a number-needed-to-treat value came from.
type NNTSource string

const (
	NNT_FORMULA  NNTSource = "formula"
	NNT_OVERRIDE NNTSource = "override"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDiagnosis  = errors.New("invalid Boston Criteria diagnosis")
	ErrInvalidInputKind  = errors.New("invalid input kind")
	ErrInvalidRiskTag    = errors.New("invalid anticoagulation risk tag")
	ErrInvalidInstrument = errors.New("invalid instrument definition")
	ErrStorage           = errors.New("storage failure")
)

// IsValid reports whether the kind is one of the supported input kinds.
func (k InputKind) IsValid() bool {
	switch k {
	case BOOLEAN, ENUMERATED, NUMERIC:
		return true
	default:
		return false
	}
}

// IsValid reports whether the diagnosis belongs to the fixed enumeration.
func (d Diagnosis) IsValid() bool {
	switch d {
	case EXCLUDED, DEFINITE_CAA, PROBABLE_CAA_SUPPORTING_PATHOLOGY, PROBABLE_CAA, POSSIBLE_CAA, UNLIKELY_CAA:
		return true
	default:
		return false
	}
}

func (d Diagnosis) String() string {
	return string(d)
}

// UnmarshalText rejects values outside the diagnosis enumeration.
func (d *Diagnosis) UnmarshalText(text []byte) error {
	v := Diagnosis(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDiagnosis, text)
	}
	*d = v
	return nil
}

// Label returns the human-readable diagnosis name.
func (d Diagnosis) Label() string {
	switch d {
	case EXCLUDED:
		return "Excluded - other cause of hemorrhage"
	case DEFINITE_CAA:
		return "Definite CAA"
	case PROBABLE_CAA_SUPPORTING_PATHOLOGY:
		return "Probable CAA with supporting pathology"
	case PROBABLE_CAA:
		return "Probable CAA"
	case POSSIBLE_CAA:
		return "Possible CAA"
	case UNLIKELY_CAA:
		return "CAA unlikely"
	default:
		return "Unknown diagnosis"
	}
}

// LogFields returns structured logging fields for audit trails.
func (d Diagnosis) LogFields() map[string]any {
	return map[string]any{
		"diagnosis":       string(d),
		"diagnosis_label": d.Label(),
		"is_valid":        d.IsValid(),
	}
}

// Ordinal ranks the risk tag so that very-high > high > moderate > low > n/a.
// Unknown tags rank below n/a.
func (r AnticoagulationRisk) Ordinal() int {
	switch r {
	case RISK_VERY_HIGH:
		return 4
	case RISK_HIGH:
		return 3
	case RISK_MODERATE:
		return 2
	case RISK_LOW:
		return 1
	case RISK_NOT_APPLICABLE:
		return 0
	default:
		return -1
	}
}

// IsValid reports whether the tag belongs to the severity vocabulary.
func (r AnticoagulationRisk) IsValid() bool {
	return r.Ordinal() >= 0
}

// MoreSevereThan compares two risk tags by ordinal.
func (r AnticoagulationRisk) MoreSevereThan(other AnticoagulationRisk) bool {
	return r.Ordinal() > other.Ordinal()
}

func (r AnticoagulationRisk) String() string {
	return string(r)
}

// UnmarshalText rejects tags outside the severity vocabulary.
func (r *AnticoagulationRisk) UnmarshalText(text []byte) error {
	v := AnticoagulationRisk(text)
	if !v.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRiskTag, text)
	}
	*r = v
	return nil
}

// IsValid reports whether the mode is one of the three presentation modes.
func (m SummaryMode) IsValid() bool {
	switch m {
	case SUPERIORITY, NEGATIVE, ESTIMATION:
		return true
	default:
		return false
	}
}

// ComputesNNT reports whether number-needed-to-treat is meaningful in this mode.
func (m SummaryMode) ComputesNNT() bool {
	return m == SUPERIORITY
}
