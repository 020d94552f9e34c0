package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDiagnosisConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    Diagnosis
		expected string
	}{
		{"Excluded", EXCLUDED, "excluded"},
		{"Definite", DEFINITE_CAA, "definite-caa"},
		{"Supporting pathology", PROBABLE_CAA_SUPPORTING_PATHOLOGY, "probable-caa-supporting-pathology"},
		{"Probable", PROBABLE_CAA, "probable-caa"},
		{"Possible", POSSIBLE_CAA, "possible-caa"},
		{"Unlikely", UNLIKELY_CAA, "unlikely-caa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if !tt.value.IsValid() {
				t.Errorf("Expected %s to be valid", tt.value)
			}
			if tt.value.Label() == "Unknown diagnosis" {
				t.Errorf("Missing label for %s", tt.value)
			}
		})
	}

	if Diagnosis("maybe").IsValid() {
		t.Error("Unknown diagnosis should be invalid")
	}
}

func TestAnticoagulationRiskOrdering(t *testing.T) {
	ordered := []AnticoagulationRisk{RISK_VERY_HIGH, RISK_HIGH, RISK_MODERATE, RISK_LOW, RISK_NOT_APPLICABLE}
	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].MoreSevereThan(ordered[i+1]) {
			t.Errorf("Expected %s > %s", ordered[i], ordered[i+1])
		}
	}
	if AnticoagulationRisk("extreme").IsValid() {
		t.Error("Unknown risk tag should be invalid")
	}
	if !RISK_NOT_APPLICABLE.MoreSevereThan("extreme") {
		t.Error("Unknown tags rank below n/a")
	}
}

func TestClassificationResultDecodingRejectsUnknownTags(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"known tags", `{"diagnosis":"definite-caa","anticoagulation_risk":"very-high"}`, nil},
		{"not applicable risk", `{"diagnosis":"excluded","anticoagulation_risk":"n/a"}`, nil},
		{"unknown diagnosis", `{"diagnosis":"maybe","anticoagulation_risk":"low"}`, ErrInvalidDiagnosis},
		{"empty diagnosis", `{"diagnosis":"","anticoagulation_risk":"low"}`, ErrInvalidDiagnosis},
		{"unknown risk tag", `{"diagnosis":"possible-caa","anticoagulation_risk":"extreme"}`, ErrInvalidRiskTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res ClassificationResult
			err := json.Unmarshal([]byte(tt.body), &res)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if !res.Diagnosis.IsValid() || !res.AnticoagulationRisk.IsValid() {
					t.Errorf("Decoded invalid tags %+v", res)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSummaryMode(t *testing.T) {
	tests := []struct {
		mode     SummaryMode
		computes bool
	}{
		{SUPERIORITY, true},
		{NEGATIVE, false},
		{ESTIMATION, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if !tt.mode.IsValid() {
				t.Errorf("Expected %s to be valid", tt.mode)
			}
			if tt.mode.ComputesNNT() != tt.computes {
				t.Errorf("ComputesNNT for %s: expected %v", tt.mode, tt.computes)
			}
		})
	}
}

func TestLesionCountNormalize(t *testing.T) {
	tests := []struct {
		in   LesionCount
		want LesionCount
		text string
	}{
		{-1, LESIONS_NONE, "0"},
		{0, LESIONS_NONE, "0"},
		{1, LESIONS_ONE, "1"},
		{2, LESIONS_TWO_OR_MORE, ">=2"},
		{9, LESIONS_TWO_OR_MORE, ">=2"},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if tt.in.String() != tt.text {
			t.Errorf("String(%d) = %s, want %s", tt.in, tt.in.String(), tt.text)
		}
	}
}
