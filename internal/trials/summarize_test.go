package trials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45%", 45, true},
		{" 17 % ", 17, true},
		{"2.9", 2.9, true},
		{"-3", -3, true},
		{"Non-inf", 0, false},
		{"", 0, false},
		{"%", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestIsNonBeneficial(t *testing.T) {
	tests := []struct {
		name   string
		pValue string
		effect string
		want   bool
	}{
		{"significant inequality", "<0.001", "", false},
		{"significant with prefix", "p < 0.05", "", false},
		{"significant number", "0.01", "", false},
		{"non-significant number", "0.32", "", true},
		{"threshold is non-significant", "p=0.05", "", true},
		{"wording", "Not significant", "", true},
		{"ns", "NS", "", true},
		{"no benefit", "", "OR 1.02, no benefit", true},
		{"harm", "0.001", "Increased harm with treatment", true},
		{"empty", "", "", false},
		{"garbage", "see text", "OR 2.1", false},
		{"lower bound with prefix", "p > 0.05", "", true},
		{"lower bound bare", ">0.05", "", true},
		{"lower bound or-equal", "p ≥ 0.05", "", true},
		{"number with trailing text", "0.12 (non-inferiority)", "", true},
		{"significant number with trailing text", "0.003 (primary endpoint)", "", false},
		{"colon form", "P: 0.41", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNonBeneficial(tt.pValue, tt.effect))
		})
	}
}

func TestSummarize_LowerBoundPValueIsNegative(t *testing.T) {
	for _, p := range []string{"p > 0.05", ">0.05", "p ≥ 0.05", "0.12 (non-inferiority)", "P=0.41"} {
		t.Run(p, func(t *testing.T) {
			out := Summarize("30%", "20%", Flags{PValue: p})
			assert.Equal(t, domain.NEGATIVE, out.Mode)
			assert.Nil(t, out.NNT)
		})
	}
}

func TestSummarize_Superiority(t *testing.T) {
	out := Summarize("45%", "17%", Flags{PValue: "<0.001"})
	assert.Equal(t, domain.SUPERIORITY, out.Mode)
	require.NotNil(t, out.RiskDifference)
	assert.Equal(t, 28.0, *out.RiskDifference)
	require.NotNil(t, out.NNT)
	assert.Equal(t, 3.6, *out.NNT)
	assert.Equal(t, domain.NNT_FORMULA, out.NNTSource)
	assert.Equal(t, "+28.0%", out.RiskDifferenceText)
	assert.Equal(t, "3.6", out.NNTText)
}

func TestSummarize_Estimation(t *testing.T) {
	out := Summarize("2.9", "4.1", Flags{IsEstimationTrial: true, NNTOverride: ptr(20)})
	assert.Equal(t, domain.ESTIMATION, out.Mode)
	require.NotNil(t, out.RiskDifference)
	assert.Equal(t, -1.2, *out.RiskDifference)
	assert.Nil(t, out.NNT)
	assert.Empty(t, out.NNTSource)
	assert.Equal(t, "-1.2%", out.RiskDifferenceText)
	assert.Equal(t, "N/A", out.NNTText)
}

func TestSummarize_EstimationBeatsNegative(t *testing.T) {
	out := Summarize("10", "12", Flags{IsEstimationTrial: true, IsNegativeTrial: true})
	assert.Equal(t, domain.ESTIMATION, out.Mode)
}

func TestSummarize_OverrideWins(t *testing.T) {
	out := Summarize("45%", "17%", Flags{NNTOverride: ptr(4)})
	require.NotNil(t, out.NNT)
	assert.Equal(t, 4.0, *out.NNT)
	assert.Equal(t, domain.NNT_OVERRIDE, out.NNTSource)
}

func TestSummarize_Negative(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
	}{
		{"explicit flag", Flags{IsNegativeTrial: true}},
		{"p-value", Flags{PValue: "0.41"}},
		{"effect size", Flags{EffectSize: "no benefit"}},
		{"override ignored", Flags{IsNegativeTrial: true, NNTOverride: ptr(12)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Summarize("30%", "20%", tt.flags)
			assert.Equal(t, domain.NEGATIVE, out.Mode)
			require.NotNil(t, out.RiskDifference)
			assert.Equal(t, 10.0, *out.RiskDifference)
			assert.Nil(t, out.NNT)
			assert.Equal(t, "N/A", out.NNTText)
		})
	}
}

func TestSummarize_NoBenefitDirection(t *testing.T) {
	out := Summarize("12%", "15%", Flags{})
	assert.Equal(t, domain.SUPERIORITY, out.Mode)
	require.NotNil(t, out.RiskDifference)
	assert.Equal(t, -3.0, *out.RiskDifference)
	assert.Nil(t, out.NNT)

	zero := Summarize("15%", "15%", Flags{})
	assert.Nil(t, zero.NNT)
}

func TestSummarize_MalformedRate(t *testing.T) {
	out := Summarize("Non-inf", "17%", Flags{})
	assert.Nil(t, out.RiskDifference)
	assert.Nil(t, out.NNT)
	assert.Nil(t, out.TreatmentRate)
	require.NotNil(t, out.ControlRate)
	assert.Equal(t, "N/A", out.RiskDifferenceText)
	assert.Equal(t, "N/A", out.NNTText)
}

func TestSummarize_Idempotent(t *testing.T) {
	flags := Flags{PValue: "0.002", NNTOverride: ptr(5)}
	assert.Equal(t, Summarize("33%", "12%", flags), Summarize("33%", "12%", flags))
}

func TestSummarizeRecord(t *testing.T) {
	record := domain.TrialRecord{
		ID:            "defuse-3",
		Name:          "DEFUSE 3",
		TreatmentRate: "45%",
		ControlRate:   "17%",
		PValue:        "<0.001",
	}
	summary := SummarizeRecord(record)
	assert.Equal(t, record, summary.Trial)
	assert.Equal(t, Summarize("45%", "17%", Flags{PValue: "<0.001"}), summary.Outcome)
}
