// Package trials derives absolute risk difference and number needed to treat from the
// published event rates of a two-arm trial.
package trials

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/format"
)

// SignificanceLevel is the p-value at or above which a result is non-significant.
const SignificanceLevel = 0.05

// leadingNumber matches the numeric prefix of p-value text such as "0.12 (non-inferiority)".
var leadingNumber = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)

// Flags carries the trial-design metadata that selects the summary mode.
type Flags struct {
	IsEstimationTrial bool     `json:"is_estimation_trial,omitempty"`
	IsNegativeTrial   bool     `json:"is_negative_trial,omitempty"`
	PValue            string   `json:"p_value,omitempty"`
	EffectSize        string   `json:"effect_size,omitempty"`
	NNTOverride       *float64 `json:"nnt_override,omitempty"`
}

// FlagsFor extracts the summary flags from a content record.
func FlagsFor(record domain.TrialRecord) Flags {
	return Flags{
		IsEstimationTrial: record.IsEstimationTrial,
		IsNegativeTrial:   record.IsNegativeTrial,
		PValue:            record.PValue,
		EffectSize:        record.EffectSize,
		NNTOverride:       record.NNT,
	}
}

// ParseRate reads a published rate such as "45%", "2.9" or " 17 % ". Text that is not a
// finite number, such as "Non-inf", is reported as unparseable.
func ParseRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsNonBeneficial judges a result as non-beneficial from its p-value and effect-size text:
// non-significant wording, an effect described as "no benefit" or "harm", a p-value
// written as a lower bound ("p > 0.05", "≥0.05"), or a leading numeric p-value of at
// least 0.05. Upper bounds ("<0.001") are significant.
func IsNonBeneficial(pValue, effectSize string) bool {
	effect := strings.ToLower(effectSize)
	if strings.Contains(effect, "no benefit") || strings.Contains(effect, "harm") {
		return true
	}

	p := strings.ToLower(strings.TrimSpace(pValue))
	if p == "" {
		return false
	}
	for _, phrase := range []string{"not significant", "non-significant", "nonsignificant", "n.s."} {
		if strings.Contains(p, phrase) {
			return true
		}
	}
	if p == "ns" {
		return true
	}

	p = strings.TrimSpace(strings.TrimPrefix(p, "p"))
	p = strings.TrimSpace(strings.TrimPrefix(p, ":"))
	switch {
	case strings.HasPrefix(p, "<"), strings.HasPrefix(p, "≤"):
		return false
	case strings.HasPrefix(p, ">"), strings.HasPrefix(p, "≥"):
		return true
	}
	p = strings.TrimSpace(strings.TrimPrefix(p, "="))
	num := leadingNumber.FindString(p)
	if num == "" {
		return false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return false
	}
	return v >= SignificanceLevel
}

// Summarize derives the comparative outcome of treatment versus control. It never fails:
// unparseable rates leave the difference and NNT absent and render as "N/A".
func Summarize(treatmentRate, controlRate string, flags Flags) domain.ComparativeOutcome {
	out := domain.ComparativeOutcome{Mode: mode(flags)}

	treatment, okT := ParseRate(treatmentRate)
	control, okC := ParseRate(controlRate)
	if okT {
		out.TreatmentRate = &treatment
	}
	if okC {
		out.ControlRate = &control
	}

	if okT && okC {
		raw := treatment - control
		rd := round1(raw)
		out.RiskDifference = &rd

		if out.Mode.ComputesNNT() {
			switch {
			case flags.NNTOverride != nil:
				nnt := *flags.NNTOverride
				out.NNT = &nnt
				out.NNTSource = domain.NNT_OVERRIDE
			case raw > 0:
				nnt := round1(100 / raw)
				out.NNT = &nnt
				out.NNTSource = domain.NNT_FORMULA
			}
		}
	} else if out.Mode.ComputesNNT() && flags.NNTOverride != nil {
		nnt := *flags.NNTOverride
		out.NNT = &nnt
		out.NNTSource = domain.NNT_OVERRIDE
	}

	out.RiskDifferenceText = format.RiskDifference(out.RiskDifference)
	out.NNTText = format.NNT(out.NNT)
	return out
}

// SummarizeRecord summarizes a content-repository trial record.
func SummarizeRecord(record domain.TrialRecord) domain.TrialSummary {
	return domain.TrialSummary{
		Trial:   record,
		Outcome: Summarize(record.TreatmentRate, record.ControlRate, FlagsFor(record)),
	}
}

func mode(flags Flags) domain.SummaryMode {
	switch {
	case flags.IsEstimationTrial:
		return domain.ESTIMATION
	case flags.IsNegativeTrial || IsNonBeneficial(flags.PValue, flags.EffectSize):
		return domain.NEGATIVE
	default:
		return domain.SUPERIORITY
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
