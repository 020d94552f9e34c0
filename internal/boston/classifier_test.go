package boston

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

func probableInputs(age int) domain.ClassificationInputs {
	return domain.ClassificationInputs{
		Age:                    age,
		QualifyingPresentation: true,
		LobarLesions:           domain.LESIONS_TWO_OR_MORE,
	}
}

func TestClassify_Branches(t *testing.T) {
	tests := []struct {
		name      string
		in        domain.ClassificationInputs
		diagnosis domain.Diagnosis
		rule      string
		risk      domain.AnticoagulationRisk
	}{
		{
			name:      "other cause",
			in:        domain.ClassificationInputs{Age: 70, OtherCause: true},
			diagnosis: domain.EXCLUDED,
			rule:      "other-cause",
			risk:      domain.RISK_NOT_APPLICABLE,
		},
		{
			name:      "definite pathology ignores age",
			in:        domain.ClassificationInputs{Age: 30, PathologyDefinite: true},
			diagnosis: domain.DEFINITE_CAA,
			rule:      "definite-pathology",
			risk:      domain.RISK_VERY_HIGH,
		},
		{
			name:      "supporting pathology",
			in:        domain.ClassificationInputs{Age: 65, PathologySupporting: true},
			diagnosis: domain.PROBABLE_CAA_SUPPORTING_PATHOLOGY,
			rule:      "supporting-pathology",
			risk:      domain.RISK_HIGH,
		},
		{
			name:      "no presentation",
			in:        domain.ClassificationInputs{Age: 70, LobarLesions: domain.LESIONS_TWO_OR_MORE},
			diagnosis: domain.UNLIKELY_CAA,
			rule:      "no-qualifying-presentation",
			risk:      domain.RISK_LOW,
		},
		{
			name:      "two lobar lesions",
			in:        probableInputs(70),
			diagnosis: domain.PROBABLE_CAA,
			rule:      "multiple-lobar",
			risk:      domain.RISK_HIGH,
		},
		{
			name:      "one lobar lesion with white matter feature",
			in:        domain.ClassificationInputs{Age: 70, QualifyingPresentation: true, LobarLesions: domain.LESIONS_ONE, WhiteMatterFeature: true},
			diagnosis: domain.PROBABLE_CAA,
			rule:      "single-lobar-white-matter",
			risk:      domain.RISK_HIGH,
		},
		{
			name:      "one lobar lesion alone",
			in:        domain.ClassificationInputs{Age: 70, QualifyingPresentation: true, LobarLesions: domain.LESIONS_ONE},
			diagnosis: domain.POSSIBLE_CAA,
			rule:      "single-lobar",
			risk:      domain.RISK_MODERATE,
		},
		{
			name:      "white matter feature alone",
			in:        domain.ClassificationInputs{Age: 70, QualifyingPresentation: true, WhiteMatterFeature: true},
			diagnosis: domain.POSSIBLE_CAA,
			rule:      "white-matter-only",
			risk:      domain.RISK_MODERATE,
		},
		{
			name:      "no imaging evidence",
			in:        domain.ClassificationInputs{Age: 70, QualifyingPresentation: true},
			diagnosis: domain.UNLIKELY_CAA,
			rule:      "fallback",
			risk:      domain.RISK_LOW,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.in)
			assert.Equal(t, tt.diagnosis, res.Diagnosis)
			assert.Equal(t, tt.diagnosis.Label(), res.Label)
			assert.Equal(t, tt.risk, res.AnticoagulationRisk)
			assert.Equal(t, tt.rule, Explain(tt.in))
			assert.NotEmpty(t, res.CriteriaMet)
			assert.NotEmpty(t, res.ClinicalImplications)
			assert.NotEmpty(t, res.Recommendations)
		})
	}
}

func TestClassify_ExclusionDominates(t *testing.T) {
	in := domain.ClassificationInputs{
		Age:                    80,
		PathologyDefinite:      true,
		PathologySupporting:    true,
		QualifyingPresentation: true,
		LobarLesions:           domain.LESIONS_TWO_OR_MORE,
		WhiteMatterFeature:     true,
		OtherCause:             true,
	}
	res := Classify(in)
	assert.Equal(t, domain.EXCLUDED, res.Diagnosis)
	assert.Equal(t, []string{criterionOtherCause}, res.CriteriaMet)
}

func TestClassify_AgeGate(t *testing.T) {
	assert.Equal(t, domain.UNLIKELY_CAA, Classify(probableInputs(49)).Diagnosis)
	assert.Equal(t, "age-gate", Explain(probableInputs(49)))
	assert.Equal(t, domain.PROBABLE_CAA, Classify(probableInputs(50)).Diagnosis)
}

func TestClassify_DeepLesionsDisqualifyImagingTiers(t *testing.T) {
	in := probableInputs(72)
	in.WhiteMatterFeature = true
	in.DeepLesions = true

	res := Classify(in)
	assert.Equal(t, domain.UNLIKELY_CAA, res.Diagnosis)
	assert.Equal(t, "deep-lesions", Explain(in))

	in.PathologySupporting = true
	assert.Equal(t, domain.PROBABLE_CAA_SUPPORTING_PATHOLOGY, Classify(in).Diagnosis)
}

func TestClassify_CriteriaOrder(t *testing.T) {
	in := domain.ClassificationInputs{Age: 68, QualifyingPresentation: true, LobarLesions: domain.LESIONS_ONE, WhiteMatterFeature: true}
	res := Classify(in)
	assert.Equal(t, []string{
		"Age 68 (>= 50)",
		criterionPresentation,
		"One strictly lobar hemorrhagic lesion",
		criterionWhiteMatter,
		criterionNoDeep,
	}, res.CriteriaMet)
}

func TestClassify_LesionCountNormalized(t *testing.T) {
	in := probableInputs(70)
	in.LobarLesions = 7
	assert.Equal(t, domain.PROBABLE_CAA, Classify(in).Diagnosis)
}

// Every combination of the boolean fields, three lesion counts and ages on each side of
// the gate must reach exactly one rule, and the result must be well formed.
func TestClassify_Total(t *testing.T) {
	ages := []int{18, 49, 50, 90}
	counts := []domain.LesionCount{domain.LESIONS_NONE, domain.LESIONS_ONE, domain.LESIONS_TWO_OR_MORE}

	for _, age := range ages {
		for _, count := range counts {
			for mask := 0; mask < 1<<6; mask++ {
				in := domain.ClassificationInputs{
					Age:                    age,
					LobarLesions:           count,
					PathologyDefinite:      mask&1 != 0,
					PathologySupporting:    mask&2 != 0,
					QualifyingPresentation: mask&4 != 0,
					WhiteMatterFeature:     mask&8 != 0,
					DeepLesions:            mask&16 != 0,
					OtherCause:             mask&32 != 0,
				}

				matched := 0
				for _, rule := range Rules[:len(Rules)-1] {
					if rule.Matches(in) {
						matched++
					}
				}

				res := Classify(in)
				require.True(t, res.Diagnosis.IsValid())
				require.True(t, res.AnticoagulationRisk.IsValid())
				require.NotEmpty(t, res.CriteriaMet)
				if in.OtherCause {
					require.Equal(t, domain.EXCLUDED, res.Diagnosis)
				}
				if matched == 0 {
					require.Equal(t, "fallback", Explain(in))
				}
				require.Equal(t, res, Classify(in))
			}
		}
	}
}

func TestRules_FallbackIsLast(t *testing.T) {
	require.NotEmpty(t, Rules)
	last := Rules[len(Rules)-1]
	assert.Equal(t, "fallback", last.Name)
	assert.True(t, last.Matches(domain.ClassificationInputs{}))
}
