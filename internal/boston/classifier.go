// Package boston implements the Boston Criteria 2.0 for cerebral amyloid angiopathy (CAA).
//
// Classification is an ordered list of rules evaluated top to bottom; the first rule whose
// predicate matches builds the result. The order is part of the contract: exclusion beats
// pathology, pathology beats the age gate, and deep hemorrhagic lesions disqualify the
// imaging tiers before any lobar rule is considered.
package boston

import (
	"fmt"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// Rule pairs a predicate with the result it produces.
type Rule struct {
	Name    string
	Matches func(in domain.ClassificationInputs) bool
	Build   func(in domain.ClassificationInputs) domain.ClassificationResult
}

// MinimumAge is the youngest age at which the imaging criteria apply.
const MinimumAge = 50

const (
	criterionOtherCause   = "Other cause of hemorrhage identified"
	criterionDefinite     = "Full post-mortem or biopsy pathology showing severe CAA"
	criterionSupporting   = "Pathology (evacuated hematoma or cortical biopsy) supporting CAA"
	criterionPresentation = "Qualifying clinical presentation (ICH, TFNE, or cognitive impairment)"
	criterionNoDeep       = "No deep hemorrhagic lesions"
	criterionWhiteMatter  = "White matter feature (severe CSO perivascular spaces or multispot WMH)"
)

func ageCriterion(age int) string {
	return fmt.Sprintf("Age %d (>= %d)", age, MinimumAge)
}

func lobarCriterion(c domain.LesionCount) string {
	if c.Normalize() == domain.LESIONS_ONE {
		return "One strictly lobar hemorrhagic lesion"
	}
	return "Two or more strictly lobar hemorrhagic lesions"
}

// imagingCriteria lists the criteria shared by the probable and possible tiers.
func imagingCriteria(in domain.ClassificationInputs) []string {
	criteria := []string{ageCriterion(in.Age), criterionPresentation}
	if in.LobarLesions.Normalize() != domain.LESIONS_NONE {
		criteria = append(criteria, lobarCriterion(in.LobarLesions))
	}
	if in.WhiteMatterFeature {
		criteria = append(criteria, criterionWhiteMatter)
	}
	return append(criteria, criterionNoDeep)
}

func result(d domain.Diagnosis, risk domain.AnticoagulationRisk, criteria []string, implications string, recs ...string) domain.ClassificationResult {
	if criteria == nil {
		criteria = []string{}
	}
	if recs == nil {
		recs = []string{}
	}
	return domain.ClassificationResult{
		Diagnosis:            d,
		Label:                d.Label(),
		CriteriaMet:          criteria,
		ClinicalImplications: implications,
		AnticoagulationRisk:  risk,
		Recommendations:      recs,
	}
}

func unlikely(reason string) domain.ClassificationResult {
	return result(domain.UNLIKELY_CAA, domain.RISK_LOW, []string{reason},
		"Criteria for CAA are not met. Consider hypertensive arteriopathy or other small vessel disease.",
		"Evaluate for alternative causes of hemorrhage",
		"Standard secondary prevention; anticoagulation decisions follow usual bleeding risk assessment",
	)
}

// Rules is the ordered Boston Criteria 2.0 decision list.
var Rules = []Rule{
	{
		Name:    "other-cause",
		Matches: func(in domain.ClassificationInputs) bool { return in.OtherCause },
		Build: func(domain.ClassificationInputs) domain.ClassificationResult {
			return result(domain.EXCLUDED, domain.RISK_NOT_APPLICABLE, []string{criterionOtherCause},
				"Hemorrhage is explained by another cause; the Boston criteria do not apply.",
				"Manage the identified cause of hemorrhage",
			)
		},
	},
	{
		Name:    "definite-pathology",
		Matches: func(in domain.ClassificationInputs) bool { return in.PathologyDefinite },
		Build: func(domain.ClassificationInputs) domain.ClassificationResult {
			return result(domain.DEFINITE_CAA, domain.RISK_VERY_HIGH, []string{criterionDefinite},
				"Pathologically confirmed CAA carries the highest risk of recurrent lobar hemorrhage.",
				"Avoid anticoagulation where possible; consider left atrial appendage occlusion for atrial fibrillation",
				"Strict blood pressure control",
				"Avoid antiplatelet agents unless there is a compelling indication",
			)
		},
	},
	{
		Name:    "supporting-pathology",
		Matches: func(in domain.ClassificationInputs) bool { return in.PathologySupporting },
		Build: func(domain.ClassificationInputs) domain.ClassificationResult {
			return result(domain.PROBABLE_CAA_SUPPORTING_PATHOLOGY, domain.RISK_HIGH, []string{criterionSupporting},
				"Tissue evidence supports CAA; recurrence risk is high.",
				"Avoid anticoagulation unless benefit clearly outweighs hemorrhage risk",
				"Strict blood pressure control",
			)
		},
	},
	{
		Name:    "age-gate",
		Matches: func(in domain.ClassificationInputs) bool { return in.Age < MinimumAge },
		Build: func(in domain.ClassificationInputs) domain.ClassificationResult {
			return unlikely(fmt.Sprintf("Age %d is below %d", in.Age, MinimumAge))
		},
	},
	{
		Name:    "no-qualifying-presentation",
		Matches: func(in domain.ClassificationInputs) bool { return !in.QualifyingPresentation },
		Build: func(domain.ClassificationInputs) domain.ClassificationResult {
			return unlikely("No qualifying clinical presentation")
		},
	},
	{
		Name:    "deep-lesions",
		Matches: func(in domain.ClassificationInputs) bool { return in.DeepLesions },
		Build: func(domain.ClassificationInputs) domain.ClassificationResult {
			return unlikely("Deep hemorrhagic lesions present")
		},
	},
	{
		Name: "multiple-lobar",
		Matches: func(in domain.ClassificationInputs) bool {
			return in.LobarLesions.Normalize() == domain.LESIONS_TWO_OR_MORE && !in.DeepLesions
		},
		Build: probable,
	},
	{
		Name: "single-lobar-white-matter",
		Matches: func(in domain.ClassificationInputs) bool {
			return in.LobarLesions.Normalize() == domain.LESIONS_ONE && in.WhiteMatterFeature && !in.DeepLesions
		},
		Build: probable,
	},
	{
		Name: "single-lobar",
		Matches: func(in domain.ClassificationInputs) bool {
			return in.LobarLesions.Normalize() == domain.LESIONS_ONE && !in.WhiteMatterFeature && !in.DeepLesions
		},
		Build: possible,
	},
	{
		Name: "white-matter-only",
		Matches: func(in domain.ClassificationInputs) bool {
			return in.LobarLesions.Normalize() == domain.LESIONS_NONE && in.WhiteMatterFeature && !in.DeepLesions
		},
		Build: possible,
	},
	{
		Name:    "fallback",
		Matches: func(domain.ClassificationInputs) bool { return true },
		Build: func(domain.ClassificationInputs) domain.ClassificationResult {
			return unlikely("Insufficient hemorrhagic or white matter imaging evidence")
		},
	},
}

func probable(in domain.ClassificationInputs) domain.ClassificationResult {
	return result(domain.PROBABLE_CAA, domain.RISK_HIGH, imagingCriteria(in),
		"Probable CAA: high risk of recurrent lobar hemorrhage, especially with cortical superficial siderosis.",
		"Avoid anticoagulation where possible; discuss left atrial appendage occlusion for atrial fibrillation",
		"Target blood pressure below 130/80 mmHg",
		"Screen for cognitive impairment",
	)
}

func possible(in domain.ClassificationInputs) domain.ClassificationResult {
	return result(domain.POSSIBLE_CAA, domain.RISK_MODERATE, imagingCriteria(in),
		"Possible CAA: intermediate recurrence risk; follow-up imaging may clarify the diagnosis.",
		"Weigh anticoagulation benefit against hemorrhage risk on an individual basis",
		"Consider follow-up MRI with susceptibility-weighted imaging",
	)
}

// Classify applies the rules in order and returns the first match. The fallback rule
// matches everything, so every input reaches exactly one result.
func Classify(in domain.ClassificationInputs) domain.ClassificationResult {
	_, res := match(in)
	return res
}

// Explain returns the name of the rule that decides in.
func Explain(in domain.ClassificationInputs) string {
	name, _ := match(in)
	return name
}

func match(in domain.ClassificationInputs) (string, domain.ClassificationResult) {
	for _, rule := range Rules {
		if rule.Matches(in) {
			return rule.Name, rule.Build(in)
		}
	}
	// Unreachable while the fallback rule is last.
	return "fallback", unlikely("Insufficient hemorrhagic or white matter imaging evidence")
}
