package scoring

import "github.com/clinical-scoring-mcp-server/internal/domain"

func nihssItem(id, label string, labels ...string) domain.InputSpec {
	return domain.InputSpec{ID: id, Label: label, Kind: domain.ENUMERATED, Choices: scale(labels...)}
}

// motorItem adds the "UN" option (amputation or joint fusion), which scores 0.
func motorItem(id, label string) domain.InputSpec {
	spec := nihssItem(id, label,
		"No drift",
		"Drift, does not hit bed",
		"Some effort against gravity",
		"No effort against gravity",
		"No movement",
	)
	spec.Choices = append(spec.Choices, opt("UN", "Amputation or joint fusion (untestable)", 0))
	return spec
}

var nihssDef = domain.Instrument{
	ID:          "nihss",
	Name:        "NIH Stroke Scale",
	ShortName:   "NIHSS",
	Description: "Quantifies neurological deficit in acute stroke across 15 examination items.",
	Citation:    "Brott T, et al. Measurements of acute cerebral infarction: a clinical examination scale. Stroke. 1989;20(7):864-870.",
	Aliases:     []string{"nih", "nih-stroke-scale"},
	Inputs: []domain.InputSpec{
		nihssItem("loc", "1a. Level of consciousness",
			"Alert", "Not alert, arousable by minor stimulation", "Not alert, requires repeated stimulation", "Unresponsive or reflex responses only"),
		nihssItem("locQuestions", "1b. LOC questions (month, age)",
			"Answers both correctly", "Answers one correctly", "Answers neither correctly"),
		nihssItem("locCommands", "1c. LOC commands (eyes, grip)",
			"Performs both correctly", "Performs one correctly", "Performs neither correctly"),
		nihssItem("gaze", "2. Best gaze",
			"Normal", "Partial gaze palsy", "Forced deviation or total gaze paresis"),
		nihssItem("visual", "3. Visual fields",
			"No visual loss", "Partial hemianopia", "Complete hemianopia", "Bilateral hemianopia"),
		nihssItem("facialPalsy", "4. Facial palsy",
			"Normal symmetric movement", "Minor paralysis", "Partial paralysis", "Complete paralysis of one or both sides"),
		motorItem("motorArmLeft", "5a. Motor arm, left"),
		motorItem("motorArmRight", "5b. Motor arm, right"),
		motorItem("motorLegLeft", "6a. Motor leg, left"),
		motorItem("motorLegRight", "6b. Motor leg, right"),
		nihssItem("limbAtaxia", "7. Limb ataxia",
			"Absent", "Present in one limb", "Present in two limbs"),
		nihssItem("sensory", "8. Sensory",
			"Normal", "Mild to moderate loss", "Severe to total loss"),
		nihssItem("language", "9. Best language",
			"No aphasia", "Mild to moderate aphasia", "Severe aphasia", "Mute, global aphasia"),
		nihssItem("dysarthria", "10. Dysarthria",
			"Normal", "Mild to moderate", "Severe"),
		nihssItem("extinction", "11. Extinction and inattention",
			"No abnormality", "Inattention in one modality", "Profound hemi-inattention"),
	},
	Range: domain.ScoreRange{Min: 0, Max: 42},
	Table: domain.NewThresholdTable(
		domain.Range(0, 0, "No stroke symptoms", "none", nil),
		domain.Range(1, 4, "Minor stroke", "minor", nil),
		domain.Range(5, 15, "Moderate stroke", "moderate", nil),
		domain.Range(16, 20, "Moderate to severe stroke", "moderate-severe", nil),
		domain.Range(21, 42, "Severe stroke", "severe", nil),
	),
}

// NIHSS is the National Institutes of Health Stroke Scale.
// Each call returns an independent copy.
func NIHSS() *domain.Instrument {
	return nihssDef.Clone()
}
