package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Prompt names.
const (
	PromptScorePatient  = "score_patient"
	PromptCAAWorkup     = "caa_workup"
	PromptAppraiseTrial = "appraise_trial"
)

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        PromptScorePatient,
		Description: "Walk through collecting inputs for an instrument and scoring it.",
		Arguments: []*mcp.PromptArgument{
			{Name: "instrument_id", Description: "instrument ID or alias", Required: true},
			{Name: "findings", Description: "free-text clinical findings to map onto the inputs"},
		},
	}, s.scorePatientPrompt)

	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        PromptCAAWorkup,
		Description: "Gather the findings needed for a Boston Criteria v2.0 classification.",
		Arguments: []*mcp.PromptArgument{
			{Name: "history", Description: "presentation and imaging summary"},
		},
	}, s.caaWorkupPrompt)

	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        PromptAppraiseTrial,
		Description: "Summarize a catalog trial and discuss how to read its result.",
		Arguments: []*mcp.PromptArgument{
			{Name: "trial_id", Description: "trial ID from list_trials", Required: true},
		},
	}, s.appraiseTrialPrompt)
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}

func (s *Server) scorePatientPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	inst, err := s.service.GetInstrument(args["instrument_id"])
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score the %s for this patient.\n\nInputs:\n", inst.Name)
	for _, in := range inst.Inputs {
		fmt.Fprintf(&b, "- %s: %s", in.ID, in.Label)
		if len(in.Choices) > 0 {
			values := make([]string, len(in.Choices))
			for i, c := range in.Choices {
				values[i] = fmt.Sprintf("%s (%s)", c.Value, c.Label)
			}
			fmt.Fprintf(&b, "; one of %s", strings.Join(values, ", "))
		}
		b.WriteString("\n")
	}
	if findings := args["findings"]; findings != "" {
		fmt.Fprintf(&b, "\nFindings:\n%s\n", findings)
	}
	fmt.Fprintf(&b, "\nAsk for anything missing, then call %s with instrument_id %q. Report the score, "+
		"the interpretation and any inputs that were left out.", ToolEvaluate, inst.ID)

	return userPrompt("Scoring walkthrough for "+inst.ShortName, b.String()), nil
}

func (s *Server) caaWorkupPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var b strings.Builder
	b.WriteString("Classify cerebral amyloid angiopathy using the Boston Criteria v2.0.\n\n")
	b.WriteString("Establish: age; whether pathology is available (full post-mortem, or biopsy/evacuated hematoma); ")
	b.WriteString("whether the presentation is spontaneous ICH, transient focal neurological episodes or cognitive impairment; ")
	b.WriteString("the number of strictly lobar hemorrhagic lesions on T2*-weighted MRI; ")
	b.WriteString("severe centrum semiovale perivascular spaces or multispot white matter hyperintensities; ")
	b.WriteString("any deep hemorrhagic lesion; and any other cause of hemorrhage.\n")
	if history := req.Params.Arguments["history"]; history != "" {
		fmt.Fprintf(&b, "\nHistory:\n%s\n", history)
	}
	fmt.Fprintf(&b, "\nThen call %s and explain the diagnosis and its anticoagulation implications.", ToolClassify)
	return userPrompt("Boston Criteria v2.0 workup", b.String()), nil
}

func (s *Server) appraiseTrialPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := req.Params.Arguments["trial_id"]
	res, err := s.service.SummarizeTrial(ctx, id)
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("Trial summary: %s\n\nExplain what this result means for practice. "+
		"Address the absolute risk difference, the number needed to treat where it applies, "+
		"and whether the trial was negative or estimation-only.", res.Display)
	return userPrompt("Appraisal of "+id, text), nil
}
