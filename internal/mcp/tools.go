package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

// Tool names.
const (
	ToolListInstruments = "list_instruments"
	ToolGetInstrument   = "get_instrument"
	ToolEvaluate        = "evaluate_instrument"
	ToolClassify        = "classify_boston_criteria"
	ToolSummarizeTrial  = "summarize_trial"
	ToolSummarizeRates  = "summarize_rates"
	ToolListTrials      = "list_trials"
)

type emptyInput struct{}

type listInstrumentsOutput struct {
	Instruments []service.InstrumentSummary `json:"instruments"`
	Count       int                         `json:"count"`
}

type getInstrumentInput struct {
	InstrumentID string `json:"instrument_id" jsonschema:"instrument ID or alias, e.g. nihss, abcd2, ich"`
}

type evaluateInput struct {
	InstrumentID string         `json:"instrument_id" jsonschema:"instrument ID or alias, e.g. nihss, abcd2, ich"`
	Values       map[string]any `json:"values,omitempty" jsonschema:"input values keyed by input ID; booleans, numbers, option values or option points"`
}

type classifyInput struct {
	Age                    int  `json:"age" jsonschema:"patient age in years"`
	PathologyDefinite      bool `json:"pathology_definite_caa,omitempty" jsonschema:"full post-mortem examination demonstrating CAA"`
	PathologySupporting    bool `json:"pathology_supporting_caa,omitempty" jsonschema:"pathologic evidence of CAA from biopsy or evacuated hematoma"`
	QualifyingPresentation bool `json:"qualifying_presentation,omitempty" jsonschema:"spontaneous ICH, transient focal neurological episodes or cognitive impairment"`
	LobarLesions           int  `json:"lobar_hemorrhagic_lesions,omitempty" jsonschema:"strictly lobar hemorrhagic lesions: 0, 1 or 2 meaning two or more"`
	WhiteMatterFeature     bool `json:"white_matter_feature,omitempty" jsonschema:"severe centrum semiovale perivascular spaces or multispot white matter hyperintensities"`
	DeepLesions            bool `json:"deep_hemorrhagic_lesions,omitempty" jsonschema:"any deep hemorrhagic lesion"`
	OtherCause             bool `json:"other_cause_of_hemorrhage,omitempty" jsonschema:"another cause of hemorrhage is present"`
}

type summarizeTrialInput struct {
	TrialID string `json:"trial_id" jsonschema:"trial ID from list_trials"`
}

type summarizeRatesInput struct {
	TreatmentRate     string   `json:"treatment_rate" jsonschema:"treatment arm event rate, e.g. 45%"`
	ControlRate       string   `json:"control_rate" jsonschema:"control arm event rate, e.g. 17%"`
	PValue            string   `json:"p_value,omitempty" jsonschema:"published p-value text, e.g. <0.001 or 0.06"`
	EffectSize        string   `json:"effect_size,omitempty" jsonschema:"published effect size text"`
	IsNegativeTrial   bool     `json:"is_negative_trial,omitempty" jsonschema:"trial did not show benefit"`
	IsEstimationTrial bool     `json:"is_estimation_trial,omitempty" jsonschema:"trial estimates an effect rather than testing superiority"`
	NNT               *float64 `json:"nnt,omitempty" jsonschema:"published number needed to treat, used instead of the computed one"`
}

type listTrialsOutput struct {
	Trials []domain.TrialRecord `json:"trials"`
	Count  int                  `json:"count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListInstruments,
		Description: "List the available clinical scoring instruments.",
	}, s.handleListInstruments)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolGetInstrument,
		Description: "Get the full definition of an instrument: inputs, options, score range and interpretation table.",
	}, s.handleGetInstrument)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolEvaluate,
		Description: "Score an instrument from input values. Missing values are reported, never rejected.",
	}, s.handleEvaluate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolClassify,
		Description: "Classify cerebral amyloid angiopathy with the Boston Criteria 2.0.",
	}, s.handleClassify)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolSummarizeTrial,
		Description: "Summarize a catalog trial as risk difference and number needed to treat.",
	}, s.handleSummarizeTrial)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolSummarizeRates,
		Description: "Summarize two event rates as risk difference and number needed to treat.",
	}, s.handleSummarizeRates)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListTrials,
		Description: "List the trials in the content catalog.",
	}, s.handleListTrials)
}

func (s *Server) logCall(tool string, start time.Time, err error) {
	entry := s.logger.WithFields(logrus.Fields{
		"tool":        tool,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("MCP tool call failed")
		return
	}
	entry.Debug("MCP tool call completed")
}

func (s *Server) handleListInstruments(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, listInstrumentsOutput, error) {
	list := s.service.ListInstruments()
	return nil, listInstrumentsOutput{Instruments: list, Count: len(list)}, nil
}

func (s *Server) handleGetInstrument(_ context.Context, _ *mcp.CallToolRequest, in getInstrumentInput) (*mcp.CallToolResult, domain.Instrument, error) {
	start := time.Now()
	inst, err := s.service.GetInstrument(in.InstrumentID)
	s.logCall(ToolGetInstrument, start, err)
	if err != nil {
		return nil, domain.Instrument{}, err
	}
	return nil, *inst, nil
}

func (s *Server) handleEvaluate(ctx context.Context, _ *mcp.CallToolRequest, in evaluateInput) (*mcp.CallToolResult, service.EvaluateResult, error) {
	start := time.Now()
	res, err := s.service.Evaluate(ctx, service.EvaluateParams{InstrumentID: in.InstrumentID, Values: in.Values})
	s.logCall(ToolEvaluate, start, err)
	if err != nil {
		return nil, service.EvaluateResult{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleClassify(ctx context.Context, _ *mcp.CallToolRequest, in classifyInput) (*mcp.CallToolResult, service.ClassifyResult, error) {
	res := s.service.Classify(ctx, domain.ClassificationInputs{
		Age:                    in.Age,
		PathologyDefinite:      in.PathologyDefinite,
		PathologySupporting:    in.PathologySupporting,
		QualifyingPresentation: in.QualifyingPresentation,
		LobarLesions:           domain.LesionCount(in.LobarLesions),
		WhiteMatterFeature:     in.WhiteMatterFeature,
		DeepLesions:            in.DeepLesions,
		OtherCause:             in.OtherCause,
	})
	return nil, *res, nil
}

func (s *Server) handleSummarizeTrial(ctx context.Context, _ *mcp.CallToolRequest, in summarizeTrialInput) (*mcp.CallToolResult, service.TrialSummaryResult, error) {
	start := time.Now()
	res, err := s.service.SummarizeTrial(ctx, in.TrialID)
	s.logCall(ToolSummarizeTrial, start, err)
	if err != nil {
		return nil, service.TrialSummaryResult{}, err
	}
	return nil, *res, nil
}

func (s *Server) handleSummarizeRates(ctx context.Context, _ *mcp.CallToolRequest, in summarizeRatesInput) (*mcp.CallToolResult, service.OutcomeResult, error) {
	return nil, *s.service.SummarizeRates(ctx, service.RatesParams{
		TreatmentRate:     in.TreatmentRate,
		ControlRate:       in.ControlRate,
		PValue:            in.PValue,
		EffectSize:        in.EffectSize,
		IsNegativeTrial:   in.IsNegativeTrial,
		IsEstimationTrial: in.IsEstimationTrial,
		NNT:               in.NNT,
	}), nil
}

func (s *Server) handleListTrials(ctx context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, listTrialsOutput, error) {
	start := time.Now()
	records, err := s.service.ListTrials(ctx)
	s.logCall(ToolListTrials, start, err)
	if err != nil {
		return nil, listTrialsOutput{}, err
	}
	if records == nil {
		records = []domain.TrialRecord{}
	}
	return nil, listTrialsOutput{Trials: records, Count: len(records)}, nil
}
