package service

import (
	"github.com/clinical-scoring-mcp-server/internal/audit"
	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// InstrumentSummary is the catalog entry returned when listing instruments.
type InstrumentSummary struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ShortName   string            `json:"short_name"`
	Description string            `json:"description"`
	Range       domain.ScoreRange `json:"range"`
	InputCount  int               `json:"input_count"`
}

// EvaluateParams carries an instrument evaluation request.
type EvaluateParams struct {
	InstrumentID string        `json:"instrument_id"`
	Values       domain.Values `json:"values"`
}

// EvaluateResult is an assessment plus its one-line display string.
type EvaluateResult struct {
	Instrument InstrumentSummary `json:"instrument"`
	Assessment domain.Assessment `json:"assessment"`
	Display    string            `json:"display"`
}

// ClassifyResult is a Boston Criteria classification plus the rule that produced it.
type ClassifyResult struct {
	Result  domain.ClassificationResult `json:"result"`
	Rule    string                      `json:"rule"`
	Display string                      `json:"display"`
}

// RatesParams carries an ad-hoc two-arm comparison.
type RatesParams struct {
	TreatmentRate     string   `json:"treatment_rate"`
	ControlRate       string   `json:"control_rate"`
	PValue            string   `json:"p_value,omitempty"`
	EffectSize        string   `json:"effect_size,omitempty"`
	IsNegativeTrial   bool     `json:"is_negative_trial,omitempty"`
	IsEstimationTrial bool     `json:"is_estimation_trial,omitempty"`
	NNT               *float64 `json:"nnt,omitempty"`
}

// OutcomeResult is a comparative outcome plus its display string.
type OutcomeResult struct {
	Outcome domain.ComparativeOutcome `json:"outcome"`
	Display string                    `json:"display"`
}

// TrialSummaryResult is the summary of a catalog trial.
type TrialSummaryResult struct {
	Summary domain.TrialSummary `json:"summary"`
	Display string              `json:"display"`
	Cached  bool                `json:"cached"`
}

// AuditPage is one page of the audit trail, newest first.
type AuditPage struct {
	Records []*audit.Record `json:"records"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}
