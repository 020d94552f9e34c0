// Package service composes the scoring, classification and trial-summary
// engines with the content repository, the summary cache and the audit trail.
// The HTTP API, the MCP tools and the CLI all go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/audit"
	"github.com/clinical-scoring-mcp-server/internal/boston"
	"github.com/clinical-scoring-mcp-server/internal/cache"
	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/format"
	"github.com/clinical-scoring-mcp-server/internal/scoring"
	"github.com/clinical-scoring-mcp-server/internal/trials"
)

const (
	// DefaultAuditLimit is used when a caller asks for a page without a limit.
	DefaultAuditLimit = 50
	// MaxAuditLimit bounds a single audit page.
	MaxAuditLimit = 500

	summaryKeyPrefix = "trial-summary:"
)

// ScoringService implements every operation exposed by the transports.
type ScoringService struct {
	logger   *logrus.Logger
	registry *scoring.Registry
	trials   domain.TrialRepository
	cache    cache.Cache
	audit    audit.Store
	cacheTTL time.Duration
}

// Option customises a ScoringService.
type Option func(*ScoringService)

// WithCache caches trial summaries for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *ScoringService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithAuditStore records every computation in store.
func WithAuditStore(store audit.Store) Option {
	return func(s *ScoringService) {
		if store != nil {
			s.audit = store
		}
	}
}

// WithRegistry replaces the built-in instrument registry.
func WithRegistry(r *scoring.Registry) Option {
	return func(s *ScoringService) {
		if r != nil {
			s.registry = r
		}
	}
}

// NewScoringService creates a service over the given trial repository.
func NewScoringService(logger *logrus.Logger, trialRepo domain.TrialRepository, opts ...Option) *ScoringService {
	s := &ScoringService{
		logger:   logger,
		registry: scoring.Default,
		trials:   trialRepo,
		audit:    audit.NopStore{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func summarizeInstrument(inst *domain.Instrument) InstrumentSummary {
	return InstrumentSummary{
		ID:          inst.ID,
		Name:        inst.Name,
		ShortName:   inst.ShortName,
		Description: inst.Description,
		Range:       inst.Range,
		InputCount:  len(inst.Inputs),
	}
}

// ListInstruments returns the catalog in display order.
func (s *ScoringService) ListInstruments() []InstrumentSummary {
	list := s.registry.List()
	out := make([]InstrumentSummary, len(list))
	for i, inst := range list {
		out[i] = summarizeInstrument(inst)
	}
	return out
}

// GetInstrument returns the full definition of an instrument by ID or alias.
func (s *ScoringService) GetInstrument(id string) (*domain.Instrument, error) {
	return s.registry.Get(id)
}

// Evaluate scores values against an instrument. Missing or unrecognised values
// never fail; they are reported on the assessment.
func (s *ScoringService) Evaluate(ctx context.Context, params EvaluateParams) (*EvaluateResult, error) {
	if strings.TrimSpace(params.InstrumentID) == "" {
		return nil, domain.NewValidationError("instrument_id", "instrument ID is required", params.InstrumentID)
	}
	inst, err := s.registry.Get(params.InstrumentID)
	if err != nil {
		return nil, err
	}

	assessment := scoring.Evaluate(inst, params.Values)
	result := &EvaluateResult{
		Instrument: summarizeInstrument(inst),
		Assessment: assessment,
		Display:    format.Assessment(inst.ShortName, assessment),
	}

	s.logger.WithFields(logrus.Fields{
		"instrument":     inst.ID,
		"score":          assessment.Score,
		"complete":       assessment.Complete,
		"missing":        len(assessment.Missing),
		"correlation_id": domain.CorrelationIDFrom(ctx),
	}).Info("Instrument evaluated")

	s.record(ctx, audit.KindEvaluation, inst.ID, params.Values, assessment, result.Display)
	return result, nil
}

// Classify applies the Boston Criteria 2.0.
func (s *ScoringService) Classify(ctx context.Context, in domain.ClassificationInputs) *ClassifyResult {
	res := boston.Classify(in)
	result := &ClassifyResult{
		Result:  res,
		Rule:    boston.Explain(in),
		Display: format.Classification(res),
	}

	fields := logrus.Fields(res.LogFields())
	fields["rule"] = result.Rule
	fields["correlation_id"] = domain.CorrelationIDFrom(ctx)
	s.logger.WithFields(fields).Info("Boston criteria classified")

	s.record(ctx, audit.KindClassification, "boston-criteria-2.0", in, res, result.Display)
	return result
}

// SummarizeRates summarises an ad-hoc comparison without touching the catalog.
func (s *ScoringService) SummarizeRates(ctx context.Context, params RatesParams) *OutcomeResult {
	outcome := trials.Summarize(params.TreatmentRate, params.ControlRate, trials.Flags{
		IsEstimationTrial: params.IsEstimationTrial,
		IsNegativeTrial:   params.IsNegativeTrial,
		PValue:            params.PValue,
		EffectSize:        params.EffectSize,
		NNTOverride:       params.NNT,
	})
	result := &OutcomeResult{Outcome: outcome, Display: format.Outcome(outcome)}

	s.record(ctx, audit.KindTrialSummary, "ad-hoc", params, outcome, result.Display)
	return result
}

// ListTrials returns every trial in the content repository.
func (s *ScoringService) ListTrials(ctx context.Context) ([]domain.TrialRecord, error) {
	records, err := s.trials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	return records, nil
}

// SummarizeTrial summarises a catalog trial. Records are read-only, so the
// summary is cached by trial ID.
func (s *ScoringService) SummarizeTrial(ctx context.Context, id string) (*TrialSummaryResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("trial_id", "trial ID is required", id)
	}

	if summary, ok := s.cachedSummary(ctx, id); ok {
		return &TrialSummaryResult{Summary: summary, Display: format.Outcome(summary.Outcome), Cached: true}, nil
	}

	record, err := s.trials.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load trial %s: %w", id, err)
	}

	summary := trials.SummarizeRecord(*record)
	result := &TrialSummaryResult{Summary: summary, Display: format.Outcome(summary.Outcome)}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, summaryKeyPrefix+id, summary, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("trial", id).Warn("Failed to cache trial summary")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"trial":          id,
		"mode":           summary.Outcome.Mode,
		"correlation_id": domain.CorrelationIDFrom(ctx),
	}).Info("Trial summarized")

	s.record(ctx, audit.KindTrialSummary, id, record, summary.Outcome, result.Display)
	return result, nil
}

func (s *ScoringService) cachedSummary(ctx context.Context, id string) (domain.TrialSummary, bool) {
	if s.cache == nil {
		return domain.TrialSummary{}, false
	}
	summary, ok, err := cache.GetJSON[domain.TrialSummary](ctx, s.cache, summaryKeyPrefix+id)
	if err != nil {
		s.logger.WithError(err).WithField("trial", id).Warn("Failed to read cached trial summary")
		return domain.TrialSummary{}, false
	}
	return summary, ok
}

// ListAudit returns a page of the audit trail, newest first.
func (s *ScoringService) ListAudit(ctx context.Context, limit, offset int) (*AuditPage, error) {
	if limit == 0 {
		limit = DefaultAuditLimit
	}
	if limit < 0 || limit > MaxAuditLimit {
		return nil, domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", MaxAuditLimit), limit)
	}
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative", offset)
	}

	records, err := s.audit.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	total, err := s.audit.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}
	if records == nil {
		records = []*audit.Record{}
	}
	return &AuditPage{Records: records, Total: total, Limit: limit, Offset: offset}, nil
}

// record appends to the audit trail. Failures are logged and never surface to
// the caller; the write outlives a cancelled request.
func (s *ScoringService) record(ctx context.Context, kind audit.Kind, subject string, input, output any, summary string) {
	corrID := domain.CorrelationIDFrom(ctx)
	rec, err := audit.NewRecord(kind, subject, input, output, summary, corrID)
	if err == nil {
		err = s.audit.Append(context.WithoutCancel(ctx), rec)
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"kind":           kind,
			"subject":        subject,
			"correlation_id": corrID,
		}).Warn("Failed to append audit record")
	}
}
