// Package audit keeps an append-only log of the assessments, classifications and trial
// summaries served by the service. Records are never updated once written.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// Kind identifies which computation produced a record.
type Kind string

const (
	KindEvaluation     Kind = "evaluation"
	KindClassification Kind = "classification"
	KindTrialSummary   Kind = "trial_summary"
)

// Record is one audited computation. Subject is the instrument or trial ID, Input and
// Output hold the JSON request and result, and Summary is the one-line display string.
type Record struct {
	ID            string          `json:"id"`
	Kind          Kind            `json:"kind"`
	Subject       string          `json:"subject"`
	Input         json.RawMessage `json:"input"`
	Output        json.RawMessage `json:"output"`
	Summary       string          `json:"summary"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewRecord marshals input and output and stamps a fresh ID and creation time.
func NewRecord(kind Kind, subject string, input, output any, summary, correlationID string) (*Record, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit input: %w", err)
	}
	out, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit output: %w", err)
	}
	return &Record{
		ID:            uuid.NewString(),
		Kind:          kind,
		Subject:       subject,
		Input:         in,
		Output:        out,
		Summary:       summary,
		CorrelationID: correlationID,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// Validate checks the record kind. Classification outputs must carry a known
// diagnosis and anticoagulation risk tag.
func (r *Record) Validate() error {
	switch r.Kind {
	case KindEvaluation, KindTrialSummary:
		return nil
	case KindClassification:
		var res domain.ClassificationResult
		if err := json.Unmarshal(r.Output, &res); err != nil {
			return fmt.Errorf("audit record %s: %w", r.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("audit record %s: unknown kind %q", r.ID, r.Kind)
	}
}

// Store defines the interface for audit storage operations.
type Store interface {
	// Append writes a new record. Records with an existing ID are rejected.
	Append(ctx context.Context, record *Record) error

	// Get retrieves a record by ID, or nil when it does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records newest first with pagination.
	List(ctx context.Context, limit, offset int) ([]*Record, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int64, error)

	// ExportJSON writes every record to writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON reads an export, skipping records whose ID already exists.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// Export is the JSON export format.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Records    []*Record `json:"records"`
}

// maxExportLimit is the maximum number of records exported at once.
const maxExportLimit = 1000000

func exportJSON(ctx context.Context, s Store, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list audit records: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Count:      len(all),
		Records:    all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

func importJSON(ctx context.Context, s Store, reader io.Reader) (imported int, skipped int, err error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, rec := range export.Records {
		if err := rec.Validate(); err != nil {
			return imported, skipped, err
		}
		existing, err := s.Get(ctx, rec.ID)
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := s.Append(ctx, rec); err != nil {
			return imported, skipped, fmt.Errorf("failed to append: %w", err)
		}
		imported++
	}
	return imported, skipped, nil
}

// NopStore discards records. It backs the "none" audit backend.
type NopStore struct{}

func (NopStore) Append(context.Context, *Record) error { return nil }
func (NopStore) Get(context.Context, string) (*Record, error) { return nil, nil }
func (NopStore) List(context.Context, int, int) ([]*Record, error) { return nil, nil }
func (NopStore) Count(context.Context) (int64, error) { return 0, nil }
func (s NopStore) ExportJSON(ctx context.Context, w io.Writer) error { return exportJSON(ctx, s, w) }
func (NopStore) ImportJSON(context.Context, io.Reader) (int, int, error) { return 0, 0, nil }
func (NopStore) Close() error { return nil }
