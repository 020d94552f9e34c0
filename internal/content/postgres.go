package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// Querier is the subset of *pgxpool.Pool used by the repository.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const trialColumns = `id, name, year, topic, primary_outcome, sample_size,
	treatment_rate, control_rate, p_value, effect_size,
	is_negative_trial, is_estimation_trial, nnt, citation`

// PostgresRepository reads trial records from the trials table.
type PostgresRepository struct {
	db     Querier
	logger *logrus.Logger
}

// NewPostgresRepository creates a repository over a pgx pool or connection.
func NewPostgresRepository(db Querier, logger *logrus.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

func scanTrial(row pgx.Row) (*domain.TrialRecord, error) {
	r := &domain.TrialRecord{}
	err := row.Scan(
		&r.ID, &r.Name, &r.Year, &r.Topic, &r.PrimaryOutcome, &r.SampleSize,
		&r.TreatmentRate, &r.ControlRate, &r.PValue, &r.EffectSize,
		&r.IsNegativeTrial, &r.IsEstimationTrial, &r.NNT, &r.Citation,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Get retrieves one trial by ID.
func (p *PostgresRepository) Get(ctx context.Context, id string) (*domain.TrialRecord, error) {
	row := p.db.QueryRow(ctx, `SELECT `+trialColumns+` FROM trials WHERE id = $1`, id)
	r, err := scanTrial(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trial %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trial %s: %w: %w", id, domain.ErrStorage, err)
	}
	return r, nil
}

// List returns every trial ordered by year then ID.
func (p *PostgresRepository) List(ctx context.Context) ([]domain.TrialRecord, error) {
	rows, err := p.db.Query(ctx, `SELECT `+trialColumns+` FROM trials ORDER BY year, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.TrialRecord
	for rows.Next() {
		r, err := scanTrial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w: %w", domain.ErrStorage, err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Seed upserts records, typically the embedded catalog on first start.
func (p *PostgresRepository) Seed(ctx context.Context, records []domain.TrialRecord) error {
	for _, r := range records {
		_, err := p.db.Exec(ctx, `
			INSERT INTO trials (`+trialColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				year = EXCLUDED.year,
				topic = EXCLUDED.topic,
				primary_outcome = EXCLUDED.primary_outcome,
				sample_size = EXCLUDED.sample_size,
				treatment_rate = EXCLUDED.treatment_rate,
				control_rate = EXCLUDED.control_rate,
				p_value = EXCLUDED.p_value,
				effect_size = EXCLUDED.effect_size,
				is_negative_trial = EXCLUDED.is_negative_trial,
				is_estimation_trial = EXCLUDED.is_estimation_trial,
				nnt = EXCLUDED.nnt,
				citation = EXCLUDED.citation
		`,
			r.ID, r.Name, r.Year, r.Topic, r.PrimaryOutcome, r.SampleSize,
			r.TreatmentRate, r.ControlRate, r.PValue, r.EffectSize,
			r.IsNegativeTrial, r.IsEstimationTrial, r.NNT, r.Citation,
		)
		if err != nil {
			return fmt.Errorf("failed to seed trial %s: %w: %w", r.ID, domain.ErrStorage, err)
		}
	}

	p.logger.WithField("count", len(records)).Info("Seeded trials table")
	return nil
}
