// Package content supplies the read-only trial records consumed by the summarizer.
//
// Catalog loads records from YAML, by default from the file embedded in the binary.
// PostgresRepository serves the same records from the trials table.
package content

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

//go:embed trials.yaml
var defaultTrialsYAML []byte

type catalogFile struct {
	Trials []domain.TrialRecord `yaml:"trials"`
}

// Catalog is an immutable in-memory TrialRepository.
type Catalog struct {
	trials []domain.TrialRecord
	byID   map[string]int
}

// LoadCatalog parses a YAML document with a top-level "trials" list.
func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse trials catalog: %w", err)
	}
	return NewCatalog(file.Trials)
}

// LoadCatalogFile reads a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trials catalog %s: %w", path, err)
	}
	return LoadCatalog(data)
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultTrialsYAML)
}

// NewCatalog indexes records, rejecting missing or duplicate IDs.
func NewCatalog(records []domain.TrialRecord) (*Catalog, error) {
	c := &Catalog{
		trials: make([]domain.TrialRecord, 0, len(records)),
		byID:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("trial %q: missing id", r.Name)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("trial %s: duplicate id", r.ID)
		}
		c.byID[r.ID] = len(c.trials)
		c.trials = append(c.trials, cloneRecord(r))
	}
	return c, nil
}

// Get returns a copy of the record with the given ID.
func (c *Catalog) Get(_ context.Context, id string) (*domain.TrialRecord, error) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("trial %q: %w", id, domain.ErrNotFound)
	}
	r := cloneRecord(c.trials[idx])
	return &r, nil
}

// List returns copies of all records in catalog order.
func (c *Catalog) List(_ context.Context) ([]domain.TrialRecord, error) {
	out := make([]domain.TrialRecord, len(c.trials))
	for i, r := range c.trials {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

// Len reports the number of records.
func (c *Catalog) Len() int {
	return len(c.trials)
}

func cloneRecord(r domain.TrialRecord) domain.TrialRecord {
	if r.NNT != nil {
		nnt := *r.NNT
		r.NNT = &nnt
	}
	return r
}
