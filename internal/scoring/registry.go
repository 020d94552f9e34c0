package scoring

import (
	"fmt"
	"strings"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

// Registry is an ordered, read-only catalog of instruments.
type Registry struct {
	ordered []*domain.Instrument
	byKey   map[string]*domain.Instrument
}

// NewRegistry validates and indexes instruments by ID and alias, case-insensitively.
func NewRegistry(instruments ...*domain.Instrument) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*domain.Instrument)}
	for _, inst := range instruments {
		inst = inst.Clone()
		if err := inst.Validate(); err != nil {
			return nil, err
		}
		keys := append([]string{inst.ID}, inst.Aliases...)
		for _, k := range keys {
			k = strings.ToLower(k)
			if prev, dup := r.byKey[k]; dup {
				return nil, fmt.Errorf("instrument %s: %w: key %q already used by %s", inst.ID, domain.ErrInvalidInstrument, k, prev.ID)
			}
			r.byKey[k] = inst
		}
		r.ordered = append(r.ordered, inst)
	}
	return r, nil
}

// Default holds the built-in instruments in display order.
var Default = mustRegistry(NIHSS(), ABCD2(), ICHScore(), GCS(), RoPE(), HASBLED())

func mustRegistry(instruments ...*domain.Instrument) *Registry {
	r, err := NewRegistry(instruments...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get finds an instrument by ID or alias and returns a copy of it.
func (r *Registry) Get(id string) (*domain.Instrument, error) {
	inst, ok := r.byKey[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("instrument %q: %w", id, domain.ErrNotFound)
	}
	return inst.Clone(), nil
}

// List returns copies of the instruments in registration order.
func (r *Registry) List() []*domain.Instrument {
	out := make([]*domain.Instrument, len(r.ordered))
	for i, inst := range r.ordered {
		out[i] = inst.Clone()
	}
	return out
}

// Evaluate looks up an instrument and scores values against it.
func (r *Registry) Evaluate(id string, values domain.Values) (domain.Assessment, error) {
	inst, ok := r.byKey[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return domain.Assessment{}, fmt.Errorf("instrument %q: %w", id, domain.ErrNotFound)
	}
	return Evaluate(inst, values), nil
}
