package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

func TestRegistry_Default(t *testing.T) {
	ids := make([]string, 0)
	for _, inst := range Default.List() {
		ids = append(ids, inst.ID)
	}
	assert.Equal(t, []string{"nihss", "abcd2", "ich-score", "gcs", "rope", "has-bled"}, ids)
}

func TestRegistry_GetByAlias(t *testing.T) {
	tests := []struct {
		key string
		id  string
	}{
		{"NIHSS", "nihss"},
		{"ABCD²", "abcd2"},
		{"ich", "ich-score"},
		{" Glasgow ", "gcs"},
		{"HASBLED", "has-bled"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			inst, err := Default.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.id, inst.ID)
		})
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, err := Default.Get("apgar")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = Default.Evaluate("apgar", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_RejectsDuplicateAlias(t *testing.T) {
	clash := ABCD2()
	clash.ID = "other"
	clash.Aliases = []string{"NIH"}
	_, err := NewRegistry(NIHSS(), clash)
	assert.ErrorIs(t, err, domain.ErrInvalidInstrument)
}

func TestRegistry_RejectsUncoveredRange(t *testing.T) {
	broken := ABCD2()
	broken.Table = domain.NewThresholdTable(domain.Range(0, 2, "low", "low", nil), domain.Range(4, 7, "high", "high", nil))
	_, err := NewRegistry(broken)
	assert.ErrorIs(t, err, domain.ErrInvalidInstrument)
}

func TestRegistry_ListIsACopy(t *testing.T) {
	list := Default.List()
	list[0] = nil
	assert.NotNil(t, Default.List()[0])
}

func TestRegistry_ReturnedInstrumentsAreIndependent(t *testing.T) {
	values := domain.Values{"gcs": "3-4", "volume30": true, "ivh": true, "infratentorial": true, "age": 85}
	before, err := Default.Evaluate("ich", values)
	require.NoError(t, err)

	mutations := []struct {
		name   string
		mutate func(*domain.Instrument)
	}{
		{"choice points", func(i *domain.Instrument) { i.Inputs[0].Choices[0].Points = 99 }},
		{"numeric band", func(i *domain.Instrument) { i.Inputs[4].NumericBands[1].Points = 99 }},
		{"band label", func(i *domain.Instrument) { i.Table.Bands[len(i.Table.Bands)-1].Label = "changed" }},
		{"band percentage", func(i *domain.Instrument) { *i.Table.Bands[len(i.Table.Bands)-1].Percentage = 1 }},
		{"aliases", func(i *domain.Instrument) { i.Aliases[0] = "changed" }},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Default.Get("ich")
			require.NoError(t, err)
			tt.mutate(got)
			tt.mutate(ICHScore())
			tt.mutate(Default.List()[2])
			if a, err := Default.Evaluate("ich", values); assert.NoError(t, err) && a.Percentage != nil {
				*a.Percentage = 1
			}

			after, err := Default.Evaluate("ich", values)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			_, err = Default.Get("ICH")
			assert.NoError(t, err)
		})
	}
}
