package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-scoring-mcp-server/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	return store
}

func testRecord(t *testing.T, subject string, at time.Time) *Record {
	t.Helper()
	rec, err := NewRecord(KindEvaluation, subject,
		map[string]any{"age60": true},
		map[string]any{"score": 1},
		subject+": 1 point (Low risk)", "corr-1")
	require.NoError(t, err)
	rec.CreatedAt = at
	return rec
}

func TestNewSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "audit.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord(KindClassification, "boston", map[string]int{"age": 70}, []string{"x"}, "summary", "")
	require.NoError(t, err)
	assert.Len(t, rec.ID, 36)
	assert.JSONEq(t, `{"age":70}`, string(rec.Input))
	assert.JSONEq(t, `["x"]`, string(rec.Output))
	assert.False(t, rec.CreatedAt.IsZero())

	_, err = NewRecord(KindEvaluation, "bad", make(chan int), nil, "", "")
	assert.Error(t, err)
}

func TestSQLiteStore_AppendAndGet(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	rec := testRecord(t, "abcd2", time.Now().UTC())
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, KindEvaluation, got.Kind)
	assert.Equal(t, "abcd2", got.Subject)
	assert.JSONEq(t, string(rec.Input), string(got.Input))
	assert.JSONEq(t, string(rec.Output), string(got.Output))
	assert.Equal(t, "corr-1", got.CorrelationID)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLiteStore_AppendDuplicateID(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	rec := testRecord(t, "gcs", time.Now().UTC())
	require.NoError(t, store.Append(ctx, rec))
	assert.Error(t, store.Append(ctx, rec))
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	got, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ListAndCount(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, subject := range []string{"nihss", "abcd2", "rope"} {
		require.NoError(t, store.Append(ctx, testRecord(t, subject, base.Add(time.Duration(i)*time.Minute))))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	page, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "rope", page[0].Subject, "newest first")
	assert.Equal(t, "abcd2", page[1].Subject)

	rest, err := store.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "nihss", rest[0].Subject)
}

func TestSQLiteStore_ExportImport(t *testing.T) {
	src := createTestStore(t)
	defer src.Close()
	ctx := context.Background()

	require.NoError(t, src.Append(ctx, testRecord(t, "ich-score", time.Now().UTC())))
	require.NoError(t, src.Append(ctx, testRecord(t, "has-bled", time.Now().UTC())))

	var buf bytes.Buffer
	require.NoError(t, src.ExportJSON(ctx, &buf))

	var export Export
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 2, export.Count)

	dst := createTestStore(t)
	defer dst.Close()

	imported, skipped, err := dst.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 0, skipped)

	imported, skipped, err = dst.ImportJSON(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, imported)
	assert.Equal(t, 2, skipped)
}

func TestSQLiteStore_ImportInvalidJSON(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	_, _, err := store.ImportJSON(context.Background(), bytes.NewReader([]byte("{not json")))
	assert.Error(t, err)
}

func TestNopStore(t *testing.T) {
	var store Store = NopStore{}
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, &Record{ID: "x"}))
	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got)

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(ctx, &buf))
	assert.Contains(t, buf.String(), `"count": 0`)
}

func TestSQLiteStore_ImportValidatesClassifications(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		output  string
		wantErr error
	}{
		{"known tags", KindClassification, `{"diagnosis":"probable-caa","anticoagulation_risk":"high"}`, nil},
		{"unknown diagnosis", KindClassification, `{"diagnosis":"maybe-caa","anticoagulation_risk":"high"}`, domain.ErrInvalidDiagnosis},
		{"unknown risk tag", KindClassification, `{"diagnosis":"possible-caa","anticoagulation_risk":"extreme"}`, domain.ErrInvalidRiskTag},
		{"evaluation output is not checked", KindEvaluation, `{"diagnosis":"anything"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStore(t)
			defer store.Close()

			export := Export{Version: "1.0", Count: 1, Records: []*Record{{
				ID:        "rec-1",
				Kind:      tt.kind,
				Subject:   "boston-criteria-2.0",
				Input:     json.RawMessage(`{}`),
				Output:    json.RawMessage(tt.output),
				CreatedAt: time.Now().UTC(),
			}}}
			data, err := json.Marshal(export)
			require.NoError(t, err)

			imported, _, err := store.ImportJSON(context.Background(), bytes.NewReader(data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, imported)
				count, err := store.Count(context.Background())
				require.NoError(t, err)
				assert.Zero(t, count)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, imported)
		})
	}
}

func TestSQLiteStore_ClosedDatabaseIsStorageFailure(t *testing.T) {
	store := createTestStore(t)
	require.NoError(t, store.Close())
	ctx := context.Background()

	_, err := store.List(ctx, 10, 0)
	assert.ErrorIs(t, err, domain.ErrStorage)
	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
	err = store.Append(ctx, testRecord(t, "gcs", time.Now().UTC()))
	assert.ErrorIs(t, err, domain.ErrStorage)
}
