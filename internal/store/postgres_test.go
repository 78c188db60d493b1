// internal/store/postgres_test.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-advisor/internal/common/database"
)

// ==========================
// Test Helper Functions
// ==========================

func createMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPostgresStore(&database.PostgresClient{DB: mockDB}), mock
}

var analysisColumns = []string{
	"id", "property_address", "property_type", "construction_year", "square_footage",
	"replacement_cost", "dwelling_coverage", "personal_property_coverage",
	"liability_coverage", "deductible", "loss_of_use_coverage",
	"has_flood_coverage", "has_earthquake_coverage", "claims_last_5_years", "has_mortgage",
	"overall_score", "risk_level", "total_coverage", "gaps_identified",
	"categories", "gaps", "created_at",
}

func addAnalysisRow(t *testing.T, rows *sqlmock.Rows, id string, createdAt time.Time) {
	t.Helper()
	assessment := createTestAssessment()
	categoriesJSON, err := json.Marshal(assessment.Categories)
	require.NoError(t, err)
	gapsJSON, err := json.Marshal(assessment.Gaps)
	require.NoError(t, err)

	rows.AddRow(
		id, "1 First St", "single-family", 1995, 2100,
		"350000", "300000", "150000",
		"300000", "1000", "60000",
		false, false, 0, true,
		assessment.OverallScore, string(assessment.RiskLevel),
		assessment.TotalCoverage, assessment.GapsIdentified,
		categoriesJSON, gapsJSON, createdAt,
	)
}

// ==========================
// Postgres Store Tests
// ==========================

func TestPostgresStore_Migrate(t *testing.T) {
	pgStore, mock := createMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS policy_analyses").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pgStore.Migrate(context.Background())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create(t *testing.T) {
	pgStore, mock := createMockStore(t)

	mock.ExpectExec("INSERT INTO policy_analyses").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record, err := pgStore.Create(context.Background(), createTestPolicy("1 First St"), createTestAssessment())

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, "300000", record.DwellingCoverage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateInsertError(t *testing.T) {
	pgStore, mock := createMockStore(t)

	mock.ExpectExec("INSERT INTO policy_analyses").
		WillReturnError(sql.ErrConnDone)

	record, err := pgStore.Create(context.Background(), createTestPolicy("1 First St"), createTestAssessment())

	assert.Nil(t, record)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert policy analysis")
}

func TestPostgresStore_Get(t *testing.T) {
	pgStore, mock := createMockStore(t)

	createdAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(analysisColumns)
	addAnalysisRow(t, rows, "abc-123", createdAt)
	mock.ExpectQuery(regexp.QuoteMeta(selectPolicyAnalysisByID)).
		WithArgs("abc-123").
		WillReturnRows(rows)

	record, err := pgStore.Get(context.Background(), "abc-123")

	require.NoError(t, err)
	assert.Equal(t, "abc-123", record.ID)
	assert.Equal(t, "1 First St", record.PropertyAddress)
	assert.Equal(t, createdAt, record.CreatedAt)
	require.Len(t, record.Categories, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	pgStore, mock := createMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectPolicyAnalysisByID)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(analysisColumns))

	record, err := pgStore.Get(context.Background(), "missing")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_ListAll(t *testing.T) {
	pgStore, mock := createMockStore(t)

	newer := time.Date(2026, 3, 14, 12, 5, 0, 0, time.UTC)
	older := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(analysisColumns)
	addAnalysisRow(t, rows, "newer-id", newer)
	addAnalysisRow(t, rows, "older-id", older)

	mock.ExpectQuery(regexp.QuoteMeta(selectAllPolicyAnalyses)).
		WillReturnRows(rows)

	records, err := pgStore.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer-id", records[0].ID)
	assert.Equal(t, "older-id", records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAllQueryError(t *testing.T) {
	pgStore, mock := createMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectAllPolicyAnalyses)).
		WillReturnError(sql.ErrConnDone)

	records, err := pgStore.ListAll(context.Background())

	assert.Nil(t, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list policy analyses")
}
