// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"policy-advisor/internal/analysis"
	"policy-advisor/internal/common/database"
)

// PostgresStore is the durable backend. It keeps the same append-only
// contract as the in-memory store; the seq column makes the tie-break on
// equal timestamps explicit.
type PostgresStore struct {
	client *database.PostgresClient
}

const createPolicyAnalysesTable = `
CREATE TABLE IF NOT EXISTS policy_analyses (
	seq BIGSERIAL,
	id VARCHAR PRIMARY KEY,
	property_address TEXT NOT NULL,
	property_type TEXT NOT NULL,
	construction_year INTEGER NOT NULL,
	square_footage INTEGER NOT NULL,
	replacement_cost DECIMAL(12,2) NOT NULL,
	dwelling_coverage DECIMAL(12,2) NOT NULL,
	personal_property_coverage DECIMAL(12,2) NOT NULL,
	liability_coverage DECIMAL(12,2) NOT NULL,
	deductible DECIMAL(10,2) NOT NULL,
	loss_of_use_coverage DECIMAL(12,2) NOT NULL,
	has_flood_coverage BOOLEAN NOT NULL DEFAULT FALSE,
	has_earthquake_coverage BOOLEAN NOT NULL DEFAULT FALSE,
	claims_last_5_years INTEGER NOT NULL DEFAULT 0,
	has_mortgage BOOLEAN NOT NULL DEFAULT FALSE,
	overall_score INTEGER NOT NULL,
	risk_level TEXT NOT NULL,
	total_coverage DECIMAL(14,2) NOT NULL,
	gaps_identified INTEGER NOT NULL,
	categories JSONB NOT NULL,
	gaps JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const insertPolicyAnalysis = `INSERT INTO policy_analyses (
	id, property_address, property_type, construction_year, square_footage,
	replacement_cost, dwelling_coverage, personal_property_coverage,
	liability_coverage, deductible, loss_of_use_coverage,
	has_flood_coverage, has_earthquake_coverage, claims_last_5_years, has_mortgage,
	overall_score, risk_level, total_coverage, gaps_identified,
	categories, gaps, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

const selectPolicyAnalysis = `SELECT
	id, property_address, property_type, construction_year, square_footage,
	replacement_cost, dwelling_coverage, personal_property_coverage,
	liability_coverage, deductible, loss_of_use_coverage,
	has_flood_coverage, has_earthquake_coverage, claims_last_5_years, has_mortgage,
	overall_score, risk_level, total_coverage, gaps_identified,
	categories, gaps, created_at
FROM policy_analyses`

const selectPolicyAnalysisByID = selectPolicyAnalysis + ` WHERE id = $1`

const selectAllPolicyAnalyses = selectPolicyAnalysis + ` ORDER BY created_at DESC, seq DESC`

// NewPostgresStore wraps an existing postgres client.
func NewPostgresStore(client *database.PostgresClient) *PostgresStore {
	return &PostgresStore{client: client}
}

// Migrate creates the policy_analyses table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.client.Exec(ctx, createPolicyAnalysesTable); err != nil {
		return fmt.Errorf("failed to migrate policy_analyses: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, input *analysis.PolicyInput, assessment *analysis.Assessment) (*StoredAnalysis, error) {
	record := newRecord(input, assessment)
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()

	categoriesJSON, err := json.Marshal(record.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}
	gapsJSON, err := json.Marshal(record.Gaps)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gaps: %w", err)
	}

	_, err = s.client.Exec(ctx, insertPolicyAnalysis,
		record.ID, record.PropertyAddress, record.PropertyType,
		record.ConstructionYear, record.SquareFootage,
		record.ReplacementCost, record.DwellingCoverage,
		record.PersonalPropertyCoverage, record.LiabilityCoverage,
		record.Deductible, record.LossOfUseCoverage,
		record.HasFloodCoverage, record.HasEarthquakeCoverage,
		record.ClaimsLast5Years, record.HasMortgage,
		record.OverallScore, string(record.RiskLevel), record.TotalCoverage,
		record.GapsIdentified, categoriesJSON, gapsJSON, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert policy analysis: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*StoredAnalysis, error) {
	row := s.client.QueryRow(ctx, selectPolicyAnalysisByID, id)
	record, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy analysis: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*StoredAnalysis, error) {
	rows, err := s.client.Query(ctx, selectAllPolicyAnalyses)
	if err != nil {
		return nil, fmt.Errorf("failed to list policy analyses: %w", err)
	}
	defer rows.Close()

	out := []*StoredAnalysis{}
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy analysis: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate policy analyses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (*StoredAnalysis, error) {
	var record StoredAnalysis
	var riskLevel string
	var categoriesJSON, gapsJSON []byte

	err := row.Scan(
		&record.ID, &record.PropertyAddress, &record.PropertyType,
		&record.ConstructionYear, &record.SquareFootage,
		&record.ReplacementCost, &record.DwellingCoverage,
		&record.PersonalPropertyCoverage, &record.LiabilityCoverage,
		&record.Deductible, &record.LossOfUseCoverage,
		&record.HasFloodCoverage, &record.HasEarthquakeCoverage,
		&record.ClaimsLast5Years, &record.HasMortgage,
		&record.OverallScore, &riskLevel, &record.TotalCoverage,
		&record.GapsIdentified, &categoriesJSON, &gapsJSON, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.RiskLevel = analysis.RiskLevel(riskLevel)
	if err := json.Unmarshal(categoriesJSON, &record.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if err := json.Unmarshal(gapsJSON, &record.Gaps); err != nil {
		return nil, fmt.Errorf("failed to decode gaps: %w", err)
	}
	return &record, nil
}
