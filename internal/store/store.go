// Package store persists policy analyses. The store is an append-only audit
// log: records are created once and never updated or deleted.
package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"policy-advisor/internal/analysis"
)

// ErrNotFound is returned by Get for an unknown analysis id.
var ErrNotFound = errors.New("policy analysis not found")

// StoredAnalysis is a persisted policy submission together with its
// assessment. Currency inputs are echoed back as decimal strings, matching
// the wire format the form clients were built against.
type StoredAnalysis struct {
	ID                       string                      `json:"id"`
	PropertyAddress          string                      `json:"propertyAddress"`
	PropertyType             string                      `json:"propertyType"`
	ConstructionYear         int                         `json:"constructionYear"`
	SquareFootage            int                         `json:"squareFootage"`
	ReplacementCost          string                      `json:"replacementCost"`
	DwellingCoverage         string                      `json:"dwellingCoverage"`
	PersonalPropertyCoverage string                      `json:"personalPropertyCoverage"`
	LiabilityCoverage        string                      `json:"liabilityCoverage"`
	Deductible               string                      `json:"deductible"`
	LossOfUseCoverage        string                      `json:"lossOfUseCoverage"`
	HasFloodCoverage         bool                        `json:"hasFloodCoverage"`
	HasEarthquakeCoverage    bool                        `json:"hasEarthquakeCoverage"`
	ClaimsLast5Years         int                         `json:"claimsLast5Years"`
	HasMortgage              bool                        `json:"hasMortgage"`
	OverallScore             int                         `json:"overallScore"`
	RiskLevel                analysis.RiskLevel          `json:"riskLevel"`
	TotalCoverage            float64                     `json:"totalCoverage"`
	GapsIdentified           int                         `json:"gapsIdentified"`
	Categories               []analysis.CoverageCategory `json:"categories"`
	Gaps                     []analysis.CoverageGap      `json:"gaps"`
	CreatedAt                time.Time                   `json:"createdAt"`
}

// PolicyStore assigns identity to analyses and retains every one of them.
type PolicyStore interface {
	// Create assigns a fresh random id, stamps the current time, inserts
	// and returns the stored record.
	Create(ctx context.Context, input *analysis.PolicyInput, assessment *analysis.Assessment) (*StoredAnalysis, error)
	// Get is an exact-match lookup; unknown ids yield ErrNotFound.
	Get(ctx context.Context, id string) (*StoredAnalysis, error)
	// ListAll returns every record, newest first. Ties on equal
	// timestamps resolve to reverse insertion order.
	ListAll(ctx context.Context) ([]*StoredAnalysis, error)
}

// newRecord assembles a StoredAnalysis without identity; each backend fills
// in ID and CreatedAt at insert time.
func newRecord(input *analysis.PolicyInput, assessment *analysis.Assessment) *StoredAnalysis {
	return &StoredAnalysis{
		PropertyAddress:          input.PropertyAddress,
		PropertyType:             input.PropertyType,
		ConstructionYear:         input.ConstructionYear,
		SquareFootage:            input.SquareFootage,
		ReplacementCost:          formatAmount(input.ReplacementCost),
		DwellingCoverage:         formatAmount(input.DwellingCoverage),
		PersonalPropertyCoverage: formatAmount(input.PersonalPropertyCoverage),
		LiabilityCoverage:        formatAmount(input.LiabilityCoverage),
		Deductible:               formatAmount(input.Deductible),
		LossOfUseCoverage:        formatAmount(input.LossOfUseCoverage),
		HasFloodCoverage:         input.HasFloodCoverage,
		HasEarthquakeCoverage:    input.HasEarthquakeCoverage,
		ClaimsLast5Years:         input.ClaimsLast5Years,
		HasMortgage:              input.HasMortgage,
		OverallScore:             assessment.OverallScore,
		RiskLevel:                assessment.RiskLevel,
		TotalCoverage:            assessment.TotalCoverage,
		GapsIdentified:           assessment.GapsIdentified,
		Categories:               assessment.Categories,
		Gaps:                     assessment.Gaps,
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
