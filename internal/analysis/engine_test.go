// internal/analysis/engine_test.go
package analysis

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createBaselinePolicy() *PolicyInput {
	return &PolicyInput{
		PropertyAddress:          "123 Main St, Springfield",
		PropertyType:             "single-family",
		ConstructionYear:         1995,
		SquareFootage:            2100,
		ReplacementCost:          350000,
		DwellingCoverage:         300000,
		PersonalPropertyCoverage: 150000,
		LiabilityCoverage:        300000,
		Deductible:               1000,
		LossOfUseCoverage:        60000,
		HasFloodCoverage:         false,
		HasEarthquakeCoverage:    false,
		ClaimsLast5Years:         0,
		HasMortgage:              true,
	}
}

func createAdequatePolicy() *PolicyInput {
	return &PolicyInput{
		PropertyAddress:          "55 Oak Ave, Portland",
		PropertyType:             "townhouse",
		ConstructionYear:         2010,
		SquareFootage:            1800,
		ReplacementCost:          400000,
		DwellingCoverage:         400000,
		PersonalPropertyCoverage: 200000,
		LiabilityCoverage:        600000,
		Deductible:               2500,
		LossOfUseCoverage:        80000,
		HasFloodCoverage:         true,
		HasEarthquakeCoverage:    false,
		ClaimsLast5Years:         0,
		HasMortgage:              false,
	}
}

func createUnderinsuredPolicy() *PolicyInput {
	return &PolicyInput{
		PropertyAddress:          "9 Cliff Rd, Galveston",
		PropertyType:             "single-family",
		ConstructionYear:         1962,
		SquareFootage:            2600,
		ReplacementCost:          300000,
		DwellingCoverage:         100000,
		PersonalPropertyCoverage: 20000,
		LiabilityCoverage:        100000,
		Deductible:               500,
		LossOfUseCoverage:        5000,
		HasFloodCoverage:         false,
		HasEarthquakeCoverage:    false,
		ClaimsLast5Years:         2,
		HasMortgage:              true,
	}
}

func categoryByTitle(t *testing.T, assessment *Assessment, title string) CoverageCategory {
	t.Helper()
	for _, category := range assessment.Categories {
		if category.Title == title {
			return category
		}
	}
	t.Fatalf("category %q not found", title)
	return CoverageCategory{}
}

// ==========================
// Core Scoring Tests
// ==========================

func TestAnalyze_BoundaryScenario(t *testing.T) {
	// dwelling gap 50000 (<= 20% of current), liability gap exactly at the
	// 200000 critical boundary, which must stay moderate.
	assessment := Analyze(createBaselinePolicy())

	dwelling := categoryByTitle(t, assessment, "Dwelling Coverage")
	assert.Equal(t, float64(350000), dwelling.RecommendedAmount)
	assert.Equal(t, StatusInsufficient, dwelling.Status)

	personalProperty := categoryByTitle(t, assessment, "Personal Property")
	assert.Equal(t, float64(175000), personalProperty.RecommendedAmount)
	assert.Equal(t, StatusInsufficient, personalProperty.Status)

	liability := categoryByTitle(t, assessment, "Liability Coverage")
	assert.Equal(t, float64(500000), liability.RecommendedAmount)
	assert.Equal(t, StatusInsufficient, liability.Status)

	lossOfUse := categoryByTitle(t, assessment, "Loss of Use")
	assert.Equal(t, float64(70000), lossOfUse.RecommendedAmount)
	assert.Equal(t, StatusInsufficient, lossOfUse.Status)

	// Gap list: liability moderate (boundary), dwelling moderate; personal
	// property and loss of use stay below their reporting thresholds even
	// though their statuses read insufficient.
	require.Len(t, assessment.Gaps, 2)
	assert.Equal(t, 2, assessment.GapsIdentified)
	assert.Equal(t, SeverityModerate, assessment.Gaps[0].Severity)
	assert.Equal(t, "Liability Coverage", assessment.Gaps[0].Category)
	assert.Equal(t, SeverityModerate, assessment.Gaps[1].Severity)
	assert.Equal(t, "Dwelling Coverage", assessment.Gaps[1].Category)

	assert.Equal(t, float64(810000), assessment.TotalCoverage)
	assert.Equal(t, 74, assessment.OverallScore)
	assert.Equal(t, RiskModerate, assessment.RiskLevel)
}

func TestAnalyze_FullyAdequatePolicy(t *testing.T) {
	assessment := Analyze(createAdequatePolicy())

	assert.Empty(t, assessment.Gaps)
	assert.Equal(t, 0, assessment.GapsIdentified)
	assert.Equal(t, 100, assessment.OverallScore)
	assert.Equal(t, RiskLow, assessment.RiskLevel)
	for _, category := range assessment.Categories {
		assert.Equal(t, StatusAdequate, category.Status, category.Title)
	}
}

func TestAnalyze_UnderinsuredPolicy(t *testing.T) {
	assessment := Analyze(createUnderinsuredPolicy())

	assert.Equal(t, StatusCritical, categoryByTitle(t, assessment, "Dwelling Coverage").Status)
	assert.Equal(t, StatusCritical, categoryByTitle(t, assessment, "Personal Property").Status)
	assert.Equal(t, StatusCritical, categoryByTitle(t, assessment, "Liability Coverage").Status)
	assert.Equal(t, StatusInsufficient, categoryByTitle(t, assessment, "Loss of Use").Status)

	require.Len(t, assessment.Gaps, 4)
	assert.Equal(t, SeverityCritical, assessment.Gaps[0].Severity)
	assert.Equal(t, "Liability Coverage", assessment.Gaps[0].Category)
	assert.Equal(t, SeverityCritical, assessment.Gaps[1].Severity)
	assert.Equal(t, "Dwelling Coverage", assessment.Gaps[1].Category)
	assert.Equal(t, SeverityModerate, assessment.Gaps[2].Severity)
	assert.Equal(t, "Personal Property Coverage", assessment.Gaps[2].Category)
	assert.Equal(t, SeverityLow, assessment.Gaps[3].Severity)
	assert.Equal(t, "Loss of Use Coverage", assessment.Gaps[3].Category)

	assert.Equal(t, 22, assessment.OverallScore)
	assert.Equal(t, RiskHigh, assessment.RiskLevel)
}

func TestAnalyze_ReplacementCostFallback(t *testing.T) {
	policy := createBaselinePolicy()
	policy.ReplacementCost = 0
	policy.DwellingCoverage = 200000

	assessment := Analyze(policy)

	// Basis becomes dwelling x 1.25 when replacement cost is zero.
	dwelling := categoryByTitle(t, assessment, "Dwelling Coverage")
	assert.Equal(t, float64(250000), dwelling.RecommendedAmount)
	assert.Equal(t, float64(125000), categoryByTitle(t, assessment, "Personal Property").RecommendedAmount)
	assert.Equal(t, float64(500000), categoryByTitle(t, assessment, "Liability Coverage").RecommendedAmount)
	assert.Equal(t, float64(50000), categoryByTitle(t, assessment, "Loss of Use").RecommendedAmount)
}

func TestAnalyze_Deterministic(t *testing.T) {
	first := Analyze(createUnderinsuredPolicy())
	second := Analyze(createUnderinsuredPolicy())

	assert.True(t, reflect.DeepEqual(first, second), "identical input must yield identical output")
}

func TestAnalyze_ScoreAlwaysInRange(t *testing.T) {
	inputs := []*PolicyInput{
		createBaselinePolicy(),
		createAdequatePolicy(),
		createUnderinsuredPolicy(),
		{PropertyAddress: "1 Empty Ln", PropertyType: "condo", ConstructionYear: 1900, SquareFootage: 1},
		{PropertyAddress: "2 Surplus Ct", PropertyType: "rental", ConstructionYear: 2020, SquareFootage: 900,
			ReplacementCost: 100000, DwellingCoverage: 900000, PersonalPropertyCoverage: 900000,
			LiabilityCoverage: 900000, LossOfUseCoverage: 900000},
	}

	for _, input := range inputs {
		assessment := Analyze(input)
		assert.GreaterOrEqual(t, assessment.OverallScore, 0)
		assert.LessOrEqual(t, assessment.OverallScore, 100)
	}
}

// ==========================
// Template and Threshold Tests
// ==========================

func TestAnalyze_ReasoningTemplates(t *testing.T) {
	withGaps := Analyze(createUnderinsuredPolicy())
	assert.Equal(t,
		"Your dwelling coverage is below the estimated replacement cost. Consider increasing coverage to match current construction costs in your area.",
		categoryByTitle(t, withGaps, "Dwelling Coverage").Reasoning)
	assert.Equal(t,
		"Most experts recommend at least $500,000 in liability protection. Consider an umbrella policy for additional coverage.",
		categoryByTitle(t, withGaps, "Liability Coverage").Reasoning)

	adequate := Analyze(createAdequatePolicy())
	assert.Equal(t,
		"Your dwelling coverage meets recommended levels based on estimated replacement cost.",
		categoryByTitle(t, adequate, "Dwelling Coverage").Reasoning)
	assert.Equal(t,
		"Your Loss of Use coverage should adequately cover temporary housing needs.",
		categoryByTitle(t, adequate, "Loss of Use").Reasoning)
}

func TestAnalyze_GapAmountFormatting(t *testing.T) {
	assessment := Analyze(createUnderinsuredPolicy())

	liability := assessment.Gaps[0]
	assert.Equal(t, "Current liability limit of $100K is significantly below recommended levels for your property value.", liability.Deficiency)
	assert.Equal(t, "$500K minimum", liability.RecommendedAmount)

	// Dwelling deficiency interpolates the shortfall percentage: 200000 of
	// 300000 recommended is 67%.
	dwelling := assessment.Gaps[1]
	assert.Equal(t, "Dwelling coverage is approximately 67% below estimated replacement cost.", dwelling.Deficiency)
	assert.Equal(t, "$300K", dwelling.RecommendedAmount)
}

func TestClassifyRisk_Thresholds(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskLevel
	}{
		{100, RiskLow},
		{80, RiskLow},
		{79, RiskModerate},
		{50, RiskModerate},
		{49, RiskHigh},
		{0, RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyRisk(tt.score), "score %d", tt.score)
	}
}

func TestCoverageRatio_ZeroRecommended(t *testing.T) {
	// Unreachable through Analyze because the liability floor keeps the
	// denominator positive, but the defensive rule is pinned here: zero
	// recommended coverage reads as fully covered.
	assert.Equal(t, float64(100), coverageRatio(0, 0))
	assert.Equal(t, float64(100), coverageRatio(0, 12345))
}

func TestDollarsK_Rounding(t *testing.T) {
	assert.Equal(t, "$500K", dollarsK(500000))
	assert.Equal(t, "$176K", dollarsK(175500))
	assert.Equal(t, "$0K", dollarsK(499))
}
