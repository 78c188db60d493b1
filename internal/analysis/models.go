// Package analysis holds the policy data model and the coverage scoring engine.
package analysis

// PropertyType enumerates the accepted dwelling classifications.
var PropertyTypes = []string{"single-family", "condo", "townhouse", "rental", "multi-family"}

// CategoryStatus classifies a single coverage line.
type CategoryStatus string

const (
	StatusAdequate     CategoryStatus = "adequate"
	StatusInsufficient CategoryStatus = "insufficient"
	StatusCritical     CategoryStatus = "critical"
	StatusMissing      CategoryStatus = "missing"
)

// GapSeverity ranks an identified coverage gap.
type GapSeverity string

const (
	SeverityCritical GapSeverity = "critical"
	SeverityModerate GapSeverity = "moderate"
	SeverityLow      GapSeverity = "low"
)

// RiskLevel is derived solely from the overall score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// PolicyInput is a fully validated policy submission. The engine trusts it
// completely; all boundary checks happen in DecodePolicyInput.
type PolicyInput struct {
	PropertyAddress          string  `json:"propertyAddress"`
	PropertyType             string  `json:"propertyType"`
	ConstructionYear         int     `json:"constructionYear"`
	SquareFootage            int     `json:"squareFootage"`
	ReplacementCost          float64 `json:"replacementCost"`
	DwellingCoverage         float64 `json:"dwellingCoverage"`
	PersonalPropertyCoverage float64 `json:"personalPropertyCoverage"`
	LiabilityCoverage        float64 `json:"liabilityCoverage"`
	Deductible               float64 `json:"deductible"`
	LossOfUseCoverage        float64 `json:"lossOfUseCoverage"`
	HasFloodCoverage         bool    `json:"hasFloodCoverage"`
	HasEarthquakeCoverage    bool    `json:"hasEarthquakeCoverage"`
	ClaimsLast5Years         int     `json:"claimsLast5Years"`
	HasMortgage              bool    `json:"hasMortgage"`
}

// CoverageCategory is one tracked coverage line with its recommendation.
type CoverageCategory struct {
	Title             string         `json:"title"`
	CurrentAmount     float64        `json:"currentAmount"`
	RecommendedAmount float64        `json:"recommendedAmount"`
	Status            CategoryStatus `json:"status"`
	Reasoning         string         `json:"reasoning"`
}

// CoverageGap is a shortfall that crossed its category's reporting threshold.
type CoverageGap struct {
	Severity          GapSeverity `json:"severity"`
	Category          string      `json:"category"`
	Deficiency        string      `json:"deficiency"`
	RiskScenario      string      `json:"riskScenario"`
	Recommendation    string      `json:"recommendation"`
	RecommendedAmount string      `json:"recommendedAmount,omitempty"`
}

// Assessment is the deterministic output of the scoring engine.
type Assessment struct {
	OverallScore   int                `json:"overallScore"`
	RiskLevel      RiskLevel          `json:"riskLevel"`
	TotalCoverage  float64            `json:"totalCoverage"`
	GapsIdentified int                `json:"gapsIdentified"`
	Categories     []CoverageCategory `json:"categories"`
	Gaps           []CoverageGap      `json:"gaps"`
}
