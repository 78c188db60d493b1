// internal/analysis/engine.go
package analysis

import (
	"fmt"
	"math"
)

const (
	// Liability recommendations floor at half a million regardless of the
	// replacement cost basis.
	liabilityFloor = 500000

	// Absolute dollar threshold that makes a liability gap critical. The
	// comparison is strictly greater-than; a gap of exactly 200000 stays
	// moderate.
	liabilityCriticalGap = 200000
)

// Analyze runs the coverage-gap assessment over a validated policy. It is a
// pure function: identical input yields identical output.
func Analyze(policy *PolicyInput) *Assessment {
	dwellingCurrent := policy.DwellingCoverage
	replacementCost := policy.ReplacementCost
	if replacementCost <= 0 {
		// Fallback estimate when replacement cost is unknown or zero.
		replacementCost = dwellingCurrent * 1.25
	}
	personalPropertyCurrent := policy.PersonalPropertyCoverage
	liabilityCurrent := policy.LiabilityCoverage
	lossOfUseCurrent := policy.LossOfUseCoverage

	dwellingRecommended := replacementCost
	personalPropertyRecommended := dwellingRecommended * 0.5
	liabilityRecommended := math.Max(liabilityFloor, dwellingRecommended*0.5)
	lossOfUseRecommended := dwellingRecommended * 0.2

	dwellingGap := dwellingRecommended - dwellingCurrent
	personalPropertyGap := personalPropertyRecommended - personalPropertyCurrent
	liabilityGap := liabilityRecommended - liabilityCurrent
	lossOfUseGap := lossOfUseRecommended - lossOfUseCurrent

	categories := []CoverageCategory{
		{
			Title:             "Dwelling Coverage",
			CurrentAmount:     dwellingCurrent,
			RecommendedAmount: dwellingRecommended,
			Status:            dwellingStatus(dwellingGap, dwellingCurrent),
			Reasoning: pick(dwellingGap > 0,
				"Your dwelling coverage is below the estimated replacement cost. Consider increasing coverage to match current construction costs in your area.",
				"Your dwelling coverage meets recommended levels based on estimated replacement cost."),
		},
		{
			Title:             "Personal Property",
			CurrentAmount:     personalPropertyCurrent,
			RecommendedAmount: personalPropertyRecommended,
			Status:            personalPropertyStatus(personalPropertyGap, personalPropertyCurrent),
			Reasoning: pick(personalPropertyGap > 0,
				"Personal property coverage should typically be 50-70% of dwelling coverage to adequately protect your belongings.",
				"Your personal property coverage meets the recommended minimum."),
		},
		{
			Title:             "Liability Coverage",
			CurrentAmount:     liabilityCurrent,
			RecommendedAmount: liabilityRecommended,
			Status:            liabilityStatus(liabilityGap),
			Reasoning: pick(liabilityGap > 0,
				"Most experts recommend at least $500,000 in liability protection. Consider an umbrella policy for additional coverage.",
				"Your liability coverage provides adequate protection for most scenarios."),
		},
		{
			Title:             "Loss of Use",
			CurrentAmount:     lossOfUseCurrent,
			RecommendedAmount: lossOfUseRecommended,
			Status:            lossOfUseStatus(lossOfUseGap, lossOfUseCurrent),
			Reasoning: pick(lossOfUseGap > 0,
				"Loss of Use coverage should be 20-30% of dwelling coverage to cover extended displacement.",
				"Your Loss of Use coverage should adequately cover temporary housing needs."),
		},
	}

	// The gap list runs on its own thresholds, independent of the status
	// pass above. A category can read "insufficient" yet produce no entry
	// here; the divergence is observed production behavior and must stay.
	gaps := []CoverageGap{}

	if liabilityGap > liabilityCriticalGap {
		gaps = append(gaps, CoverageGap{
			Severity:          SeverityCritical,
			Category:          "Liability Coverage",
			Deficiency:        fmt.Sprintf("Current liability limit of %s is significantly below recommended levels for your property value.", dollarsK(liabilityCurrent)),
			RecommendedAmount: fmt.Sprintf("%s minimum", dollarsK(liabilityRecommended)),
			RiskScenario:      "A guest is seriously injured on your property. Medical bills and legal fees exceed your policy limit. You would be personally responsible for costs above your current limit, potentially putting your savings and assets at risk.",
			Recommendation:    "Increase your liability coverage to at least $500,000. Consider an umbrella policy for additional protection if your net worth exceeds this amount.",
		})
	} else if liabilityGap > 0 {
		gaps = append(gaps, CoverageGap{
			Severity:          SeverityModerate,
			Category:          "Liability Coverage",
			Deficiency:        "Liability coverage could be increased for better asset protection.",
			RecommendedAmount: dollarsK(liabilityRecommended),
			RiskScenario:      "Legal claims or medical expenses from property-related incidents could exceed your current coverage limits.",
			Recommendation:    "Consider increasing liability limits to provide a stronger financial safety net.",
		})
	}

	if dwellingGap > dwellingCurrent*0.2 {
		gaps = append(gaps, CoverageGap{
			Severity:          SeverityCritical,
			Category:          "Dwelling Coverage",
			Deficiency:        fmt.Sprintf("Dwelling coverage is approximately %.0f%% below estimated replacement cost.", math.Round(dwellingGap/dwellingRecommended*100)),
			RecommendedAmount: dollarsK(dwellingRecommended),
			RiskScenario:      "A total loss occurs. Rebuilding costs have increased significantly in recent years. Your current coverage may leave you substantially short of full replacement.",
			Recommendation:    "Increase dwelling coverage to match current replacement cost estimates. Consider guaranteed replacement cost coverage for inflation protection.",
		})
	} else if dwellingGap > 0 {
		gaps = append(gaps, CoverageGap{
			Severity:          SeverityModerate,
			Category:          "Dwelling Coverage",
			Deficiency:        "Dwelling coverage is below estimated replacement cost.",
			RecommendedAmount: dollarsK(dwellingRecommended),
			RiskScenario:      "Construction costs may exceed your coverage in the event of a total loss.",
			Recommendation:    "Adjust dwelling coverage to match current market replacement costs.",
		})
	}

	if personalPropertyGap > personalPropertyCurrent*0.3 {
		gaps = append(gaps, CoverageGap{
			Severity:          SeverityModerate,
			Category:          "Personal Property Coverage",
			Deficiency:        "Personal property coverage is below recommended levels.",
			RecommendedAmount: dollarsK(personalPropertyRecommended),
			RiskScenario:      "A theft or fire destroys personal belongings. Replacement costs for furniture, electronics, and clothing exceed your coverage.",
			Recommendation:    "Increase personal property coverage to 50-70% of dwelling coverage value.",
		})
	}

	if lossOfUseGap > lossOfUseCurrent*0.5 {
		gaps = append(gaps, CoverageGap{
			Severity:          SeverityLow,
			Category:          "Loss of Use Coverage",
			Deficiency:        "Loss of Use coverage may be insufficient for extended displacement scenarios.",
			RecommendedAmount: dollarsK(lossOfUseRecommended),
			RiskScenario:      "Major damage requires 12-18 months of temporary housing. Your current coverage may not cover extended hotel stays at local market rates.",
			Recommendation:    "Consider increasing Loss of Use coverage to 20-30% of your dwelling coverage.",
		})
	}

	totalCurrent := dwellingCurrent + personalPropertyCurrent + liabilityCurrent + lossOfUseCurrent
	totalRecommended := dwellingRecommended + personalPropertyRecommended + liabilityRecommended + lossOfUseRecommended
	totalGap := dwellingGap + personalPropertyGap + liabilityGap + lossOfUseGap

	overallScore := int(math.Round(clampRatio(coverageRatio(totalRecommended, totalGap))))

	return &Assessment{
		OverallScore:   overallScore,
		RiskLevel:      ClassifyRisk(overallScore),
		TotalCoverage:  totalCurrent,
		GapsIdentified: len(gaps),
		Categories:     categories,
		Gaps:           gaps,
	}
}

// ClassifyRisk maps an overall score to its risk level.
func ClassifyRisk(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 50:
		return RiskModerate
	default:
		return RiskHigh
	}
}

func dwellingStatus(gap, current float64) CategoryStatus {
	switch {
	case gap > current*0.2:
		return StatusCritical
	case gap > 0:
		return StatusInsufficient
	default:
		return StatusAdequate
	}
}

func personalPropertyStatus(gap, current float64) CategoryStatus {
	switch {
	case gap > current*0.3:
		return StatusCritical
	case gap > 0:
		return StatusInsufficient
	default:
		return StatusAdequate
	}
}

func liabilityStatus(gap float64) CategoryStatus {
	switch {
	case gap > liabilityCriticalGap:
		return StatusCritical
	case gap > 0:
		return StatusInsufficient
	default:
		return StatusAdequate
	}
}

// lossOfUseStatus never reaches critical: both active branches map to
// insufficient. Flagged upstream as intentional; do not collapse the
// branches, the >0.5 threshold is what the gap list keys off.
func lossOfUseStatus(gap, current float64) CategoryStatus {
	switch {
	case gap > current*0.5:
		return StatusInsufficient
	case gap > 0:
		return StatusInsufficient
	default:
		return StatusAdequate
	}
}

// coverageRatio defines 100% coverage when nothing is recommended, so the
// ratio is total even though the liability floor makes a zero denominator
// unreachable through the public API.
func coverageRatio(totalRecommended, totalGap float64) float64 {
	if totalRecommended == 0 {
		return 100
	}
	return (totalRecommended - totalGap) / totalRecommended * 100
}

func clampRatio(ratio float64) float64 {
	return math.Max(0, math.Min(100, ratio))
}

// dollarsK renders an amount as thousands, e.g. 500000 -> "$500K".
func dollarsK(amount float64) string {
	return fmt.Sprintf("$%.0fK", math.Round(amount/1000))
}

func pick(cond bool, whenTrue, whenFalse string) string {
	if cond {
		return whenTrue
	}
	return whenFalse
}
