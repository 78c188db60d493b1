// internal/analysis/request.go
package analysis

import (
	"fmt"

	"policy-advisor/internal/common/validation"
)

// policyDocumentSchema is the structural contract for the analyze-policy
// payload. Currency and count fields accept either a JSON number or a
// numeric-looking string; the form clients historically sent strings.
const policyDocumentSchema = `{
	"type": "object",
	"required": [
		"propertyAddress", "propertyType", "constructionYear", "squareFootage",
		"replacementCost", "dwellingCoverage", "personalPropertyCoverage",
		"liabilityCoverage", "deductible", "lossOfUseCoverage",
		"hasFloodCoverage", "hasEarthquakeCoverage", "hasMortgage"
	],
	"properties": {
		"propertyAddress":          {"type": "string", "minLength": 1},
		"propertyType":             {"type": "string", "minLength": 1},
		"constructionYear":         {"type": ["integer", "string"]},
		"squareFootage":            {"type": ["integer", "string"]},
		"replacementCost":          {"type": ["number", "string"]},
		"dwellingCoverage":         {"type": ["number", "string"]},
		"personalPropertyCoverage": {"type": ["number", "string"]},
		"liabilityCoverage":        {"type": ["number", "string"]},
		"deductible":               {"type": ["number", "string"]},
		"lossOfUseCoverage":        {"type": ["number", "string"]},
		"hasFloodCoverage":         {"type": "boolean"},
		"hasEarthquakeCoverage":    {"type": "boolean"},
		"claimsLast5Years":         {"type": ["integer", "string"]},
		"hasMortgage":              {"type": "boolean"}
	}
}`

const minConstructionYear = 1800

// DecodePolicyInput validates a decoded JSON document and produces a typed
// PolicyInput the engine can trust. The returned result carries every field
// violation; the input is non-nil only when the result is valid.
func DecodePolicyInput(document map[string]interface{}) (*PolicyInput, *validation.ValidationResult, error) {
	result, err := validation.ValidateDocument(document, policyDocumentSchema)
	if err != nil {
		return nil, nil, err
	}
	if !result.Valid {
		return nil, result, nil
	}

	input := &PolicyInput{
		PropertyAddress: document["propertyAddress"].(string),
		PropertyType:    document["propertyType"].(string),
	}

	input.ConstructionYear = coerceIntField(document, "constructionYear", result)
	input.SquareFootage = coerceIntField(document, "squareFootage", result)
	input.ReplacementCost = coerceFloatField(document, "replacementCost", result)
	input.DwellingCoverage = coerceFloatField(document, "dwellingCoverage", result)
	input.PersonalPropertyCoverage = coerceFloatField(document, "personalPropertyCoverage", result)
	input.LiabilityCoverage = coerceFloatField(document, "liabilityCoverage", result)
	input.Deductible = coerceFloatField(document, "deductible", result)
	input.LossOfUseCoverage = coerceFloatField(document, "lossOfUseCoverage", result)
	input.HasFloodCoverage, _ = validation.CoerceBool(document["hasFloodCoverage"])
	input.HasEarthquakeCoverage, _ = validation.CoerceBool(document["hasEarthquakeCoverage"])
	input.HasMortgage, _ = validation.CoerceBool(document["hasMortgage"])

	// Optional, defaults to zero when absent or unparsable.
	if raw, exists := document["claimsLast5Years"]; exists {
		if claims, err := validation.CoerceInt(raw); err == nil && claims >= 0 {
			input.ClaimsLast5Years = claims
		} else if err == nil && claims < 0 {
			result.AddError("claimsLast5Years", "value must be >= 0", "MINIMUM_VIOLATION")
		}
	}

	if !result.Valid {
		return nil, result, nil
	}

	validateDomainRules(input, result)
	if !result.Valid {
		return nil, result, nil
	}

	return input, result, nil
}

func validateDomainRules(input *PolicyInput, result *validation.ValidationResult) {
	if !isKnownPropertyType(input.PropertyType) {
		result.AddError("propertyType", fmt.Sprintf("value must be one of %v", PropertyTypes), "INVALID_ENUM_VALUE")
	}
	if input.ConstructionYear < minConstructionYear {
		result.AddError("constructionYear", fmt.Sprintf("value must be >= %d", minConstructionYear), "MINIMUM_VIOLATION")
	}
	if input.SquareFootage < 1 {
		result.AddError("squareFootage", "value must be >= 1", "MINIMUM_VIOLATION")
	}

	for field, amount := range map[string]float64{
		"replacementCost":          input.ReplacementCost,
		"dwellingCoverage":         input.DwellingCoverage,
		"personalPropertyCoverage": input.PersonalPropertyCoverage,
		"liabilityCoverage":        input.LiabilityCoverage,
		"deductible":               input.Deductible,
		"lossOfUseCoverage":        input.LossOfUseCoverage,
	} {
		if amount < 0 {
			result.AddError(field, "value must be >= 0", "MINIMUM_VIOLATION")
		}
	}
}

func isKnownPropertyType(propertyType string) bool {
	for _, known := range PropertyTypes {
		if propertyType == known {
			return true
		}
	}
	return false
}

func coerceIntField(document map[string]interface{}, field string, result *validation.ValidationResult) int {
	value, err := validation.CoerceInt(document[field])
	if err != nil {
		result.AddError(field, "value is not a valid integer", "INVALID_NUMBER")
		return 0
	}
	return value
}

func coerceFloatField(document map[string]interface{}, field string, result *validation.ValidationResult) float64 {
	value, err := validation.CoerceFloat(document[field])
	if err != nil {
		result.AddError(field, "value is not a valid number", "INVALID_NUMBER")
		return 0
	}
	return value
}
