// Package gst holds the pure GST compliance functions: GSTIN/PAN
// structural validation, tax-split arithmetic, and invoice checking.
// Nothing here performs I/O.
package gst

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ramanbajpai7/AcctAI/internal/domain"
)

// GSTIN layout: 2-digit state code, 10-char PAN, entity number, the
// literal Z, check digit.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// PAN layout: 5 letters, 4 digits, 1 letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

var stateCodes = map[string]string{
	"01": "Jammu & Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"26": "Dadra & Nagar Haveli and Daman & Diu",
	"27": "Maharashtra",
	"28": "Andhra Pradesh (Old)",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman & Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"97": "Other Territory",
}

// Entity-type letter at position 6 (the 4th PAN character).
var entityTypes = map[string]string{
	"C": "Company",
	"P": "Firm/LLP",
	"H": "HUF",
	"A": "Association of Persons",
	"T": "Trust",
	"B": "Body of Individuals",
	"L": "Local Authority",
	"J": "Artificial Juridical Person",
	"G": "Government",
	"K": "Krishi Finance Corporation",
	"N": "Non-resident Taxable Person",
	"F": "Foreign Liquidator",
	"U": "Govt. Underd. ID Num.",
	"O": "Other",
}

// ValidateGSTIN checks the structural pattern and the state-code table.
// It does NOT verify the official modulo-36 check digit; a structurally
// well-formed GSTIN with a wrong check digit passes.
func ValidateGSTIN(gstin string) domain.GSTValidationResult {
	result := domain.GSTValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	gstin = strings.ToUpper(strings.ReplaceAll(gstin, " ", ""))
	if gstin == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "GSTIN is required")
		return result
	}

	if len(gstin) != 15 {
		result.IsValid = false
		result.Errors = append(result.Errors, "GSTIN must be exactly 15 characters")
		return result
	}

	if !gstinPattern.MatchString(gstin) {
		result.IsValid = false
		result.Errors = append(result.Errors, "Invalid GSTIN format")
		return result
	}

	stateCode := gstin[0:2]
	stateName, known := stateCodes[stateCode]
	if !known {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid state code: %s", stateCode))
		return result
	}

	entityLetter := string(gstin[5])
	entityType, known := entityTypes[entityLetter]
	if !known {
		entityType = "Unknown"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown entity type: %s", entityLetter))
	}

	result.Details = &domain.GSTINDetails{
		StateCode:  stateCode,
		StateName:  stateName,
		PANNumber:  gstin[2:12],
		EntityType: entityType,
		CheckDigit: string(gstin[14]),
	}

	return result
}

// ValidatePAN checks the 10-character PAN structural format.
func ValidatePAN(pan string) domain.PANValidationResult {
	pan = strings.ToUpper(strings.ReplaceAll(pan, " ", ""))

	if pan == "" {
		return domain.PANValidationResult{Error: "PAN is required"}
	}
	if len(pan) != 10 {
		return domain.PANValidationResult{Error: "PAN must be exactly 10 characters"}
	}
	if !panPattern.MatchString(pan) {
		return domain.PANValidationResult{Error: "Invalid PAN format"}
	}

	return domain.PANValidationResult{IsValid: true}
}

// StateFromGSTIN resolves the state name embedded in a GSTIN prefix, or
// "" when the prefix is too short or unknown.
func StateFromGSTIN(gstin string) string {
	gstin = strings.TrimSpace(gstin)
	if len(gstin) < 2 {
		return ""
	}
	return stateCodes[gstin[0:2]]
}
