package project

import (
	"regexp"
	"strings"
)

var (
	regionCodePattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	regionTokenPattern = regexp.MustCompile(`\b([A-Z]{2})\b`)
)

var regionNames = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR",
	"CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE",
	"FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI", "IDAHO": "ID",
	"ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS",
	"KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD",
	"MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS",
	"MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV",
	"NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM", "NEW YORK": "NY",
	"NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK",
	"OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC",
	"SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT",
	"VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA", "WEST VIRGINIA": "WV",
	"WISCONSIN": "WI", "WYOMING": "WY", "DISTRICT OF COLUMBIA": "DC",
	"PUERTO RICO": "PR", "VIRGIN ISLANDS": "VI", "GUAM": "GU",
	"AMERICAN SAMOA": "AS", "NORTHERN MARIANA ISLANDS": "MP",
}

var regionCodes = func() map[string]struct{} {
	codes := make(map[string]struct{}, len(regionNames))
	for _, code := range regionNames {
		codes[code] = struct{}{}
	}
	return codes
}()

// NormalizeRegion maps a region value to its two-letter code. Codes pass
// through, full names are looked up case-insensitively, and a bare known code
// inside the text is extracted. Unrecognized text is returned unchanged.
func NormalizeRegion(value string) string {
	if value == "" {
		return ""
	}
	if regionCodePattern.MatchString(value) {
		return value
	}
	upper := strings.ToUpper(strings.TrimSpace(value))
	if code, ok := regionNames[upper]; ok {
		return code
	}
	if m := regionTokenPattern.FindStringSubmatch(upper); m != nil {
		if _, ok := regionCodes[m[1]]; ok {
			return m[1]
		}
	}
	return value
}

// IsRegionCode reports whether value is a known two-letter region code.
func IsRegionCode(value string) bool {
	_, ok := regionCodes[value]
	return ok
}
