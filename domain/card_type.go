package domain

// cardTypeMapping translates the host's card-brand labels into the tokens the
// provider expects. Brands not listed pass through unchanged.
var cardTypeMapping = map[string]string{
	"American Express": "american_express",
	"Diners Club":      "diners_club",
	"Visa":             "visa",
}

// NormalizeCardType returns the provider brand token for a host card-brand
// label, or the label itself when no mapping exists. Pure; callers decide
// whether to persist the result.
func NormalizeCardType(ccType string) string {
	if mapped, ok := cardTypeMapping[ccType]; ok {
		return mapped
	}
	return ccType
}
