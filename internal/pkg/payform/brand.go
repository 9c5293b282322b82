package payform

import "regexp"

// Brand is a detected card brand. Detection is a display concern only and
// carries no validation weight.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandUnknown    Brand = "unknown"
)

var (
	visaRe       = regexp.MustCompile(`^4`)
	mastercardRe = regexp.MustCompile(`^(5[1-5]|2(2[2-9]|[3-6]\d|7[01]|720))`)
	amexRe       = regexp.MustCompile(`^3[47]`)
	discoverRe   = regexp.MustCompile(`^(6011|65|64[4-9])`)
)

// DetectCardBrand derives the card brand from the digit prefix.
func DetectCardBrand(cardDigits string) Brand {
	switch {
	case cardDigits == "":
		return BrandUnknown
	case visaRe.MatchString(cardDigits):
		return BrandVisa
	case mastercardRe.MatchString(cardDigits):
		return BrandMastercard
	case amexRe.MatchString(cardDigits):
		return BrandAmex
	case discoverRe.MatchString(cardDigits):
		return BrandDiscover
	}
	return BrandUnknown
}
