package payform

import (
	"regexp"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cardNumberRe = regexp.MustCompile(`^\d{12,19}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])\s*/\s*\d{2}$`)
	cvcRe        = regexp.MustCompile(`^\d{3,4}$`)
	postalCodeRe = regexp.MustCompile(`^[A-Za-z0-9 -]{3,10}$`)
)

// Validate maps raw form values to per-field validation errors. It is pure
// and reports every applicable error, not just the first.
func Validate(v Values) Errors {
	var errs Errors

	email := strings.TrimSpace(v.Email)
	if email == "" {
		errs.Email = "Email is required"
	} else if !emailRe.MatchString(email) {
		errs.Email = "Enter a valid email"
	}

	cardDigits := DigitsOnly(v.CardNumber)
	if cardDigits == "" {
		errs.CardNumber = "Card number is required"
	} else if !cardNumberRe.MatchString(cardDigits) {
		errs.CardNumber = "Enter a valid card number"
	}

	expiry := strings.TrimSpace(v.Expiry)
	if expiry == "" {
		errs.Expiry = "Expiry is required"
	} else if !expiryRe.MatchString(expiry) {
		errs.Expiry = "Use MM/YY"
	}

	cvcDigits := DigitsOnly(v.CVC)
	if cvcDigits == "" {
		errs.CVC = "CVC is required"
	} else if !cvcRe.MatchString(cvcDigits) {
		errs.CVC = "CVC must be 3 or 4 digits"
	}

	if strings.TrimSpace(v.CardholderName) == "" {
		errs.CardholderName = "Cardholder name is required"
	}

	if strings.TrimSpace(v.CountryRegion) == "" {
		errs.CountryRegion = "Country/region is required"
	}

	postal := strings.TrimSpace(v.PostalCode)
	if postal == "" {
		errs.PostalCode = "Postal code is required"
	} else if !postalCodeRe.MatchString(postal) {
		errs.PostalCode = "Enter a valid postal code"
	}

	return errs
}
