package checkout

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/payflowhq/payflow/internal/pkg/payform"
)

// fingerprintPayload fixes the serialization order of the payment-sensitive
// fields, so equal values always produce equal fingerprints.
type fingerprintPayload struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	Expiry         string `json:"expiry"`
	CVC            string `json:"cvc"`
}

// Fingerprint derives a deterministic serialization of the payment-sensitive
// form fields. It is only ever compared for equality, never transmitted.
func Fingerprint(v payform.Values) string {
	raw, _ := json.Marshal(fingerprintPayload{
		CardholderName: strings.TrimSpace(v.CardholderName),
		CardNumber:     payform.DigitsOnly(v.CardNumber),
		Expiry:         stripSpace(v.Expiry),
		CVC:            payform.DigitsOnly(v.CVC),
	})
	return string(raw)
}

// IsSensitiveField reports whether editing the field changes the identity of
// a previously rejected payload. Edits to sensitive fields after a failed
// attempt force a fresh idempotency key.
func IsSensitiveField(f payform.Field) bool {
	switch f {
	case payform.FieldCardholderName, payform.FieldCardNumber, payform.FieldExpiry, payform.FieldCVC:
		return true
	}
	return false
}

func stripSpace(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}
