package payform

// Field identifies one form field. The field set is closed, so per-field
// errors live in a fixed record instead of a dynamic map.
type Field string

const (
	FieldEmail          Field = "email"
	FieldCardNumber     Field = "cardNumber"
	FieldExpiry         Field = "expiry"
	FieldCVC            Field = "cvc"
	FieldCardholderName Field = "cardholderName"
	FieldCountryRegion  Field = "countryRegion"
	FieldPostalCode     Field = "postalCode"
)

// Values holds the raw editable form field strings. Display formatting
// (card digit grouping, expiry separator) is applied before storage, so the
// stored strings may carry spaces; canonical digits are recovered with
// DigitsOnly.
type Values struct {
	Email          string
	CardNumber     string
	Expiry         string
	CVC            string
	CardholderName string
	CountryRegion  string
	PostalCode     string
}

// InitialValues returns the blank form state.
func InitialValues() Values {
	return Values{CountryRegion: "United States"}
}

// Errors carries at most one message per field.
type Errors struct {
	Email          string
	CardNumber     string
	Expiry         string
	CVC            string
	CardholderName string
	CountryRegion  string
	PostalCode     string
}

// IsZero reports whether no field carries an error.
func (e Errors) IsZero() bool {
	return e == Errors{}
}

// Get returns the message for a field, or "" for unknown fields.
func (e Errors) Get(f Field) string {
	switch f {
	case FieldEmail:
		return e.Email
	case FieldCardNumber:
		return e.CardNumber
	case FieldExpiry:
		return e.Expiry
	case FieldCVC:
		return e.CVC
	case FieldCardholderName:
		return e.CardholderName
	case FieldCountryRegion:
		return e.CountryRegion
	case FieldPostalCode:
		return e.PostalCode
	}
	return ""
}

// Set assigns the message for a field; unknown fields are ignored.
func (e *Errors) Set(f Field, msg string) {
	switch f {
	case FieldEmail:
		e.Email = msg
	case FieldCardNumber:
		e.CardNumber = msg
	case FieldExpiry:
		e.Expiry = msg
	case FieldCVC:
		e.CVC = msg
	case FieldCardholderName:
		e.CardholderName = msg
	case FieldCountryRegion:
		e.CountryRegion = msg
	case FieldPostalCode:
		e.PostalCode = msg
	}
}

// Merge overlays non-empty slots of override onto e. Server field errors
// take display priority over local validation errors.
func (e Errors) Merge(override Errors) Errors {
	out := e
	for _, f := range allFields {
		if msg := override.Get(f); msg != "" {
			out.Set(f, msg)
		}
	}
	return out
}

var allFields = []Field{
	FieldEmail,
	FieldCardNumber,
	FieldExpiry,
	FieldCVC,
	FieldCardholderName,
	FieldCountryRegion,
	FieldPostalCode,
}
