package payments

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	serverExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe          = regexp.MustCompile(`^\d{3,4}$`)
	panRe          = regexp.MustCompile(`^\d{12,19}$`)
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("payexpiry", func(fl validator.FieldLevel) bool {
		return serverExpiryRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("paycvv", func(fl validator.FieldLevel) bool {
		return cvvRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("paycardnumber", func(fl validator.FieldLevel) bool {
		return panRe.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims every string field, mirroring what the client sends.
func (r *CreateRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Expiry = strings.TrimSpace(r.Expiry)
	r.CVV = strings.TrimSpace(r.CVV)
	r.CardNumber = strings.TrimSpace(r.CardNumber)
	for i, id := range r.InvoiceIDs {
		r.InvoiceIDs[i] = strings.TrimSpace(id)
	}
}

// ValidateCreateRequest returns the wire field errors for a normalized
// request, empty when the request is valid.
func ValidateCreateRequest(req *CreateRequest) []FieldError {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "request", Message: "request is invalid"}}
	}

	out := make([]FieldError, 0, len(violations))
	seen := make(map[string]struct{}, len(violations))
	for _, fe := range violations {
		field := baseFieldName(fe.Field())
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, FieldError{Field: field, Message: messageFor(field, fe)})
	}
	return out
}

// baseFieldName strips the slice index from dive violations, e.g.
// "invoiceIds[2]" -> "invoiceIds".
func baseFieldName(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		return field[:i]
	}
	return field
}

func messageFor(field string, fe validator.FieldError) string {
	switch field {
	case "firstName":
		if fe.Tag() == "required" {
			return "firstName is required"
		}
		return "firstName must be between 1 and 100 characters"
	case "lastName":
		if fe.Tag() == "required" {
			return "lastName is required"
		}
		return "lastName must be between 1 and 100 characters"
	case "expiry":
		if fe.Tag() == "required" {
			return "expiry is required"
		}
		return "expiry must be in MM/YY format with month 01-12"
	case "cvv":
		if fe.Tag() == "required" {
			return "cvv is required"
		}
		return "cvv must be 3 or 4 digits"
	case "cardNumber":
		if fe.Tag() == "required" {
			return "cardNumber is required"
		}
		return "cardNumber must be between 12 and 19 digits"
	case "invoiceIds":
		if strings.IndexByte(fe.Field(), '[') >= 0 {
			return "invoiceIds entries must not be blank"
		}
		return "invoiceIds is required"
	}
	return field + " is invalid"
}
