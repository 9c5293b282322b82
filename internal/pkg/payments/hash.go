package payments

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// canonicalRequest is the hashed identity of a creation request. The CVV is
// excluded entirely and only the card last4 participates, so the hash never
// derives from the full PAN; invoice ids are sorted to keep the hash stable
// across retries regardless of selection order.
type canonicalRequest struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Expiry     string   `json:"expiry"`
	CardLast4  string   `json:"cardLast4"`
	InvoiceIDs []string `json:"invoiceIds"`
}

// HashCreateRequest returns the canonical SHA-256 hex digest of a creation
// request, used to detect idempotency-key reuse with a different payload.
func HashCreateRequest(req CreateRequest) string {
	ids := make([]string, len(req.InvoiceIDs))
	copy(ids, req.InvoiceIDs)
	sort.Strings(ids)

	raw, _ := json.Marshal(canonicalRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Expiry:     req.Expiry,
		CardLast4:  last4(req.CardNumber),
		InvoiceIDs: ids,
	})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func last4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
