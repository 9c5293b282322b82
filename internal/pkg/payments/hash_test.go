package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hashRequest() CreateRequest {
	return CreateRequest{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Expiry:     "12/29",
		CVV:        "123",
		CardNumber: "4242424242424242",
		InvoiceIDs: []string{"INV-2025-002", "INV-2025-008"},
	}
}

func TestHashCreateRequestIsStable(t *testing.T) {
	req := hashRequest()
	assert.Equal(t, HashCreateRequest(req), HashCreateRequest(req))
}

func TestHashCreateRequestIgnoresInvoiceOrder(t *testing.T) {
	a := hashRequest()
	b := hashRequest()
	b.InvoiceIDs = []string{"INV-2025-008", "INV-2025-002"}

	assert.Equal(t, HashCreateRequest(a), HashCreateRequest(b))
}

func TestHashCreateRequestExcludesCVV(t *testing.T) {
	a := hashRequest()
	b := hashRequest()
	b.CVV = "999"

	assert.Equal(t, HashCreateRequest(a), HashCreateRequest(b),
		"the CVV must never participate in the hash")
}

func TestHashCreateRequestUsesOnlyCardLast4(t *testing.T) {
	a := hashRequest()
	b := hashRequest()
	// Different PAN, same last4.
	b.CardNumber = "4000000000004242"

	assert.Equal(t, HashCreateRequest(a), HashCreateRequest(b))

	c := hashRequest()
	c.CardNumber = "4242424242420000"
	assert.NotEqual(t, HashCreateRequest(a), HashCreateRequest(c))
}

func TestHashCreateRequestChangesWithPayload(t *testing.T) {
	base := hashRequest()

	edits := []func(*CreateRequest){
		func(r *CreateRequest) { r.FirstName = "Grace" },
		func(r *CreateRequest) { r.LastName = "Hopper" },
		func(r *CreateRequest) { r.Expiry = "11/29" },
		func(r *CreateRequest) { r.InvoiceIDs = []string{"INV-2025-002"} },
	}
	for i, edit := range edits {
		req := hashRequest()
		edit(&req)
		assert.NotEqual(t, HashCreateRequest(base), HashCreateRequest(req), "edit %d", i)
	}
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "4242", last4("4242424242424242"))
	assert.Equal(t, "123", last4("123"))
	assert.Equal(t, "1234", last4("1234"))
	assert.Equal(t, "", last4(""))
}
