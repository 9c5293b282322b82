package receiptpdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payflowhq/payflow/internal/pkg/checkout"
)

func TestRender(t *testing.T) {
	out, err := Render(checkout.Receipt{
		RefNumber:      "pay-1",
		PaymentTime:    time.Date(2026, 2, 25, 12, 34, 56, 0, time.UTC),
		PaidInvoiceIDs: []string{"INV-2025-002", "INV-2025-008"},
		Amount:         620.45,
		Fee:            10.00,
		TotalPaid:      630.45,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderEmptyReceipt(t *testing.T) {
	out, err := Render(checkout.Receipt{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
