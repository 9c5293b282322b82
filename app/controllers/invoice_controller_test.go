package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payflowhq/payflow/app/models"
	"github.com/payflowhq/payflow/internal/pkg/cache"
)

func newInvoiceTestApp(t *testing.T, lister func() ([]models.Invoice, error)) *fiber.App {
	t.Helper()
	prev := invoiceLister
	invoiceLister = lister
	t.Cleanup(func() { invoiceLister = prev })

	// A stale cached snapshot would mask the injected lister.
	_ = cache.Delete(invoicesCacheKey)

	app := fiber.New()
	app.Get("/invoices", HandleListInvoices)
	app.Get("/health", HandleHealth)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string, out interface{}) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestListInvoices(t *testing.T) {
	app := newInvoiceTestApp(t, func() ([]models.Invoice, error) {
		return []models.Invoice{
			{ID: "INV-2025-002", Vendor: "Utility Services", Amount: 520.45},
			{ID: "INV-2025-008", Vendor: "Tech Solutions Inc.", Amount: 100.00},
		}, nil
	})

	var out InvoicesResponse
	resp := getJSON(t, app, "/invoices", &out)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Invoices, 2)
	assert.Equal(t, "INV-2025-002", out.Invoices[0].ID)
	assert.InDelta(t, 620.45, out.TotalAmount, 1e-9)
	assert.False(t, out.LastUpdated.IsZero())
}

func TestListInvoicesEmpty(t *testing.T) {
	app := newInvoiceTestApp(t, func() ([]models.Invoice, error) {
		return nil, nil
	})

	var out InvoicesResponse
	resp := getJSON(t, app, "/invoices", &out)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, out.Invoices, "the invoice list serializes as [], not null")
	assert.Empty(t, out.Invoices)
	assert.Zero(t, out.TotalAmount)
}

func TestListInvoicesFailure(t *testing.T) {
	app := newInvoiceTestApp(t, func() ([]models.Invoice, error) {
		return nil, errors.New("db down")
	})

	var out map[string]string
	resp := getJSON(t, app, "/invoices", &out)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", out["code"])
}

func TestHealth(t *testing.T) {
	app := newInvoiceTestApp(t, func() ([]models.Invoice, error) { return nil, nil })

	var out map[string]string
	resp := getJSON(t, app, "/health", &out)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UP", out["status"])
}
