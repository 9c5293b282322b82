package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/payflowhq/payflow/app/models"
	"github.com/payflowhq/payflow/internal/pkg/cache"
	"github.com/payflowhq/payflow/internal/pkg/database"
)

const (
	invoicesCacheKey = "invoices:open"
	invoicesCacheTTL = 30 * time.Second
)

// InvoicesResponse is the open-invoice snapshot served to clients.
type InvoicesResponse struct {
	Invoices    []models.Invoice `json:"invoices"`
	TotalAmount float64          `json:"totalAmount"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// invoiceLister is swapped in controller tests.
var invoiceLister = listOpenInvoicesFromDB

func listOpenInvoicesFromDB() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := database.GetDB().Where("paid_at IS NULL").Order("id").Find(&invoices).Error
	return invoices, err
}

// HandleListInvoices serves GET /invoices: the unpaid invoices plus their
// total amount, cached briefly in Redis.
func HandleListInvoices(c *fiber.Ctx) error {
	if cached, err := cache.Get(invoicesCacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	invoices, err := invoiceLister()
	if err != nil {
		log.Printf("listing invoices failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    "INTERNAL_ERROR",
			"message": "Invoices could not be loaded",
		})
	}

	resp := InvoicesResponse{
		Invoices:    invoices,
		TotalAmount: 0,
		LastUpdated: time.Now().UTC(),
	}
	if resp.Invoices == nil {
		resp.Invoices = []models.Invoice{}
	}
	for _, inv := range invoices {
		resp.TotalAmount += inv.Amount
	}

	if raw, err := json.Marshal(resp); err == nil {
		_ = cache.Set(invoicesCacheKey, string(raw), invoicesCacheTTL)
	}
	return c.JSON(resp)
}

// HandleHealth is the liveness probe.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "UP"})
}
