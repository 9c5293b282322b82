package controllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/payflowhq/payflow/internal/pkg/cache"
	"github.com/payflowhq/payflow/internal/pkg/database"
	"github.com/payflowhq/payflow/internal/pkg/payments"
)

// paymentCreator is the slice of the payment service the controller needs;
// tests swap in a fake.
type paymentCreator interface {
	CreatePayment(ctx context.Context, idempotencyKey string, req payments.CreateRequest) (*payments.Result, error)
}

var (
	paymentSvc     paymentCreator
	paymentSvcOnce sync.Once
)

func getPaymentService() paymentCreator {
	paymentSvcOnce.Do(func() {
		if paymentSvc != nil {
			return
		}
		crypto, err := payments.NewCryptoFromEnv()
		if err != nil {
			log.Fatalf("payment encryption is not configured: %v", err)
		}
		paymentSvc = payments.NewServiceFromDB(database.GetDB(), crypto)
	})
	return paymentSvc
}

// HandleCreatePayment serves POST /payments. Status contract: 201 created,
// 200 idempotent replay, 400 validation or missing Idempotency-Key, 409 key
// reused with a different payload.
func HandleCreatePayment(c *fiber.Ctx) error {
	idempotencyKey := strings.TrimSpace(c.Get("Idempotency-Key"))
	if idempotencyKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(payments.ErrorResponse{
			Code:        payments.CodeMissingIdempotencyKey,
			Message:     "Idempotency-Key header is required",
			FieldErrors: []payments.FieldError{},
		})
	}

	var req payments.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(payments.ErrorResponse{
			Code:        payments.CodeValidationError,
			Message:     "Request body is not valid JSON",
			FieldErrors: []payments.FieldError{},
		})
	}

	req.Normalize()
	if fieldErrors := payments.ValidateCreateRequest(&req); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(payments.ErrorResponse{
			Code:        payments.CodeValidationError,
			Message:     "Request validation failed",
			FieldErrors: fieldErrors,
		})
	}

	result, err := getPaymentService().CreatePayment(c.Context(), idempotencyKey, req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrIdempotencyConflict):
			return c.Status(fiber.StatusConflict).JSON(payments.ErrorResponse{
				Code:        payments.CodeIdempotencyKeyReused,
				Message:     "Idempotency-Key was already used with a different request payload",
				FieldErrors: []payments.FieldError{},
			})
		case errors.Is(err, payments.ErrClaimPending):
			return c.Status(fiber.StatusServiceUnavailable).JSON(payments.ErrorResponse{
				Code:        payments.CodePaymentInProgress,
				Message:     "A payment for this Idempotency-Key is still being processed",
				FieldErrors: []payments.FieldError{},
			})
		}
		log.Printf("payment creation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(payments.ErrorResponse{
			Code:        payments.CodeInternalError,
			Message:     "Payment could not be processed",
			FieldErrors: []payments.FieldError{},
		})
	}

	if result.HTTPStatus == fiber.StatusCreated {
		// Paid invoices changed the open-invoice set.
		_ = cache.Delete(invoicesCacheKey)
	}
	return c.Status(result.HTTPStatus).JSON(result.Response)
}
