package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstore "github.com/gofiber/storage/redis"

	"github.com/payflowhq/payflow/app/controllers"
	"github.com/payflowhq/payflow/internal/pkg/env"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	app.Get("/health", controllers.HandleHealth)

	rate := limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	})
	app.Get("/invoices", rate, controllers.HandleListInvoices)
	app.Post("/payments", rate, controllers.HandleCreatePayment)
}

// newLimiterStorage backs the rate limiter with Redis so limits survive
// restarts and hold across instances.
func newLimiterStorage() fiber.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstore.New(redisstore.Config{
		Host: env.GetEnv("CACHE_HOST", "localhost"),
		Port: port,
	})
}

// InstallRouter attaches every route group to the app.
func InstallRouter(app *fiber.App) {
	NewApiRouter().InstallRouter(app)
}
