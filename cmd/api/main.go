package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appbilling "github.com/retailbook/billing-api/internal/application/billing"
	domainbilling "github.com/retailbook/billing-api/internal/domain/billing"
	infrapdf "github.com/retailbook/billing-api/internal/infrastructure/pdf"
	"github.com/retailbook/billing-api/internal/infrastructure/postgres"
	httpRouter "github.com/retailbook/billing-api/internal/interfaces/http"
	"github.com/retailbook/billing-api/pkg/config"
	"github.com/retailbook/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("tax_rate", cfg.Billing.TaxRate.String()).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	customerRepo := postgres.NewCustomerRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	seqRepo := postgres.NewSequenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engine := domainbilling.NewEngine(cfg.Billing.TaxRate)
	allocator := appbilling.NewNumberAllocator(cfg.Billing.NumberPrefix, log, nil)

	customerUC := appbilling.NewCustomerUseCase(customerRepo)
	itemUC := appbilling.NewItemUseCase(itemRepo)
	invoiceUC := appbilling.NewInvoiceUseCase(
		txRunner, customerRepo, itemRepo, invoiceRepo, seqRepo,
		engine, allocator, log,
	)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := appbilling.NewPDFUseCase(invoiceRepo, customerRepo, itemRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC: customerUC,
		ItemUC:     itemUC,
		InvoiceUC:  invoiceUC,
		InvoicePDF: invoicePDFUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("http server")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("http server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
