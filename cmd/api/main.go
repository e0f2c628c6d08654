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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/margiesol/mew-bad/docs"
	appanalytics "github.com/margiesol/mew-bad/internal/application/analytics"
	"github.com/margiesol/mew-bad/internal/application/auth"
	"github.com/margiesol/mew-bad/internal/application/billing"
	"github.com/margiesol/mew-bad/internal/application/usecase"
	"github.com/margiesol/mew-bad/internal/infrastructure/cache"
	infrapdf "github.com/margiesol/mew-bad/internal/infrastructure/pdf"
	"github.com/margiesol/mew-bad/internal/infrastructure/postgres"
	"github.com/margiesol/mew-bad/internal/infrastructure/postgres/migrations"
	httpRouter "github.com/margiesol/mew-bad/internal/interfaces/http"
	"github.com/margiesol/mew-bad/pkg/config"
	"github.com/margiesol/mew-bad/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   cfg.App.Name,
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := migrations.Up(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché del resumen de ventas: opcional. Sin REDIS_ADDR el tablero consulta siempre la DB.
	var (
		summaryCache appanalytics.SummaryCache
		invalidator  billing.SummaryInvalidator
	)
	if cfg.Redis.Enabled() {
		client, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		sc := cache.NewSummaryCache(client, cfg.Redis.SummaryTTL)
		summaryCache, invalidator = sc, sc
	}

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	agentRepo := postgres.NewAgentRepository(pool)
	bankRepo := postgres.NewBankRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	billingRepos := postgres.NewBillingRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	recomputeSvc := billing.NewRecomputeService(txRunner, invalidator, log)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, billingRepos, customerRepo, agentRepo, recomputeSvc)
	recordUC := billing.NewRecordUseCase(txRunner, billingRepos, productRepo, recomputeSvc)
	paymentUC := billing.NewPaymentUseCase(txRunner, billingRepos, bankRepo, recomputeSvc)
	customerUC := billing.NewCustomerUseCase(customerRepo)

	pdfGenerator, err := infrapdf.NewMarotoPDFGenerator(cfg.Print)
	if err != nil {
		log.Fatal().Err(err).Msg("generador PDF")
	}
	invoicePDFUC := billing.NewPDFUseCase(billingRepos, customerRepo, agentRepo, productRepo, pdfGenerator)

	agentUC := usecase.NewAgentUseCase(agentRepo)
	bankUC := usecase.NewBankUseCase(bankRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	profileUC := usecase.NewProfileUseCase(productUC, customerUC, agentUC, bankUC)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(postgres.NewDashboardRepository(pool), summaryCache, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "mew-bad API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		InvoiceUC:   invoiceUC,
		RecordUC:    recordUC,
		PaymentUC:   paymentUC,
		InvoicePDF:  invoicePDFUC,
		CustomerUC:  customerUC,
		AgentUC:     agentUC,
		BankUC:      bankUC,
		ProductUC:   productUC,
		ProfileUC:   profileUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
