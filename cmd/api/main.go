package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/catalog"
	"github.com/jhoicas/Facturacion-api/internal/application/sales"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	infrasri "github.com/jhoicas/Facturacion-api/internal/infrastructure/sri"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("emisor", cfg.SRI.EmitterRUC).
		Str("ambiente", cfg.SRI.Environment).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	tp, err := telemetry.NewTracerProvider(telemetry.Config{
		Enabled:       cfg.Tracing.Enabled,
		ServiceName:   cfg.App.Name,
		SamplingRatio: cfg.Tracing.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			log.Fatal().Err(err).Msg("crear migrador")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	keys, err := domainsri.NewKeyGenerator(cfg.SRI.EmitterRUC, cfg.SRI.Environment, domainsri.RandomNonce)
	if err != nil {
		log.Fatal().Err(err).Msg("generador de claves de acceso")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	txRunner := postgres.NewTxRunner(pool)

	saleUC := sales.NewSaleUseCase(txRunner, log, sales.WithMetrics(m))
	invoiceUC, err := billing.NewInvoiceUseCase(txRunner, keys,
		billing.EmissionPoint{Establishment: cfg.SRI.Establishment, EmissionPoint: cfg.SRI.EmissionPoint},
		log,
		billing.WithMetrics(m),
		billing.WithAuthorizationReader(infrasri.NewAuthorizationReader()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("caso de uso de facturas")
	}
	customerUC := billing.NewCustomerUseCase(postgres.NewCustomerRepository(pool), log)
	productUC := catalog.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewStockLedger(pool), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleUC:     saleUC,
		InvoiceUC:  invoiceUC,
		CustomerUC: customerUC,
		ProductUC:  productUC,
		JWTSecret:  cfg.JWT.Secret,
		Service:    cfg.App.Name,
		Gatherer:   prometheus.DefaultGatherer,
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
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("cerrar trazas")
		}
	}

	log.Info().Msg("aplicación detenida")
}
