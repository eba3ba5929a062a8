package main

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/mail"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/internal/jobs"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "worker",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Int("concurrency", cfg.Queue.Concurrency).
		Msg("iniciando worker de envío de recibos")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	sender := mail.NewGomailSender(cfg.SMTP)
	emailer := jobs.NewInvoiceEmailer(invoiceRepo, sender, log)

	srv := jobs.NewWorkerServer(cfg.Queue, log)
	mux := jobs.NewMux(emailer)

	// Run bloquea hasta SIGINT/SIGTERM y termina los handlers en curso.
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}

	log.Info().Msg("worker detenido")
}
