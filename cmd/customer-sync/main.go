// customer-sync sincroniza el registro de clientes desde unidades y pallets.
//
// Uso:
//
//	go run ./cmd/customer-sync            # una ejecución (o programada si SYNC_SCHEDULE está definido)
//	go run ./cmd/customer-sync -list -status active -search ana
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/storage-manager/internal/application/customers"
	"github.com/jhoicas/storage-manager/internal/domain/repository"
	"github.com/jhoicas/storage-manager/internal/infrastructure/postgres"
	"github.com/jhoicas/storage-manager/pkg/config"
	"github.com/jhoicas/storage-manager/pkg/logger"
)

func main() {
	list := flag.Bool("list", false, "listar clientes después de sincronizar")
	status := flag.String("status", "", "filtro de estado para -list (prospective, active, past)")
	search := flag.String("search", "", "búsqueda por nombre/email/teléfono para -list")
	flag.Parse()

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
		Msg("iniciando sincronización de clientes")

	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Sync.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	svc := customers.NewService(
		postgres.NewTxRunner(pool),
		log,
		customers.WithClock(func() time.Time { return time.Now().In(loc) }),
	)
	job := customers.NewSyncJob(
		postgres.NewUnitRepository(pool),
		postgres.NewPalletRepository(pool),
		svc,
	)

	runOnce := func() error {
		runCtx, cancel := context.WithTimeout(context.Background(), cfg.Sync.Timeout)
		defer cancel()
		_, err := job.Run(runCtx)
		return err
	}

	if cfg.Sync.Schedule == "" {
		if err := runOnce(); err != nil {
			log.Error().Err(err).Msg("sincronización fallida")
			pool.Close()
			os.Exit(1)
		}
		if *list {
			printCustomers(ctx, log, customers.NewQueryUseCase(postgres.NewCustomerRepository(pool)),
				repository.CustomerFilter{Status: *status, Search: *search})
		}
		return
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(cfg.Sync.Schedule, func() {
		log.Info().Msg("iniciando sincronización programada")
		if err := runOnce(); err != nil {
			log.Error().Err(err).Msg("sincronización programada fallida")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Sync.Schedule).Msg("programar sincronización")
	}
	c.Start()
	log.Info().Str("schedule", cfg.Sync.Schedule).Msg("sincronización programada")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, esperando jobs en curso...")
	<-c.Stop().Done()
	log.Info().Msg("sincronización detenida")
}

func printCustomers(ctx context.Context, log *logger.Logger, uc *customers.QueryUseCase, filter repository.CustomerFilter) {
	list, err := uc.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("listar clientes")
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		log.Error().Err(err).Msg("escribir clientes")
	}
}
