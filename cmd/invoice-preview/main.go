// invoice-preview imprime (JSON) el documento de factura de una unidad o pallet,
// listo para el colaborador de renderizado.
//
// Uso: go run ./cmd/invoice-preview -type unit -id 12
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storage-manager/internal/application/invoicing"
	"github.com/jhoicas/storage-manager/internal/infrastructure/postgres"
	"github.com/jhoicas/storage-manager/pkg/config"
	"github.com/jhoicas/storage-manager/pkg/logger"
)

func main() {
	entityType := flag.String("type", "unit", "unit o pallet")
	id := flag.Int64("id", 0, "ID de la unidad/pallet")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := invoicing.NewUseCase(
		postgres.NewUnitRepository(pool),
		postgres.NewPalletRepository(pool),
		settingsFrom(cfg.Billing),
	)
	inv, err := uc.Build(ctx, *entityType, *id)
	if err != nil {
		log.Error().Err(err).Str("type", *entityType).Int64("id", *id).Msg("armar factura")
		pool.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(inv); err != nil {
		log.Error().Err(err).Msg("escribir factura")
	}
}

func settingsFrom(b config.BillingConfig) invoicing.Settings {
	return invoicing.Settings{
		Currency:   b.Currency,
		VATEnabled: b.VATEnabled,
		VATRate:    decimal.NewFromFloat(b.VATRate),
		DueDays:    b.DueDays,
		Company: invoicing.CompanyProfile{
			Name:      b.Company.Name,
			Address:   b.Company.Address,
			Phone:     b.Company.Phone,
			Email:     b.Company.Email,
			VATNumber: b.Company.VATNumber,
		},
	}
}
