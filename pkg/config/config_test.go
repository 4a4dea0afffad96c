package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "EUR", cfg.Billing.Currency)
	assert.False(t, cfg.Billing.VATEnabled)
	assert.Equal(t, 19.0, cfg.Billing.VATRate)
	assert.Equal(t, 30, cfg.Billing.DueDays)
	assert.Equal(t, "Self Storage Cyprus", cfg.Billing.Company.Name)
	assert.Equal(t, "UTC", cfg.Sync.Timezone)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Timeout)
	assert.Empty(t, cfg.Sync.Schedule)
	assert.Equal(t, "postgres://postgres:@localhost:5432/storage_manager?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_LeeValores(t *testing.T) {
	v := viper.New()
	v.Set("BILLING_CURRENCY", "usd")
	v.Set("BILLING_VAT_ENABLED", "1")
	v.Set("BILLING_VAT_RATE", "5.5")
	v.Set("BILLING_DUE_DAYS", "15")
	v.Set("SYNC_SCHEDULE", "0 3 * * *")
	v.Set("SYNC_TIMEOUT", "90s")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Billing.Currency)
	assert.True(t, cfg.Billing.VATEnabled)
	assert.Equal(t, 5.5, cfg.Billing.VATRate)
	assert.Equal(t, 15, cfg.Billing.DueDays)
	assert.Equal(t, "0 3 * * *", cfg.Sync.Schedule)
	assert.Equal(t, 90*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestFromViper_ConfiguracionInvalida(t *testing.T) {
	cases := map[string]string{
		"BILLING_CURRENCY": "ARS",
		"BILLING_VAT_RATE": "150",
		"COMPANY_EMAIL":    "no-es-email",
		"LOG_LEVEL":        "verbose",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			v := viper.New()
			v.Set(key, value)
			_, err := fromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuración inválida")
		})
	}
}
