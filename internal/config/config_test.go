package config

import (
	"testing"

	"pet-care-center/internal/platform/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Asia/Colombo", cfg.Location.String())
	assert.Equal(t, calendar.MustTimeOfDay("08:00"), cfg.Hours.Open)
	assert.Equal(t, calendar.MustTimeOfDay("18:00"), cfg.Hours.Close)
	assert.False(t, cfg.AutoBillAppointments)
	assert.False(t, cfg.Database.Enabled())
	assert.True(t, cfg.Database.RunMigrations)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", "postgres://localhost/petcare")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("BUSINESS_OPEN", "09:00")
	t.Setenv("BUSINESS_CLOSE", "17:30")
	t.Setenv("AUTO_BILL_APPOINTMENTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.True(t, cfg.Hours.Contains(calendar.MustTimeOfDay("17:30")))
	assert.False(t, cfg.Hours.Contains(calendar.MustTimeOfDay("08:30")))
	assert.True(t, cfg.AutoBillAppointments)
}

func TestLoad_RejectsBadHours(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUSINESS_OPEN", "18:00")
	t.Setenv("BUSINESS_CLOSE", "08:00")

	_, err := Load()
	assert.Error(t, err)
}
