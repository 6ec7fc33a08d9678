package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"pet-care-center/internal/platform/calendar"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config viene sólo de variables de entorno. Un .env en el directorio de
// trabajo se carga primero si existe; el entorno real siempre gana.
type Config struct {
	Port string `env:"PORT" env-default:"8080"`
	App  string `env:"APP_NAME" env-default:"pet-care-center"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	Database DatabaseConfig

	// JWTSecret vacío deja activo sólo el header de debug (modo dev).
	JWTSecret string `env:"AUTH_JWT_SECRET"`
	JWTIssuer string `env:"AUTH_JWT_ISSUER"`

	// Timezone define qué es "hoy" para validar fechas pasadas.
	Timezone      string `env:"TIMEZONE" env-default:"Asia/Colombo"`
	BusinessOpen  string `env:"BUSINESS_OPEN" env-default:"08:00"`
	BusinessClose string `env:"BUSINESS_CLOSE" env-default:"18:00"`

	AutoBillAppointments bool `env:"AUTO_BILL_APPOINTMENTS" env-default:"false"`

	// Calculados en Load.
	Location *time.Location
	Hours    calendar.Window
}

// DatabaseConfig: sin DSN se usa el store en memoria.
type DatabaseConfig struct {
	DSN            string `env:"DB_DSN"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MigrationsPath string `env:"MIGRATIONS_PATH" env-default:"migrations"`
	RunMigrations  bool   `env:"RUN_MIGRATIONS" env-default:"true"`
}

func (d DatabaseConfig) Enabled() bool { return d.DSN != "" }

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	open, err := calendar.ParseTimeOfDay(c.BusinessOpen)
	if err != nil {
		return fmt.Errorf("invalid BUSINESS_OPEN %q: %w", c.BusinessOpen, err)
	}
	closing, err := calendar.ParseTimeOfDay(c.BusinessClose)
	if err != nil {
		return fmt.Errorf("invalid BUSINESS_CLOSE %q: %w", c.BusinessClose, err)
	}
	if closing <= open {
		return fmt.Errorf("BUSINESS_CLOSE must be after BUSINESS_OPEN")
	}
	c.Hours = calendar.Window{Open: open, Close: closing}
	return nil
}

// Clock devuelve la hora actual en la zona configurada.
func (c *Config) Clock() func() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}
