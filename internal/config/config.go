// Package config carga la configuración del bot desde el entorno.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config agrupa todo lo que el proceso lee del entorno. Nada de esto toca las
// reglas del juego, solo cómo se arranca (transporte, storage, logging).
type Config struct {
	Token string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`

	UseWebhook    bool   `env:"USE_WEBHOOK"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Port          int    `env:"PORT" envDefault:"8443"`

	// Zona horaria fija del juego: periodos de comida y medianoche se
	// resuelven siempre acá, no en la zona del server.
	Timezone string `env:"BOT_TIMEZONE" envDefault:"Europe/Moscow"`

	DBPath string `env:"DB_PATH" envDefault:"pet_bot.db"`
	DBDSN  string `env:"DB_DSN"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load lee .env si existe y después parsea el entorno real.
func Load() (Config, error) {
	// .env es cortesía para desarrollo; si no está, mandan las vars reales.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.UseWebhook && strings.TrimSpace(c.WebhookURL) == "" {
		return fmt.Errorf("USE_WEBHOOK is set but WEBHOOK_URL is empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

// Location resuelve la zona horaria configurada.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
