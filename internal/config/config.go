package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort              string `env:"HTTP_PORT" envDefault:"8080"`
	CatalogSource         string `env:"CATALOG_SOURCE" envDefault:"file"`
	CatalogPath           string `env:"CATALOG_PATH" envDefault:"catalog/questions.yaml"`
	DatabaseURL           string `env:"DATABASE_URL"`
	DBMaxConns            int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	RedisAddr             string `env:"REDIS_ADDR"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	RedisDB               int    `env:"REDIS_DB" envDefault:"0"`
	QuestionsPerDichotomy int    `env:"QUESTIONS_PER_DICHOTOMY" envDefault:"11"`
	SampleTTLMinutes      int    `env:"SAMPLE_TTL_MINUTES" envDefault:"60"`
	SampleSeed            uint64 `env:"SAMPLE_SEED" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza combinaciones inconsistentes. No modifica la config.
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case CatalogSourceFile:
		if c.CatalogPath == "" {
			return errors.New("CATALOG_PATH is required when CATALOG_SOURCE=file")
		}
	case CatalogSourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when CATALOG_SOURCE=postgres")
		}
		if c.DBMaxConns <= 0 {
			return errors.New("DB_MAX_CONNS must be positive when CATALOG_SOURCE=postgres")
		}
	default:
		return errors.New("CATALOG_SOURCE must be file or postgres")
	}
	if c.QuestionsPerDichotomy <= 0 {
		return errors.New("QUESTIONS_PER_DICHOTOMY must be positive")
	}
	return nil
}

// SampleTTL devuelve cuanto vive un set de preguntas emitido.
func (c *Config) SampleTTL() time.Duration {
	if c.SampleTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.SampleTTLMinutes) * time.Minute
}
