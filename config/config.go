package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"catalogdemo/logger"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings is the static configuration needed to run the demo and the API.
type Settings struct {
	MongoDBDSN            string        `env:"MONGODB_DSN" envDefault:"mongodb://localhost:27017"`
	MongoDBDBName         string        `env:"MONGODB_DB_NAME" envDefault:"beanie_db"`
	MongoDBConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`

	Address   string `env:"ADDRESS" envDefault:":8080"`
	JWTSecret string `env:"JWT_SECRET"`

	Log logger.Config `envPrefix:"LOG_"`
}

// LoadEnv copies variables from the given env files (".env" when none is
// given) into the process environment. Variables already set win, and
// missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// NewSettings parses the process environment into Settings.
func NewSettings() (*Settings, error) {
	s := Settings{}
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
