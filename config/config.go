package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HOMEE_ADDRESS" env-default:":8080"`
	Timeout time.Duration `yaml:"timeout" env:"HOMEE_TIMEOUT" env-default:"5s"`
}

type Config struct {
	LogLevel  string     `yaml:"log_level" env:"LOG_LEVEL" env-default:"DEBUG"`
	HTTP      HTTPConfig `yaml:"http_server"`
	DBAddress string     `yaml:"db_address" env:"DB_ADDRESS" env-required:"true"`
	PageSize  int        `yaml:"feed_page_size" env:"FEED_PAGE_SIZE" env-default:"10"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	// no path given - env only
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// try the file, fall back to env when it does not exist
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
