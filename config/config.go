package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Catalog struct {
	BaseURL string        `yaml:"CATALOG_BASE_URL" env:"CATALOG_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"CATALOG_TIMEOUT" env:"CATALOG_TIMEOUT" env-default:"10s"`
}

type StorageConfig struct {
	// Backend selects where the cart survives restarts: "file" or "redis".
	Backend   string        `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	Path      string        `yaml:"path" env:"STORAGE_PATH" env-default:"cart.json"`
	KeyPrefix string        `yaml:"key_prefix" env:"STORAGE_KEY_PREFIX" env-default:"cart"`
	Timeout   time.Duration `yaml:"timeout" env:"STORAGE_TIMEOUT" env-default:"3s"`
	TTL       time.Duration `yaml:"ttl" env:"STORAGE_TTL" env-default:"0"`
}

type Config struct {
	Env          string        `yaml:"env" env:"ENV" env-required:"true"`
	Storage      StorageConfig `yaml:"storage"`
	RedisConnect RedisConnect  `yaml:"redis"`
	Catalog      Catalog       `yaml:"catalog"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {

			log.Fatal("Config path is not set")

		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {

		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg

}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d",
		r.Username, r.Password, r.Host, r.Port, r.DB)
}
