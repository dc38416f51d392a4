package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"8080"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Pool struct {
		EliteSize      int     `env:"ELITE_SIZE" envDefault:"100"`
		HistoricalSize int     `env:"HISTORICAL_SIZE" envDefault:"1000"`
		InitialRandom  int     `env:"INITIAL_RANDOM" envDefault:"10"`
		EliteFraction  float64 `env:"ELITE_FRACTION" envDefault:"0.7"`
	} `envPrefix:"POOL_"`
	Work struct {
		Generations    uint32  `env:"GENERATIONS" envDefault:"200"`
		PopulationSize int     `env:"POPULATION_SIZE" envDefault:"50"`
		MutationRate   float64 `env:"MUTATION_RATE" envDefault:"0.05"`
		SeedCount      int     `env:"SEED_COUNT" envDefault:"20"`
	} `envPrefix:"WORK_"`
	Worker struct {
		ServerURL         string `env:"SERVER_URL" envDefault:"http://localhost:8080"`
		RequestTimeout    int    `env:"REQUEST_TIMEOUT" envDefault:"30"`
		RequestRetryDelay int    `env:"REQUEST_RETRY_DELAY" envDefault:"10"`
		SubmitRetryDelay  int    `env:"SUBMIT_RETRY_DELAY" envDefault:"5"`
	} `envPrefix:"WORKER_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}
