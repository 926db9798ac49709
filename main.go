package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/Lobotuerk/MonteCarloTreeSearch/experiments"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load experiment config")
	}

	if err := experiments.RunSpeedup(cfg); err != nil {
		log.Fatal().Err(err).Msg("speedup experiment failed")
	}
}

// loadConfig reads experiment.yaml from the working directory, falling
// back to defaults when the file is absent.
func loadConfig() (experiments.Config, error) {
	v := viper.New()
	v.SetConfigName("experiment")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("games", 10)
	v.SetDefault("workers", []int{1, 2, 4, 8})
	v.SetDefault("iterations", 0)
	v.SetDefault("duration", 50*time.Millisecond)
	v.SetDefault("parallelism", 2)
	v.SetDefault("target", 40)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return experiments.Config{}, err
		}
	}

	return experiments.Config{
		Games:       v.GetInt("games"),
		Workers:     v.GetIntSlice("workers"),
		Iterations:  v.GetInt("iterations"),
		Duration:    v.GetDuration("duration"),
		Parallelism: v.GetInt("parallelism"),
		Target:      v.GetInt("target"),
	}, nil
}
