package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenePath string // hcl files

	Ticks    int     // number of simulation steps to run
	TimeStep float64 // seconds of scene time per step
	Realtime bool    // pace steps on the wall clock instead of running flat out

	PublishURL string // optional Socket.IO viewer endpoint

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenePath == "" {
		return nil, errors.New("ScenePath is a required configuration field and cannot be empty")
	}
	if cfg.Ticks < 0 {
		return nil, errors.New("Ticks cannot be negative")
	}
	if cfg.TimeStep <= 0 {
		return nil, errors.New("TimeStep must be a positive number of seconds")
	}

	return &cfg, nil
}
