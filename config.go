package simstats

import (
	"github.com/hyp3rd/simstats/internal/constants"
)

// Config is a struct that wraps the configuration options of the `Engine`.
type Config struct {
	// EngineOptions is a slice of options that can be used to configure the `Engine`.
	EngineOptions []Option
}

// NewConfig returns a new `Config` struct with default values:
//   - `WithIngestWorkers(constants.DefaultIngestWorkers)`
//   - `WithDefaultFormat(constants.DefaultFormat)`
//
// Options appended to EngineOptions override the defaults.
func NewConfig() *Config {
	return &Config{
		EngineOptions: []Option{
			WithIngestWorkers(constants.DefaultIngestWorkers),
			WithDefaultFormat(constants.DefaultFormat),
		},
	}
}
