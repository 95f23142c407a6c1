// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is read once on first use; variables already
// present in the environment win. Each configuration type is parsed once and cached:
//
//	type GateConfig struct {
//		AppRoot string `env:"GATE_APP_ROOT" envDefault:"/"`
//	}
//
//	var cfg GateConfig
//	config.MustLoad(&cfg)
//
// Parsing is delegated to caarlos0/env, so env and envDefault tags, required fields,
// slices and durations follow its rules.
package config
