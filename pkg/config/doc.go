// Package config provides a type-safe, generic and cached way to load
// client configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// values come from the process environment with an optional `.env`
// fallback, are parsed into any annotated Go struct, and each
// configuration type is parsed at most once per process.
//
// # Usage
//
//	type APIConfig struct {
//	    BaseURL string        `env:"RESOLVEIT_API_URL,required"`
//	    Timeout time.Duration `env:"RESOLVEIT_API_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg APIConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// Subsequent calls to Load for the same struct type are served from the
// in-memory cache. Sentinel errors (ErrParsingConfig, ErrConfigNotLoaded,
// ErrNilPointer) can be compared with errors.Is.
package config
