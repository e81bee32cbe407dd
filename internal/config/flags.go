package config

import (
	"flag"
	"io"

	"github.com/naazbookdepot/shopauth/internal/flagx"
)

// parseFlags applies the short flags:
//
//	-a string   listen address
//	-d string   PostgreSQL DSN
//	-s string   session signing secret
//	-r string   Redis address for shared rate limits
//	-e string   environment; "production" turns on Secure cookies
//	-m bool     expose /metrics
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-r", "-e", "-m", "-l"})

	fs := flag.NewFlagSet("shopd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "session signing secret")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for rate limits")
	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment")
	fs.BoolVar(&cfg.MetricsEnabled, "m", cfg.MetricsEnabled, "expose metrics")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
