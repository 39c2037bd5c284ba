// Package config reads command-line flags, falling back to the environment.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskgrid/internal/logger"
)

const (
	ModeServer = "server"
	ModeExport = "export"
	ModeTasks  = "tasks"
	ModeHelp   = "help"
)

type Config struct {
	Mode     string
	HTTPAddr string
	Format   string
	Out      string
	Logger   logger.Config
}

// Load parses args (without the program name). getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string, errOut io.Writer) (Config, error) {
	fs := flag.NewFlagSet("taskgrid", flag.ContinueOnError)
	fs.SetOutput(errOut)

	addr := getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var cfg Config
	fs.StringVar(&cfg.Mode, "mode", ModeServer, "server|export|tasks|help")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", addr, "http listen address (server mode)")
	fs.StringVar(&cfg.Format, "format", "json", "export format: json|csv|pdf")
	fs.StringVar(&cfg.Out, "out", "tasks.json", "export output path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch cfg.Mode {
	case ModeServer, ModeExport, ModeTasks, ModeHelp:
	default:
		return Config{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	cfg.Logger = logger.Config{
		Level:        logger.ParseLevel(getenv("LOG_LEVEL")),
		IsProduction: strings.EqualFold(getenv("APP_ENV"), "production"),
	}
	return cfg, nil
}

// FromOS is Load over os.Args and the process environment.
func FromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv, os.Stderr)
}
