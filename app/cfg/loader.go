package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	ConfigPath string `long:"config" env:"CONFIG_PATH" default:"./config.yml" description:"Path to the YAML configuration file"`
	DataDir    string `long:"data-dir" env:"DATA_DIR" default:"./.data" description:"Directory for the delivery state database"`
	Port       string `long:"port" env:"PORT" description:"HTTP status server port (disabled when empty)"`
	DryRun     bool   `long:"dry-run" env:"DRY_RUN" description:"Log payloads instead of posting to webhooks"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"feedhook/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses process options from command-line flags and environment
// variables. Returns (nil, nil) when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &Cfg{
		ConfigPath: raw.ConfigPath,
		DataDir:    raw.DataDir,
		Port:       raw.Port,
		DryRun:     raw.DryRun,
		UserAgent:  raw.UserAgent,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}, nil
}
