package config

import (
	"flag"
	"io"
	"time"
)

// parseFlags overlays cfg with command-line flags and returns the
// remaining positional arguments.
//
// -c and -config are accepted here only so parsing does not fail on them;
// the file itself has already been applied.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("activityhub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	fs.StringVar(&configPath, "c", "", "path to config file (short)")
	fs.StringVar(&configPath, "config", "", "path to config file")

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the activity API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "credential database path")
	watch := fs.Int("i", int(cfg.WatchInterval.Seconds()), "connectivity watch interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Only an explicit -i replaces the interval; the default shown by the
	// flag is rounded to whole seconds.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.WatchInterval = time.Duration(*watch) * time.Second
		}
	})
	return fs.Args(), nil
}
