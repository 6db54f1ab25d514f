// Package flagx holds small helpers for pre-scanning command-line flags
// before the main flag set is built.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values. Both "-f value" and "-f=value" forms are recognized. Scanning stops
// at "--" or at the first positional argument, since everything after it
// belongs to a subcommand.
func FilterArgs(args []string, allowed ...string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" || !strings.HasPrefix(arg, "-") {
			break
		}

		name, _, hasValue := strings.Cut(arg, "=")
		_, keep := names[name]

		switch {
		case hasValue:
			if keep {
				out = append(out, arg)
			}
		case i+1 < len(args) && !strings.HasPrefix(args[i+1], "-"):
			// A separate value follows. For flags we don't know it is
			// skipped as well, otherwise it would end the scan.
			if keep {
				out = append(out, arg, args[i+1])
			}
			i++
		case keep:
			out = append(out, arg)
		}
	}
	return out
}

// ConfigPath returns the value of -c or -config, or "" if neither is given.
// When both appear the last one wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, "-c", "-config", "--config"))

	return path
}
