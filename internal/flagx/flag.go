// Package flagx holds small helpers for command-line flags that several
// configuration layers need to look at independently.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the flags named in allowed (plus their values) so a
// FlagSet that knows a subset of flags can parse os.Args without failing on
// the others.
//
// Both "-f value" and "-f=value" forms are recognised. A token following a
// flag is treated as its value unless it starts with '-'.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}

	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := known[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		if _, keep := known[arg]; !keep {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigFiles names the optional files the client reads its settings from.
type ConfigFiles struct {
	// JSON is the path given with -c / -config.
	JSON string
	// Env is the dotenv file given with -e / -env.
	Env string
}

// ParseConfigFiles extracts the -c/-config and -e/-env flags from args
// (normally os.Args[1:]). Other flags are ignored. The last occurrence wins.
func ParseConfigFiles(args []string) ConfigFiles {
	var files ConfigFiles

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&files.JSON, "config", "", "path to JSON config file")
	fs.StringVar(&files.JSON, "c", "", "path to JSON config file (short)")
	fs.StringVar(&files.Env, "env", "", "path to dotenv file")
	fs.StringVar(&files.Env, "e", "", "path to dotenv file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "-e", "-env"}))

	return files
}
