// Package flagx lets each component parse only the command-line flags it
// owns. The config document path is wanted before anything else is set up,
// so it is extracted through a filtered flag set that ignores every other
// argument instead of fighting over the global flag.CommandLine.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args containing only the allowed flags
// and their values. Both "-f value" and "-f=value" forms are kept; anything
// else is dropped, so an unrelated flag never trips the caller's flag set.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-flag=value" form: match on the part before '='.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			if _, ok := allowed[strings.SplitN(arg, "=", 2)[0]]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			// A following non-flag argument is this flag's value.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}

// ConfigPathFlag extracts the training document path given via -c or
// -config, in single- or double-dash form. Only these flags are parsed;
// everything else in os.Args is ignored. Returns "" when none is present.
func ConfigPathFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "--c", "--config"})

	fs := flag.NewFlagSet("configpath", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to the training config document")
	fs.StringVar(&path, "c", "", "path to the training config document (short)")
	_ = fs.Parse(args)

	return path
}
