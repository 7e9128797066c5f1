package cli

import (
	"flag"
	"fmt"
	"runtime"
)

// Version is stamped at build time with -ldflags "-X .../cli.Version=...".
var Version = "0.1.0-dev"

func newVersionCommand() command {
	return command{
		name:        "version",
		description: "Print the version",
		skipInit:    true,
		run: func(_ *flag.FlagSet, _ []string, _ *Application, s *streams) error {
			_, err := fmt.Fprintln(s.stdout, versionString())
			return err
		},
	}
}

func versionString() string {
	return fmt.Sprintf("%s (%s/%s)", Version, runtimeVersion(), runtimeGOOS())
}

// runtimeVersion is extracted for testability.
var runtimeVersion = func() string { return runtime.Version() }

// runtimeGOOS is extracted for testability.
var runtimeGOOS = func() string { return runtime.GOOS }
