package main

import (
	"fmt"
	"os"

	"github.com/haukened/safe-block/internal/safeblock/cli"
)

func main() {
	rc := cli.NewRootCommand()
	if err := rc.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "safeblock: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
