// Binary sentencia is the command line client for local corpus analysis and
// dictionary management.
package main

import (
	"fmt"
	"os"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/interfaces/cli"
)

// Injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
