// Command reportctl is the operator CLI for the metricnex dashboard. It works
// against the same config, data directory and export tree as the server but
// never needs the report database.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
