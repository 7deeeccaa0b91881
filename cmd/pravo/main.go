// Command pravo answers questions about Belarusian legal texts.
package main

import (
	"os"

	"github.com/alexuwunya/pravo-bot/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
