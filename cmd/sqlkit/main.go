// Package main provides the sqlkit CLI.
package main

import (
	"os"

	"github.com/seaquel-labs/sqlkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
