// Package main is the CLI command itself.
package main

import (
	"log"
	"os"

	rigcli "github.com/cinebot/rig/cli"
)

func main() {
	app := rigcli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
