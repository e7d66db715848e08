// Package main is the entry point for the platovue CLI.
package main

import (
	"os"

	"github.com/blackwell-systems/platovue/internal/app"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	app.SetVersion(version)
	os.Exit(app.Execute())
}
