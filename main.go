package main

import (
	"log"
	"os"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := newCLIApp(loadConfig())
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
