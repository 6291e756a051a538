// Package main is the frameinspect command itself.
package main

import (
	"log"
	"os"

	kinframecli "github.com/musculo/kinframe/cli"
)

func main() {
	app := kinframecli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
