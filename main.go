package main

import (
	"log"

	"github.com/nicebott/docencia-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
