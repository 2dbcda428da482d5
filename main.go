package main

import (
	"os"

	"github.com/FreePlacki/Klox/cmd"
)

func main() {
	app := cmd.NewLoxApp()
	os.Exit(app.Main(os.Args[1:]))
}
