package main

import (
	"os"

	"horse.fit/verity/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
