package main

import (
	"os"

	"github.com/scan-io-git/ghrecon/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
