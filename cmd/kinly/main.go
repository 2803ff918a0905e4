package main

import (
	"os"

	"github.com/idilsaglam/kinly/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
