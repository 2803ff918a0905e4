// Command kinly is the todo lists CLI. This root package lets
// `go install github.com/idilsaglam/kinly@latest` produce the binary; the
// same entrypoint lives in cmd/kinly.
package main

import (
	"os"

	"github.com/idilsaglam/kinly/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
