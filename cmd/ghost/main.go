package main

import (
	"os"

	"github.com/notkurt/ghost/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}
