package main

import (
	"os"

	"github.com/labelcheck/labelcheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
