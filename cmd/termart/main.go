package main

import (
	"os"

	"github.com/boriwo/termart/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
