package main

import (
	"os"

	"github.com/farmconnect/harvest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
