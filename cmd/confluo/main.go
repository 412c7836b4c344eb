package main

import (
	"os"

	"github.com/confluo-search/confluo/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
