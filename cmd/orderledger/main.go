package main

import (
	"os"

	"github.com/pawmart/orderledger/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
