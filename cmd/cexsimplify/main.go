package main

import (
	"os"

	"github.com/netrixframework/cexsimplify/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
