package main

import (
	"fmt"
	"os"

	"cloakchat/cmd/cloakchat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
