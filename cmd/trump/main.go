package main

import (
	"os"

	"github.com/abyanmajid/trump/cmd/trump/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
