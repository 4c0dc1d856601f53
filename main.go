package main

import (
	"fmt"
	"os"

	"github.com/careerpilot/careerpilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", cmd.UserMessage(err))
		os.Exit(1)
	}
}
