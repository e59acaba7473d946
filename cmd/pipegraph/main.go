package main

import (
	"fmt"
	"os"

	"github.com/askiada/go-pipegraph/cmd/pipegraph/internal/command"
)

func main() {
	if err := command.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
