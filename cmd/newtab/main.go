package main

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/newtab/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ newtab: %v\n", err)
		os.Exit(1)
	}
}
