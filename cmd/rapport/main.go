package main

import (
	"fmt"
	"os"

	"github.com/rapport-app/rapport/internal/cli"

	_ "modernc.org/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
