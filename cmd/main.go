package main

import (
	"context"
	"os"

	"github.com/okian/netninja/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		// The logger may not be initialized when config loading fails.
		os.Stderr.WriteString("netninja: " + err.Error() + "\n")
		os.Exit(1)
	}
}
