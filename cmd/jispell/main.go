package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/jispell/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "jispell: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
